// internal/booking/redis_store.go
package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	slotKeyPrefix = "slot:"
	slotIndexKey  = "slots:bystart"

	// Largest slot length the overlap scan must look back across.
	maxLookbackSeconds = 24 * 60 * 60
)

// reserveScript performs the overlap check and insert atomically on the
// server, so concurrent TryReserve calls cannot interleave between the two.
var reserveScript = redis.NewScript(`
local newStart = tonumber(ARGV[1])
local newEnd = tonumber(ARGV[2])
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], newStart - tonumber(ARGV[7]), '(' .. ARGV[2])
for _, id in ipairs(ids) do
	local key = 'slot:' .. id
	if redis.call('HGET', key, 'status') == 'booked' then
		local s = tonumber(redis.call('HGET', key, 'start'))
		local d = tonumber(redis.call('HGET', key, 'durationMinutes'))
		if s < newEnd and s + d * 60 > newStart then
			return 0
		end
	end
end
redis.call('HSET', 'slot:' .. ARGV[3],
	'candidateId', ARGV[4],
	'start', ARGV[1],
	'durationMinutes', ARGV[5],
	'status', 'booked',
	'createdAt', ARGV[6])
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[3])
return 1
`)

// RedisStore keeps reservations in Redis: one hash per slot plus a sorted-set
// index by start time.
type RedisStore struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(client *redis.Client, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: log.WithFields(map[string]interface{}{"store": "redis"}),
	}
}

func (s *RedisStore) TryReserve(ctx context.Context, interval Interval, candidateID string) (*BookedSlot, error) {
	slot := BookedSlot{
		ID:              uuid.New().String(),
		CandidateID:     candidateID,
		Start:           interval.Start,
		DurationMinutes: int(interval.Duration.Minutes()),
		Status:          StatusBooked,
		CreatedAt:       time.Now().UTC(),
	}

	res, err := reserveScript.Run(ctx, s.client,
		[]string{slotIndexKey},
		interval.Start.Unix(),
		interval.End().Unix(),
		slot.ID,
		slot.CandidateID,
		slot.DurationMinutes,
		slot.CreatedAt.Format(time.RFC3339),
		maxLookbackSeconds,
	).Int()
	if err != nil {
		return nil, errors.NewPersistenceError("reserve", err)
	}
	if res == 0 {
		return nil, errors.NewSchedulingConflictError(
			"interval " + interval.Start.Format(time.RFC3339) + " already reserved")
	}

	s.logger.Info("slot reserved", map[string]interface{}{
		"slotId":      slot.ID,
		"candidateId": candidateID,
		"start":       slot.Start,
	})

	return &slot, nil
}

func (s *RedisStore) Cancel(ctx context.Context, slotID string) error {
	key := slotKeyPrefix + slotID

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return errors.NewPersistenceError("cancel", err)
	}
	if exists == 0 {
		return errors.NewBookingNotFoundError(slotID)
	}

	if err := s.client.HSet(ctx, key, "status", StatusCancelled).Err(); err != nil {
		return errors.NewPersistenceError("cancel", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]BookedSlot, error) {
	ids, err := s.client.ZRange(ctx, slotIndexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.NewPersistenceError("list", err)
	}

	slots := make([]BookedSlot, 0, len(ids))
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, slotKeyPrefix+id).Result()
		if err != nil {
			return nil, errors.NewPersistenceError("list", err)
		}
		if len(fields) == 0 {
			continue
		}
		slot, err := slotFromFields(id, fields)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, slotIndexKey, 0, -1).Result()
	if err != nil {
		return errors.NewPersistenceError("clear", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, slotKeyPrefix+id)
	}
	keys = append(keys, slotIndexKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.NewPersistenceError("clear", err)
	}
	return nil
}

func slotFromFields(id string, fields map[string]string) (BookedSlot, error) {
	startUnix, err := strconv.ParseInt(fields["start"], 10, 64)
	if err != nil {
		return BookedSlot{}, errors.NewPersistenceError("decode", fmt.Errorf("slot %s start: %w", id, err))
	}
	duration, err := strconv.Atoi(fields["durationMinutes"])
	if err != nil {
		return BookedSlot{}, errors.NewPersistenceError("decode", fmt.Errorf("slot %s duration: %w", id, err))
	}
	createdAt, _ := time.Parse(time.RFC3339, fields["createdAt"])

	return BookedSlot{
		ID:              id,
		CandidateID:     fields["candidateId"],
		Start:           time.Unix(startUnix, 0).UTC(),
		DurationMinutes: duration,
		Status:          fields["status"],
		CreatedAt:       createdAt,
	}, nil
}
