// cmd/bookingctl/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hr-screening/internal/booking"
	"hr-screening/internal/common/config"
	"hr-screening/internal/common/database"
	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
)

// Exit codes for scripting against the booking store.
const (
	exitOK           = 0
	exitUsage        = 1
	exitNotFound     = 2
	exitStoreFailure = 3
)

func main() {
	root := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Inspect and manage interview slot reservations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListCmd(), newCancelCmd(), newClearCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitForError(err))
	}
}

func exitForError(err error) int {
	switch {
	case errors.HasCode(err, errors.ErrCodeBookingNotFound):
		return exitNotFound
	case errors.HasCode(err, errors.ErrCodePersistenceFailed):
		return exitStoreFailure
	default:
		return exitUsage
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all slots in chronological order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			slots, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(slots) == 0 {
				fmt.Println("no slots booked")
				return nil
			}

			for _, slot := range slots {
				fmt.Printf("%s  %s  %3dm  %-9s  candidate=%s\n",
					slot.ID,
					slot.Start.Format(time.RFC3339),
					slot.DurationMinutes,
					slot.Status,
					slot.CandidateID,
				)
			}
			return nil
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <slot-id>",
		Short: "Cancel a booked slot, freeing its interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("slot %s cancelled\n", args[0])
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all slots from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("all slots removed")
			return nil
		},
	}
}

func openStore(ctx context.Context) (booking.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}

	log := logger.NewNoOpLogger()

	switch cfg.Booking.Backend {
	case "postgres":
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, errors.NewPersistenceError("connect postgres", err)
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return nil, nil, errors.NewPersistenceError("ping postgres", err)
		}
		store := booking.NewPostgresStore(pg.DB, log)
		if err := store.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return store, func() { pg.Close() }, nil

	case "redis":
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, nil, errors.NewPersistenceError("connect redis", err)
		}
		if err := rdb.Ping(ctx); err != nil {
			rdb.Close()
			return nil, nil, errors.NewPersistenceError("ping redis", err)
		}
		return booking.NewRedisStore(rdb.Client, log), func() { rdb.Close() }, nil

	default:
		return booking.NewFileStore(cfg.Booking.FilePath, log), func() {}, nil
	}
}
