// internal/results/store.go
package results

import (
	"context"

	"hr-screening/internal/models"
)

// Store persists finalized screening records. Save must be idempotent by run
// ID: re-finalizing an already-finalized run writes nothing new.
type Store interface {
	Save(ctx context.Context, record models.ScreeningRecord) error
	List(ctx context.Context) ([]models.ScreeningRecord, error)
}
