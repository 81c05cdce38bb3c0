// internal/results/indexer.go
package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// Indexer mirrors finalized records into an Elasticsearch index so they are
// searchable. Indexing failures are logged and never fail the run.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "results-indexer", "index": index}),
	}
}

func (ix *Indexer) Index(ctx context.Context, record models.ScreeningRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	res, err := ix.client.Index(
		ix.index,
		bytes.NewReader(payload),
		ix.client.Index.WithDocumentID(record.RunID),
		ix.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index record: %s", res.Status())
	}
	return nil
}

// IndexingStore decorates a Store with best-effort Elasticsearch mirroring.
type IndexingStore struct {
	inner   Store
	indexer *Indexer
	logger  logger.Logger
}

func WithIndexer(inner Store, indexer *Indexer, log logger.Logger) *IndexingStore {
	return &IndexingStore{inner: inner, indexer: indexer, logger: log}
}

func (s *IndexingStore) Save(ctx context.Context, record models.ScreeningRecord) error {
	if err := s.inner.Save(ctx, record); err != nil {
		return err
	}
	if err := s.indexer.Index(ctx, record); err != nil {
		s.logger.Warn("result indexing failed", map[string]interface{}{
			"runId": record.RunID,
			"error": err.Error(),
		})
	}
	return nil
}

func (s *IndexingStore) List(ctx context.Context) ([]models.ScreeningRecord, error) {
	return s.inner.List(ctx)
}
