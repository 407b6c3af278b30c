// internal/audit/indexer.go
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

// Indexer mirrors timeline events into Elasticsearch so ops can search the
// full history across applications. Indexing is strictly fire-and-forget:
// failures are logged and never surfaced to the tracker.
type Indexer struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(es *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "audit-indexer"}),
	}
}

type eventDocument struct {
	ApplicationID string                 `json:"applicationId"`
	Event         string                 `json:"event"`
	Timestamp     time.Time              `json:"timestamp"`
	Actor         string                 `json:"actor,omitempty"`
	Description   string                 `json:"description"`
	Details       map[string]interface{} `json:"details,omitempty"`
	IndexedAt     time.Time              `json:"indexedAt"`
}

func (i *Indexer) IndexEvent(ctx context.Context, applicationID string, event models.TimelineEvent) {
	doc := eventDocument{
		ApplicationID: applicationID,
		Event:         event.Event,
		Timestamp:     event.Timestamp,
		Actor:         event.Actor,
		Description:   event.Description,
		Details:       event.Details,
		IndexedAt:     time.Now().UTC(),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		i.logger.Warn("failed to marshal event document", map[string]interface{}{
			"applicationId": applicationID,
			"error":         err,
		})
		return
	}

	res, err := i.es.Index(
		i.index,
		bytes.NewReader(body),
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(uuid.New().String()),
	)
	if err != nil {
		i.logger.Warn("failed to index timeline event", map[string]interface{}{
			"applicationId": applicationID,
			"event":         event.Event,
			"error":         err,
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Warn("elasticsearch rejected timeline event", map[string]interface{}{
			"applicationId": applicationID,
			"event":         event.Event,
			"status":        res.Status(),
		})
	}
}
