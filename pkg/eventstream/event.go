package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypePromotionActivated is emitted after a promotion's embedding is
	// committed and the row is active.
	EventTypePromotionActivated = "promoworker.promotion.activated"

	// SourceWorker names the producer in EventSource.
	SourceWorker = "promoworker"
)

// PromotionActivatedEvent is a transport-neutral event payload for a
// promotion that just became eligible for recommendation.
type PromotionActivatedEvent struct {
	SchemaVersion int           `json:"schema_version"`
	EventType     string        `json:"event_type"`
	EventID       string        `json:"event_id"`
	EmittedAt     time.Time     `json:"emitted_at"`
	Source        EventSource   `json:"source"`
	Promotion     PromotionMeta `json:"promotion"`
}

// EventSource identifies the producer.
type EventSource struct {
	Worker string `json:"worker"`
	Model  string `json:"model,omitempty"`
}

// PromotionMeta describes the activated promotion.
type PromotionMeta struct {
	ID         string   `json:"id"`
	ArticleID  string   `json:"article_id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Categories string   `json:"categories,omitempty"`
	Dimensions int      `json:"dimensions"`
}

// NewPromotionActivatedEvent stamps meta with a fresh event ID and the
// current time.
func NewPromotionActivatedEvent(meta PromotionMeta, source EventSource) *PromotionActivatedEvent {
	if source.Worker == "" {
		source.Worker = SourceWorker
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return &PromotionActivatedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypePromotionActivated,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Promotion:     meta,
	}
}
