package eventstream

import "context"

// Publisher publishes promotion events to an event stream backend.
type Publisher interface {
	PublishPromotionActivated(ctx context.Context, event *PromotionActivatedEvent) error
	Close() error
}
