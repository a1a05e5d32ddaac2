// Package eventstreamutils builds the configured eventstream.Publisher.
package eventstreamutils

import (
	"fmt"

	"github.com/Killi-Poyi/TheCredX/pkg/eventstream"
	"github.com/Killi-Poyi/TheCredX/pkg/eventstream/kafka"
	"github.com/Killi-Poyi/TheCredX/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	// ProviderType is "kafka", or "" / "nop" to disable publishing.
	ProviderType string
	Brokers      []string
	Topic        string
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", "nop", "none":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: o.Brokers,
			Topic:   o.Topic,
		})
	default:
		return nil, fmt.Errorf("unsupported event stream provider: %s", o.ProviderType)
	}
}
