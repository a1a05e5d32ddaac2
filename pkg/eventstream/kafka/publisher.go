// Package kafka publishes promotion events to a Kafka topic with
// segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Killi-Poyi/TheCredX/pkg/eventstream"
)

// DefaultTopic is used when Config.Topic is empty.
const DefaultTopic = "promotions.activated"

// Config holds the Kafka writer settings.
type Config struct {
	Brokers []string
	Topic   string

	// BatchTimeout bounds how long a message waits for a batch to fill.
	// The worker publishes one event per job, so the default is short.
	BatchTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher implements eventstream.Publisher on a kafka-go Writer.
type Publisher struct {
	writer messageWriter
	topic  string
}

var _ eventstream.Publisher = (*Publisher)(nil)

// NewPublisher creates a publisher writing to cfg.Topic. No connection is
// made until the first event is published.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, eventstream.ErrNoBrokers
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = 10 * time.Millisecond
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}

	return newPublisher(w, topic), nil
}

func newPublisher(w messageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic}
}

// Topic returns the topic events are written to.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishPromotionActivated writes event as a JSON message keyed by the
// promotion ID, so every event for one promotion lands on the same partition.
func (p *Publisher) PublishPromotionActivated(ctx context.Context, event *eventstream.PromotionActivatedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.Promotion.ID),
		Value: payload,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "schema_version", Value: []byte(strconv.Itoa(event.SchemaVersion))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing to topic %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
