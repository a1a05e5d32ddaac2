package eventstream_test

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Killi-Poyi/TheCredX/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("stamps new events", func() {
		before := time.Now().UTC().Add(-time.Second)
		event := eventstream.NewPromotionActivatedEvent(eventstream.PromotionMeta{ID: "1", ArticleID: "42"}, eventstream.EventSource{})

		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal(eventstream.EventTypePromotionActivated))
		Expect(event.Source.Worker).To(Equal(eventstream.SourceWorker))
		Expect(event.EmittedAt).To(BeTemporally(">", before))
		Expect(event.Promotion.Tags).NotTo(BeNil())

		_, err := uuid.Parse(event.EventID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("gives every event a distinct ID", func() {
		a := eventstream.NewPromotionActivatedEvent(eventstream.PromotionMeta{}, eventstream.EventSource{})
		b := eventstream.NewPromotionActivatedEvent(eventstream.PromotionMeta{}, eventstream.EventSource{})
		Expect(a.EventID).NotTo(Equal(b.EventID))
	})

	It("marshals PromotionActivatedEvent with expected top-level keys", func() {
		event := eventstream.PromotionActivatedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypePromotionActivated,
			EventID:       "evt_123",
			EmittedAt:     time.Unix(1735689600, 0).UTC(),
			Source:        eventstream.EventSource{Worker: "promoworker", Model: "nomic-embed-text"},
			Promotion: eventstream.PromotionMeta{
				ID:         "1",
				ArticleID:  "42",
				Title:      "A",
				Tags:       []string{"x", "y"},
				Categories: "news",
				Dimensions: 768,
			},
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(payload, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKey("schema_version"))
		Expect(decoded).To(HaveKey("event_type"))
		Expect(decoded).To(HaveKey("event_id"))
		Expect(decoded).To(HaveKey("emitted_at"))
		Expect(decoded).To(HaveKey("source"))
		Expect(decoded).To(HaveKey("promotion"))

		promotion := decoded["promotion"].(map[string]any)
		Expect(promotion).To(HaveKeyWithValue("article_id", "42"))
		Expect(promotion).To(HaveKeyWithValue("tags", ConsistOf("x", "y")))
	})
})
