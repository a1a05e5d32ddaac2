package testutils

import (
	"context"
	"errors"

	"github.com/Killi-Poyi/TheCredX/pkg/eventstream"
)

// MockPublisher records published events in memory.
type MockPublisher struct {
	Events []*eventstream.PromotionActivatedEvent

	// Err is returned from every publish when set; nothing is recorded.
	Err error

	// Panic makes every publish panic.
	Panic bool

	Closed bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishPromotionActivated(_ context.Context, event *eventstream.PromotionActivatedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if m.Panic {
		panic("mock publisher panic")
	}
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	m.Closed = true
	return nil
}

// ErrMockPublish is a ready-made publish failure.
var ErrMockPublish = errors.New("mock publish failure")
