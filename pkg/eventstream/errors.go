package eventstream

import "errors"

var (
	// ErrNilEvent indicates a nil event payload was provided to a publisher.
	ErrNilEvent = errors.New("nil promotion event")

	// ErrNoBrokers is returned when a broker-backed publisher has no addresses.
	ErrNoBrokers = errors.New("no event stream brokers configured")
)
