package sink

import "context"

// Notice is the payload forwarded to a secondary notification service. Field
// names follow that service's wire contract.
type Notice struct {
	Title    string `json:"titulo"`
	Message  string `json:"mensaje"`
	Severity string `json:"tipo"`
	UserID   string `json:"userId"`
}

// Sink delivers notices to an external service, best effort. Callers are
// expected to bound the call with a timeout and swallow failures.
type Sink interface {
	Send(ctx context.Context, notice Notice) error
}

// Nop discards notices.
type Nop struct{}

var _ Sink = (*Nop)(nil)

func (n *Nop) Send(ctx context.Context, notice Notice) error { return nil }
