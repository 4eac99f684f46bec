package broadcaster

import (
	"context"
	"errors"
)

// Func adapts an ordinary function to the Broadcaster interface, letting the
// composition root and tests tap the live stream without a named type.
type Func func(ctx context.Context, event Event) error

// Broadcast satisfies the Broadcaster interface.
func (f Func) Broadcast(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// Fanout mirrors every event to a set of live transports. The hub is the
// primary member; extra members see the same frames, used for bridging the
// stream to a second transport or for inspection.
type Fanout struct {
	members []Broadcaster
}

// NewFanout assembles a broadcaster that mirrors to the given members. Nil
// members are skipped.
func NewFanout(members ...Broadcaster) *Fanout {
	kept := make([]Broadcaster, 0, len(members))
	for _, member := range members {
		if member != nil {
			kept = append(kept, member)
		}
	}
	return &Fanout{members: kept}
}

var _ Broadcaster = (*Fanout)(nil)

// Broadcast delivers the event to every member even when one fails; the
// returned error aggregates all failures.
func (f *Fanout) Broadcast(ctx context.Context, event Event) error {
	var errs []error
	for _, member := range f.members {
		if err := member.Broadcast(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
