package location

import (
	"context"
	"sync"
	"time"

	"field-dispatch-service/internal/ports"
)

// maxFixAge bounds how old a reported fix may be before the feed treats the
// device as gone quiet.
const maxFixAge = 2 * time.Minute

// Feed is a device-position source fed over the API: the field device
// reports fixes and the tracker samples the most recent one. One feed serves
// one tracking session.
type Feed struct {
	mu         sync.Mutex
	latest     *ports.Position
	reportedAt time.Time
}

func NewFeed() *Feed {
	return &Feed{}
}

// Report stores a device fix, stamping it with the receipt time when the
// device sent none.
func (f *Feed) Report(p ports.Position) {
	if p.At.IsZero() {
		p.At = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = &p
	f.reportedAt = time.Now()
}

// CurrentPosition returns the most recent fix. A feed that never received
// one, or whose device has gone quiet, reports the position unavailable.
func (f *Feed) CurrentPosition(ctx context.Context) (ports.Position, error) {
	if err := ctx.Err(); err != nil {
		return ports.Position{}, ports.ErrPositionTimeout
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.latest == nil {
		return ports.Position{}, ports.ErrPositionUnavailable
	}
	if time.Since(f.reportedAt) > maxFixAge {
		return ports.Position{}, ports.ErrPositionUnavailable
	}

	return *f.latest, nil
}
