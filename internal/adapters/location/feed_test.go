package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"field-dispatch-service/internal/ports"
)

func TestFeedReturnsLatestFix(t *testing.T) {
	f := NewFeed()
	f.Report(ports.Position{Lat: 48.85, Lon: 2.35})
	f.Report(ports.Position{Lat: 48.86, Lon: 2.36})

	pos, err := f.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 48.86 || pos.Lon != 2.36 {
		t.Fatalf("position = (%v, %v), want the most recent fix", pos.Lat, pos.Lon)
	}
	if pos.At.IsZero() {
		t.Fatal("fix without a device timestamp must be stamped on receipt")
	}
}

func TestFeedUnavailableBeforeFirstFix(t *testing.T) {
	f := NewFeed()

	_, err := f.CurrentPosition(context.Background())
	if !errors.Is(err, ports.ErrPositionUnavailable) {
		t.Fatalf("error = %v, want position unavailable", err)
	}
}

func TestFeedUnavailableWhenDeviceGoesQuiet(t *testing.T) {
	f := NewFeed()
	f.Report(ports.Position{Lat: 48.85, Lon: 2.35})
	f.reportedAt = time.Now().Add(-3 * time.Minute)

	_, err := f.CurrentPosition(context.Background())
	if !errors.Is(err, ports.ErrPositionUnavailable) {
		t.Fatalf("error = %v, want position unavailable for a stale fix", err)
	}
}

func TestFeedHonorsCancelledContext(t *testing.T) {
	f := NewFeed()
	f.Report(ports.Position{Lat: 48.85, Lon: 2.35})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.CurrentPosition(ctx)
	if !errors.Is(err, ports.ErrPositionTimeout) {
		t.Fatalf("error = %v, want position timeout", err)
	}
}
