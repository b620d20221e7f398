package optimize

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"field-dispatch-service/internal/ports"
)

// Fallback heuristic used when the routing service cannot answer. A flaky
// provider degrades optimization quality; it never aborts the run.
const (
	FallbackKm   = ports.FallbackDistanceKm
	FallbackMins = ports.FallbackDurationMins
)

// maxConcurrentLookups bounds the prefetch fan-out against the routing service.
const maxConcurrentLookups = 5

// legBook memoizes distance lookups for one optimization run so each
// (from, to) pair costs at most one round-trip. Prefetch fills the book
// concurrently; the greedy loop then reads it without further suspension,
// which keeps decision order independent of network timing.
type legBook struct {
	provider ports.RoutingProvider
	log      *zap.Logger

	mu   sync.Mutex
	memo map[string]ports.DistanceResult
}

func newLegBook(provider ports.RoutingProvider, log *zap.Logger) *legBook {
	if log == nil {
		log = zap.NewNop()
	}
	return &legBook{
		provider: provider,
		log:      log,
		memo:     make(map[string]ports.DistanceResult),
	}
}

func legKey(from, to string) string { return from + "|" + to }

// Prefetch resolves every ordered pair among the given addresses through a
// bounded worker fan-out. Empty (unresolved) addresses are skipped; their
// legs resolve to the fallback on demand.
func (b *legBook) Prefetch(ctx context.Context, addresses []string) {
	seen := make(map[string]struct{}, len(addresses))
	uniq := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		uniq = append(uniq, a)
	}

	type pair struct{ from, to string }
	var pairs []pair
	for _, from := range uniq {
		for _, to := range uniq {
			if from != to {
				pairs = append(pairs, pair{from, to})
			}
		}
	}

	sem := make(chan struct{}, maxConcurrentLookups)
	var wg sync.WaitGroup

	for _, p := range pairs {
		wg.Add(1)
		go func(from, to string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			r := b.fetch(ctx, from, to)

			b.mu.Lock()
			b.memo[legKey(from, to)] = r
			b.mu.Unlock()
		}(p.from, p.to)
	}

	wg.Wait()
}

// Leg returns the travel figures for one leg, serving from the memo when
// possible. Identical or unresolved endpoints never hit the network.
func (b *legBook) Leg(ctx context.Context, from, to string) ports.DistanceResult {
	if from == to {
		return ports.DistanceResult{}
	}
	if from == "" || to == "" {
		return ports.DistanceResult{DistanceKm: FallbackKm, DurationMins: FallbackMins}
	}

	b.mu.Lock()
	r, ok := b.memo[legKey(from, to)]
	b.mu.Unlock()
	if ok {
		return r
	}

	r = b.fetch(ctx, from, to)

	b.mu.Lock()
	b.memo[legKey(from, to)] = r
	b.mu.Unlock()

	return r
}

func (b *legBook) fetch(ctx context.Context, from, to string) ports.DistanceResult {
	r, err := b.provider.Distance(ctx, from, to)
	if err != nil {
		b.log.Warn("distance lookup failed, using fallback",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
		return ports.DistanceResult{DistanceKm: FallbackKm, DurationMins: FallbackMins}
	}
	return r
}
