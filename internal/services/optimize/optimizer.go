package optimize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/obs"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services/extract"
)

// ErrNoJobs distinguishes "nothing to optimize" from "optimization produced
// zero savings"; it is a user-facing validation failure, not a crash.
var ErrNoJobs = errors.New("optimize: no jobs found for team and date")

const (
	// dayStartClock is when a team's running clock begins.
	dayStartClock = "09:00"
	// forceWindow is how close a constrained job's target time must be to the
	// running clock before it is chosen next regardless of distance.
	forceWindow = 30 * time.Minute
)

// Optimizer reorders a team's flexible jobs for one date using a greedy
// nearest-neighbor walk.
//
// The algorithm minimizes immediate travel distance at each step. It does not
// attempt global route optimization (e.g., VRP solvers). The design
// prioritizes determinism and simplicity over optimality: rigid and
// co-joined jobs are never reordered relative to each other, and ties break
// first-in-list.
type Optimizer struct {
	store    ports.OrderStore
	provider ports.RoutingProvider
	log      *zap.Logger
}

func NewOptimizer(store ports.OrderStore, provider ports.RoutingProvider, log *zap.Logger) *Optimizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Optimizer{store: store, provider: provider, log: log}
}

// Optimize computes a reordered schedule for the team's jobs on the given
// date, starting and ending at startAddress. The result is a comparison
// object; nothing is written back until Apply is called.
func (o *Optimizer) Optimize(
	ctx context.Context,
	team domain.Team,
	date string,
	startAddress string,
) (_ *domain.RouteOptimization, err error) {
	defer obs.Time(ctx, o.log, "optimize.Optimize")(&err)

	orders, err := o.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("optimize: list orders: %w", err)
	}

	jobs := extract.TeamJobsForDate(orders, team, date)
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	book := newLegBook(o.provider, o.log)

	addresses := make([]string, 0, 1+len(jobs))
	addresses = append(addresses, startAddress)
	for _, j := range jobs {
		addresses = append(addresses, j.Address)
	}
	// All pairwise legs are fetched up front with bounded concurrency; the
	// placement loop below makes strictly sequential decisions over the memo.
	book.Prefetch(ctx, addresses)

	dayStart, err := extract.CombineDateTime(date, dayStartClock)
	if err != nil {
		return nil, fmt.Errorf("optimize: invalid date %q: %w", date, err)
	}

	ordered := o.place(ctx, book, jobs, startAddress, dayStart)

	origKm, origMins := routeTotals(ctx, book, jobs, startAddress)
	optKm, optMins := routeTotals(ctx, book, ordered, startAddress)

	result := &domain.RouteOptimization{
		Team:          team,
		Date:          date,
		StartAddress:  startAddress,
		Original:      jobs,
		Optimized:     ordered,
		OriginalKm:    origKm,
		OriginalMins:  origMins,
		OptimizedKm:   optKm,
		OptimizedMins: optMins,
		SavedKm:       math.Max(0, origKm-optKm),
		SavedMins:     math.Max(0, origMins-optMins),
	}
	if origKm > 0 {
		result.SavedPercent = result.SavedKm / origKm * 100
	}

	o.log.Info("route optimized",
		zap.String("team", string(team)),
		zap.String("date", date),
		zap.Int("jobs", len(ordered)),
		zap.Float64("saved_km", result.SavedKm),
	)

	return result, nil
}

// place runs the greedy walk. Per iteration:
//  1. the first remaining rigid or co-joined job in list order is taken next
//     when its target time is within forceWindow of the running clock; only
//     that job is ever considered, so constrained jobs can never reorder
//     relative to each other,
//  2. otherwise the nearest flexible job by distance from the current
//     location (strict less-than keeps the first-in-list tie-break),
//  3. otherwise the first remaining job, so the walk never stalls.
//
// Flexible jobs get their times rewritten from the running clock; constrained
// jobs keep their recorded times and only advance the clock.
func (o *Optimizer) place(
	ctx context.Context,
	book *legBook,
	jobs []domain.Job,
	startAddress string,
	dayStart time.Time,
) []domain.Job {
	remaining := append([]domain.Job(nil), jobs...)
	ordered := make([]domain.Job, 0, len(jobs))

	clock := dayStart
	current := startAddress

	for len(remaining) > 0 {
		idx := -1

		for i, j := range remaining {
			if j.CanOptimize() {
				continue
			}
			if !j.TargetTime.IsZero() && j.TargetTime.Sub(clock) <= forceWindow {
				idx = i
			}
			// Only the first constrained job may be forced; a later one
			// must wait its turn regardless of its window.
			break
		}

		if idx == -1 {
			bestKm := math.MaxFloat64
			for i, j := range remaining {
				if !j.CanOptimize() {
					continue
				}
				km := book.Leg(ctx, current, j.Address).DistanceKm
				if km < bestKm {
					bestKm = km
					idx = i
				}
			}
		}

		if idx == -1 {
			idx = 0
		}

		job := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		leg := book.Leg(ctx, current, job.Address)
		travel := time.Duration(leg.DurationMins * float64(time.Minute))
		work := time.Duration(job.DurationMins) * time.Minute

		job.OutboundKm = leg.DistanceKm
		job.OutboundMins = leg.DurationMins

		if job.CanOptimize() {
			job.Depart = clock
			job.Arrive = clock.Add(travel)
			job.Start = job.Arrive
			job.End = job.Start.Add(work)
			clock = job.End
		} else {
			workStart := clock.Add(travel)
			if !job.TargetTime.IsZero() && job.TargetTime.After(workStart) {
				workStart = job.TargetTime
			}
			clock = workStart.Add(work)
		}

		if job.Address != "" {
			current = job.Address
		}

		ordered = append(ordered, job)
	}

	// Return-to-start leg is recorded on the last job of the day.
	if len(ordered) > 0 {
		last := &ordered[len(ordered)-1]
		ret := book.Leg(ctx, current, startAddress)
		last.ReturnKm = ret.DistanceKm
		last.ReturnMins = ret.DurationMins
		if last.CanOptimize() {
			last.ReturnDepart = last.End
			last.HubArrive = last.End.Add(time.Duration(ret.DurationMins * float64(time.Minute)))
		}
	}

	return ordered
}

// routeTotals sums distance and travel time over start -> jobs... -> start.
// Unresolved addresses leave the location unchanged, matching the walk.
func routeTotals(
	ctx context.Context,
	book *legBook,
	jobs []domain.Job,
	startAddress string,
) (km float64, mins float64) {
	current := startAddress
	for _, j := range jobs {
		leg := book.Leg(ctx, current, j.Address)
		km += leg.DistanceKm
		mins += leg.DurationMins
		if j.Address != "" {
			current = j.Address
		}
	}

	back := book.Leg(ctx, current, startAddress)
	km += back.DistanceKm
	mins += back.DurationMins

	return km, mins
}
