package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/obs"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services/extract"
)

const (
	workdayStartClock = "09:00"
	workdayEndClock   = "18:00"

	// maxJobsPerDay is the soft per-team ceiling; exceeding it completes the
	// assignment but raises WarnTeamOverloaded.
	maxJobsPerDay = 4

	// longTravelKm flags a chosen leg as operationally expensive.
	longTravelKm = 30.0

	// windowFlexibility is how long a team may wait on site for the
	// customer's requested time before the wait counts against the slot.
	windowFlexibility = 2 * time.Hour
)

// Request describes a new job that needs a team and time slot on a date.
type Request struct {
	OrderNumber   string
	Kind          domain.JobKind
	Date          string
	Address       string
	RequestedTime string // 15:04, optional customer window
	DurationMins  int
}

// Assignment is the chosen placement. The scheduler always produces one;
// constraint misses surface as warnings, never as a refusal.
type Assignment struct {
	Team     domain.Team `json:"team"`
	Date     string      `json:"date"`
	Slot     time.Time   `json:"slot"` // proposed on-site start
	TravelKm float64     `json:"travel_km"`
	// ChainedAfter names the existing job ("orderNumber/kind") the new job
	// follows when the placement chains onto a team already in the field.
	ChainedAfter string `json:"chained_after,omitempty"`
}

// Scheduler places new jobs using a strict four-tier priority policy:
// no overtime, then travel efficiency / co-join chaining, then closeness to
// the customer's window, then workload balance.
type Scheduler struct {
	store    ports.OrderStore
	provider ports.RoutingProvider
	hub      string
	log      *zap.Logger
}

func NewScheduler(store ports.OrderStore, provider ports.RoutingProvider, hub string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{store: store, provider: provider, hub: hub, log: log}
}

// candidate scores one (team, slot) option. Fields are ordered by priority
// tier; better() compares them lexicographically, so a lower tier can never
// override a higher one.
type candidate struct {
	team         domain.Team
	slot         time.Time
	overtime     bool          // tier 1
	chainKm      float64       // tier 2
	windowDelta  time.Duration // tier 3
	jobCount     int           // tier 4
	chainedAfter string
}

func better(a, b candidate) bool {
	if a.overtime != b.overtime {
		return !a.overtime
	}
	if a.chainKm != b.chainKm {
		return a.chainKm < b.chainKm
	}
	if a.windowDelta != b.windowDelta {
		return a.windowDelta < b.windowDelta
	}
	return a.jobCount < b.jobCount
}

// Assign chooses a team and slot for the request. It always returns a
// best-effort assignment plus zero or more warnings; the only hard errors are
// infrastructure failures (order store unreachable, unparseable date).
func (s *Scheduler) Assign(ctx context.Context, req Request) (_ Assignment, _ []Warning, err error) {
	defer obs.Time(ctx, s.log, "dispatch.Assign")(&err)

	dayStart, err := extract.CombineDateTime(req.Date, workdayStartClock)
	if err != nil {
		return Assignment{}, nil, fmt.Errorf("assign: invalid date %q: %w", req.Date, err)
	}
	dayEnd, _ := extract.CombineDateTime(req.Date, workdayEndClock)

	var requested time.Time
	if req.RequestedTime != "" {
		if t, perr := extract.CombineDateTime(req.Date, req.RequestedTime); perr == nil {
			requested = t
		}
	}

	duration := time.Duration(req.DurationMins) * time.Minute
	if duration <= 0 {
		duration = time.Hour
	}

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return Assignment{}, nil, fmt.Errorf("assign: list orders: %w", err)
	}

	var best *candidate
	teamJobCount := make(map[domain.Team]int, len(domain.Roster()))

	for _, team := range domain.Roster() {
		jobs := extract.TeamJobsForDate(orders, team, req.Date)
		teamJobCount[team] = len(jobs)

		for _, c := range s.teamCandidates(ctx, req, jobs, dayStart, dayEnd, requested, duration) {
			c.team = team
			c.jobCount = len(jobs)
			if best == nil || better(c, *best) {
				copied := c
				best = &copied
			}
		}
	}

	// Roster is never empty, so a candidate always exists.
	chosen := *best

	var warnings []Warning
	if chosen.overtime {
		warnings = append(warnings, newWarning(WarnCapacityOverflow,
			fmt.Sprintf("no placement inside normal working hours exists on %s; the job runs as overtime", req.Date)))
	}
	if teamJobCount[chosen.team]+1 > maxJobsPerDay {
		warnings = append(warnings, newWarning(WarnTeamOverloaded,
			fmt.Sprintf("team %s would have %d jobs on %s", chosen.team, teamJobCount[chosen.team]+1, req.Date)))
	}
	if chosen.chainKm > longTravelKm {
		warnings = append(warnings, newWarning(WarnLongTravel,
			fmt.Sprintf("travel leg of %.1f km exceeds %.0f km", chosen.chainKm, longTravelKm)))
	}

	s.log.Info("job assigned",
		zap.String("order", req.OrderNumber),
		zap.String("kind", string(req.Kind)),
		zap.String("team", string(chosen.team)),
		zap.Time("slot", chosen.slot),
		zap.Int("warnings", len(warnings)),
	)

	return Assignment{
		Team:         chosen.team,
		Date:         req.Date,
		Slot:         chosen.slot,
		TravelKm:     chosen.chainKm,
		ChainedAfter: chosen.chainedAfter,
	}, warnings, nil
}

// teamCandidates enumerates the placement options for one team: a fresh
// departure from the hub, and chaining after each job already on the day.
func (s *Scheduler) teamCandidates(
	ctx context.Context,
	req Request,
	jobs []domain.Job,
	dayStart, dayEnd, requested time.Time,
	duration time.Duration,
) []candidate {
	var out []candidate

	hubLeg := s.leg(ctx, s.hub, req.Address)
	hubArrival := dayStart.Add(time.Duration(hubLeg.DurationMins * float64(time.Minute)))

	if len(jobs) == 0 {
		out = append(out, s.scored(hubArrival, hubLeg.DistanceKm, "", dayStart, dayEnd, requested, duration))
		return out
	}

	// Fresh run from the hub is only viable when the new job finishes before
	// the team's first existing commitment.
	first := jobs[0]
	if !firstCommitment(first).IsZero() && hubArrival.Add(duration).Before(firstCommitment(first)) {
		out = append(out, s.scored(hubArrival, hubLeg.DistanceKm, "", dayStart, dayEnd, requested, duration))
	}

	for _, j := range jobs {
		depart := j.End
		if depart.IsZero() {
			depart = dayStart
		}
		leg := s.leg(ctx, j.Address, req.Address)
		arrival := depart.Add(time.Duration(leg.DurationMins * float64(time.Minute)))
		out = append(out, s.scored(arrival, leg.DistanceKm, j.OrderNumber+"/"+string(j.Kind), dayStart, dayEnd, requested, duration))
	}

	return out
}

// scored finalizes one candidate: the team waits on site for the customer's
// window when the wait is within the allowed flexibility, and overtime is any
// slot whose work spills outside the normal working window.
func (s *Scheduler) scored(
	arrival time.Time,
	chainKm float64,
	chainedAfter string,
	dayStart, dayEnd, requested time.Time,
	duration time.Duration,
) candidate {
	slot := arrival
	var delta time.Duration

	if !requested.IsZero() {
		if arrival.Before(requested) {
			wait := requested.Sub(arrival)
			slot = requested
			if wait > windowFlexibility {
				delta = wait - windowFlexibility
			}
		} else {
			delta = arrival.Sub(requested)
		}
	}

	return candidate{
		slot:         slot,
		overtime:     slot.Before(dayStart) || slot.Add(duration).After(dayEnd),
		chainKm:      chainKm,
		windowDelta:  delta,
		chainedAfter: chainedAfter,
	}
}

func (s *Scheduler) leg(ctx context.Context, from, to string) ports.DistanceResult {
	if from == to {
		return ports.DistanceResult{}
	}
	if from == "" || to == "" {
		return ports.DistanceResult{DistanceKm: ports.FallbackDistanceKm, DurationMins: ports.FallbackDurationMins}
	}

	r, err := s.provider.Distance(ctx, from, to)
	if err != nil {
		s.log.Warn("distance lookup failed, using fallback",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
		return ports.DistanceResult{DistanceKm: ports.FallbackDistanceKm, DurationMins: ports.FallbackDurationMins}
	}
	return r
}

// firstCommitment is the earliest fixed moment of a job, used to decide
// whether a fresh hub run fits before it.
func firstCommitment(j domain.Job) time.Time {
	for _, t := range []time.Time{j.Depart, j.Arrive, j.Start, j.TargetTime} {
		if !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

// Commit writes the assignment onto the owning order record.
func (s *Scheduler) Commit(ctx context.Context, req Request, a Assignment) (domain.Order, error) {
	return s.store.UpdateOrder(ctx, req.OrderNumber, func(order domain.Order) domain.Order {
		visit := order.VisitFor(req.Kind)
		if visit == nil {
			visit = &domain.Visit{}
			switch req.Kind {
			case domain.JobSetup:
				order.Setup = visit
			case domain.JobDismantle:
				order.Dismantle = visit
			case domain.JobAdhoc:
				order.Adhoc = visit
			}
		}

		visit.Team = a.Team
		visit.Date = a.Date
		visit.StartTime = extract.FormatClock(a.Slot)
		if visit.Address == "" {
			visit.Address = req.Address
		}
		if visit.DurationMins == 0 {
			visit.DurationMins = req.DurationMins
		}

		return order
	})
}
