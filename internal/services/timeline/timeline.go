package timeline

import (
	"sort"

	"field-dispatch-service/internal/domain"
)

// BuildEvents projects an ordered per-team job list into a chronological
// sequence of discrete events for display.
//
// Per job it emits: departure toward the site, arrival (merged with the job
// start when the two coincide exactly), job start, job end (merged with the
// departure from site when they coincide), departure from site, and hub
// arrival. Events with no recorded time are skipped, which keeps jobs with
// partial schedules from crashing the view. The merged events are a display
// simplification only; job identity and address metadata are preserved.
func BuildEvents(jobs []domain.Job) []domain.TimelineEvent {
	var events []domain.TimelineEvent

	for _, job := range jobs {
		events = append(events, jobEvents(job)...)
	}

	// Chronological display order across all jobs of the day.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})

	return events
}

func jobEvents(job domain.Job) []domain.TimelineEvent {
	base := domain.TimelineEvent{
		Team:        job.Team,
		OrderNumber: job.OrderNumber,
		JobKind:     job.Kind,
		Address:     job.Address,
	}

	var out []domain.TimelineEvent

	if !job.Depart.IsZero() {
		e := base
		e.Kind = domain.EventDepart
		e.At = job.Depart
		out = append(out, e)
	}

	switch {
	case !job.Arrive.IsZero() && job.Arrive.Equal(job.Start):
		e := base
		e.Kind = domain.EventArriveAndStart
		e.At = job.Arrive
		out = append(out, e)
	default:
		if !job.Arrive.IsZero() {
			e := base
			e.Kind = domain.EventArrive
			e.At = job.Arrive
			out = append(out, e)
		}
		if !job.Start.IsZero() {
			e := base
			e.Kind = domain.EventJobStart
			e.At = job.Start
			out = append(out, e)
		}
	}

	switch {
	case !job.End.IsZero() && job.End.Equal(job.ReturnDepart):
		e := base
		e.Kind = domain.EventEndAndDepart
		e.At = job.End
		out = append(out, e)
	default:
		if !job.End.IsZero() {
			e := base
			e.Kind = domain.EventJobEnd
			e.At = job.End
			out = append(out, e)
		}
		if !job.ReturnDepart.IsZero() {
			e := base
			e.Kind = domain.EventDepartSite
			e.At = job.ReturnDepart
			out = append(out, e)
		}
	}

	if !job.HubArrive.IsZero() {
		e := base
		e.Kind = domain.EventArriveHub
		e.At = job.HubArrive
		out = append(out, e)
	}

	return out
}
