package extract

import (
	"strings"
	"time"

	"field-dispatch-service/internal/domain"
)

// defaultDurationMins is assumed when an order does not state how long the
// visit takes on site.
const defaultDurationMins = 60

// CombineDateTime parses a calendar date ("2006-01-02") and a clock value
// ("15:04") into a single UTC instant.
func CombineDateTime(date, clock string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", date+" "+clock)
}

// FormatClock renders an instant as the portal's clock string.
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

// JobsForDate derives the 0-3 scheduled jobs an order contributes to the
// given date. A kind produces a job only when its date is confirmed for that
// day AND a team has been assigned; orders without a team are pending
// dispatch and yield nothing here.
func JobsForDate(order domain.Order, date string) []domain.Job {
	var jobs []domain.Job

	for _, kind := range domain.Kinds() {
		visit := order.VisitFor(kind)
		if visit == nil {
			continue
		}
		if visit.Date != date || !visit.Team.Valid() {
			continue
		}

		jobs = append(jobs, buildJob(order, kind, *visit, date))
	}

	return jobs
}

func buildJob(order domain.Order, kind domain.JobKind, visit domain.Visit, date string) domain.Job {
	job := domain.Job{
		OrderNumber:  order.OrderNumber,
		Kind:         kind,
		Team:         visit.Team,
		Date:         date,
		Address:      resolveAddress(order, visit),
		DurationMins: visit.DurationMins,
		OutboundKm:   visit.OutboundKm,
		OutboundMins: visit.OutboundMins,
		ReturnKm:     visit.ReturnKm,
		ReturnMins:   visit.ReturnMins,
		Rigid:        visit.Rigid,
		CoJoin:       visit.CoJoin,
	}

	if job.DurationMins <= 0 {
		job.DurationMins = defaultDurationMins
	}

	if t, err := CombineDateTime(date, visit.TargetTime); err == nil {
		job.TargetTime = t
	}
	if t, err := CombineDateTime(date, visit.DepartTime); err == nil {
		job.Depart = t
	}
	if t, err := CombineDateTime(date, visit.ArriveTime); err == nil {
		job.Arrive = t
	}
	if t, err := CombineDateTime(date, visit.StartTime); err == nil {
		job.Start = t
	}
	if t, err := CombineDateTime(date, visit.EndTime); err == nil {
		job.End = t
	}
	if t, err := CombineDateTime(date, visit.ReturnDepartTime); err == nil {
		job.ReturnDepart = t
	}
	if t, err := CombineDateTime(date, visit.HubArriveTime); err == nil {
		job.HubArrive = t
	}

	return job
}

// resolveAddress falls back through the order's address chain. Empty means
// unresolved: the job is scheduled and timed but excluded from route geometry.
func resolveAddress(order domain.Order, visit domain.Visit) string {
	for _, a := range []string{visit.Address, order.DeliveryAddress, order.BillingAddress} {
		if s := strings.TrimSpace(a); s != "" {
			return s
		}
	}
	return ""
}

// TeamJobsForDate extracts the ordered job list for one team on one date
// across all orders. Store order is preserved, which keeps the optimizer's
// "original order" stable between runs.
func TeamJobsForDate(orders []domain.Order, team domain.Team, date string) []domain.Job {
	var jobs []domain.Job
	for _, order := range orders {
		for _, job := range JobsForDate(order, date) {
			if job.Team == team {
				jobs = append(jobs, job)
			}
		}
	}
	return jobs
}
