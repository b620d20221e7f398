package optimize

import (
	"context"

	"go.uber.org/zap"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/services/extract"
)

// ApplyResult reports which jobs were written back and which failed.
// Keys are "orderNumber/kind".
type ApplyResult struct {
	Applied []string         `json:"applied"`
	Failed  map[string]error `json:"failed,omitempty"`
}

// Apply writes each optimized job's computed times and travel figures back
// into its owning order, one commit per job through the order store.
//
// It is best-effort per job: a failure writing one order does not prevent the
// others from being attempted, and the caller is told which jobs succeeded.
func (o *Optimizer) Apply(ctx context.Context, opt *domain.RouteOptimization) ApplyResult {
	result := ApplyResult{Failed: make(map[string]error)}

	for _, job := range opt.Optimized {
		key := job.OrderNumber + "/" + string(job.Kind)

		_, err := o.store.UpdateOrder(ctx, job.OrderNumber, func(order domain.Order) domain.Order {
			visit := order.VisitFor(job.Kind)
			if visit == nil {
				return order
			}

			visit.DepartTime = extract.FormatClock(job.Depart)
			visit.ArriveTime = extract.FormatClock(job.Arrive)
			visit.StartTime = extract.FormatClock(job.Start)
			visit.EndTime = extract.FormatClock(job.End)
			visit.ReturnDepartTime = extract.FormatClock(job.ReturnDepart)
			visit.HubArriveTime = extract.FormatClock(job.HubArrive)
			visit.OutboundKm = job.OutboundKm
			visit.OutboundMins = job.OutboundMins
			visit.ReturnKm = job.ReturnKm
			visit.ReturnMins = job.ReturnMins

			return order
		})
		if err != nil {
			o.log.Warn("apply optimization: write failed",
				zap.String("order", job.OrderNumber),
				zap.String("kind", string(job.Kind)),
				zap.Error(err),
			)
			result.Failed[key] = err
			continue
		}

		result.Applied = append(result.Applied, key)
	}

	return result
}
