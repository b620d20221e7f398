package api

import (
	"net/http"

	"go.uber.org/zap"

	"field-dispatch-service/internal/api/handlers"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services/dispatch"
	"field-dispatch-service/internal/services/optimize"
	"field-dispatch-service/internal/tracking"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	store ports.OrderStore,
	provider ports.RoutingProvider,
	scheduler *dispatch.Scheduler,
	optimizer *optimize.Optimizer,
	tracker *tracking.Manager,
	hub string,
	log *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	scheduleHandler := &handlers.ScheduleHandler{Store: store, Provider: provider, Hub: hub, Log: log}
	optimizeHandler := &handlers.OptimizeHandler{Optimizer: optimizer, Hub: hub, Log: log}
	assignmentHandler := &handlers.AssignmentHandler{Scheduler: scheduler, Log: log}
	timelineHandler := &handlers.TimelineHandler{Store: store, Log: log}
	trackingHandler := &handlers.TrackingHandler{Manager: tracker, Log: log}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/schedule", scheduleHandler.Get)
	mux.HandleFunc("/optimize", optimizeHandler.Preview)
	mux.HandleFunc("/optimize/apply", optimizeHandler.Apply)
	mux.HandleFunc("/assignments", assignmentHandler.Create)
	mux.HandleFunc("/timeline", timelineHandler.Get)
	mux.HandleFunc("/tracking/start", trackingHandler.Start)
	mux.HandleFunc("/tracking/fix", trackingHandler.Fix)
	mux.HandleFunc("/tracking/stop", trackingHandler.Stop)

	return loggingMiddleware(log, mux)
}
