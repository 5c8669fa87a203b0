package routes

import (
	"net/http"

	"github.com/wecare/healthtracker/internal/api/handlers"
	"github.com/wecare/healthtracker/internal/api/middleware"
	"github.com/wecare/healthtracker/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	vitalSignHandler    *handlers.VitalSignHandler
	medicationHandler   *handlers.MedicationHandler
	consultationHandler *handlers.ConsultationHandler
	userHandler         *handlers.UserHandler

	metrics        *observability.Metrics
	allowedOrigins string
}

// NewRouter creates a new router
func NewRouter(
	vitalSignHandler *handlers.VitalSignHandler,
	medicationHandler *handlers.MedicationHandler,
	consultationHandler *handlers.ConsultationHandler,
	userHandler *handlers.UserHandler,
	metrics *observability.Metrics,
	allowedOrigins string,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		vitalSignHandler:    vitalSignHandler,
		medicationHandler:   medicationHandler,
		consultationHandler: consultationHandler,
		userHandler:         userHandler,
		metrics:             metrics,
		allowedOrigins:      allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Vital sign endpoints
	r.mux.HandleFunc("GET /api/vital-signs", r.vitalSignHandler.ListVitalSigns)
	r.mux.HandleFunc("POST /api/vital-signs", r.vitalSignHandler.CreateVitalSign)

	// Medication endpoints
	r.mux.HandleFunc("GET /api/medications", r.medicationHandler.ListMedications)
	r.mux.HandleFunc("POST /api/medications", r.medicationHandler.CreateMedication)

	// AI consultation endpoints
	r.mux.HandleFunc("GET /api/ai-consultation", r.consultationHandler.ListConsultations)
	r.mux.HandleFunc("POST /api/ai-consultation", r.consultationHandler.RequestConsultation)

	// User endpoints
	r.mux.HandleFunc("GET /api/users", r.userHandler.GetUsers)
	r.mux.HandleFunc("POST /api/users", r.userHandler.CreateUser)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.ETag(handler)
	handler = middleware.Compression(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// CORS wraps everything so preflights never reach the handlers
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
