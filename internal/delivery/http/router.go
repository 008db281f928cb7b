package http

import (
	"net/http"

	"go-healthcare-records/internal/delivery/http/handler"
	"go-healthcare-records/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	userHandler           *handler.UserHandler
	patientHandler        *handler.PatientHandler
	medicalHistoryHandler *handler.MedicalHistoryHandler
	appointmentHandler    *handler.AppointmentHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	patientHandler *handler.PatientHandler,
	medicalHistoryHandler *handler.MedicalHistoryHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		userHandler:           userHandler,
		patientHandler:        patientHandler,
		medicalHistoryHandler: medicalHistoryHandler,
		appointmentHandler:    appointmentHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Admin routes: staff accounts and audit trail
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", r.userHandler.Register).Methods(http.MethodPost)
	admin.HandleFunc("/users", r.userHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", r.userHandler.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", r.userHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", r.userHandler.Deactivate).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetByID).Methods(http.MethodGet)

	// Patient records: any staff may read, clinical staff and admins mutate
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireStaff)
	patients.HandleFunc("", r.patientHandler.Search).Methods(http.MethodGet)
	patients.HandleFunc("", r.patientHandler.Create).Methods(http.MethodPost)
	patients.HandleFunc("/{id}", r.patientHandler.GetByID).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Update).Methods(http.MethodPut)
	patients.HandleFunc("/{id}", r.patientHandler.Delete).Methods(http.MethodDelete)

	// Medical histories: doctors write, staff read
	patients.HandleFunc("/{patientId}/histories", r.medicalHistoryHandler.ListByPatient).Methods(http.MethodGet)

	historyWrites := api.PathPrefix("").Subrouter()
	historyWrites.Use(r.authMiddleware.Authenticate)
	historyWrites.Use(middleware.RequireDoctor)
	historyWrites.HandleFunc("/patients/{patientId}/histories", r.medicalHistoryHandler.Create).Methods(http.MethodPost)
	historyWrites.HandleFunc("/histories/{id}", r.medicalHistoryHandler.Update).Methods(http.MethodPut)
	historyWrites.HandleFunc("/histories/{id}", r.medicalHistoryHandler.Delete).Methods(http.MethodDelete)

	histories := api.PathPrefix("/histories").Subrouter()
	histories.Use(r.authMiddleware.Authenticate)
	histories.Use(middleware.RequireStaff)
	histories.HandleFunc("/{id}", r.medicalHistoryHandler.GetByID).Methods(http.MethodGet)

	// Appointments: clinical staff schedule and reschedule, admins may also
	// cancel, only doctors complete
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)

	clinical := appointments.PathPrefix("").Subrouter()
	clinical.Use(middleware.RequireClinicalStaff)
	clinical.HandleFunc("", r.appointmentHandler.Schedule).Methods(http.MethodPost)
	clinical.HandleFunc("/{id}", r.appointmentHandler.Reschedule).Methods(http.MethodPut)

	reads := appointments.PathPrefix("").Subrouter()
	reads.Use(middleware.RequireStaff)
	reads.HandleFunc("/doctor/{doctorId}", r.appointmentHandler.ListByDoctor).Methods(http.MethodGet)
	reads.HandleFunc("/patient/{patientId}", r.appointmentHandler.ListByPatient).Methods(http.MethodGet)
	reads.HandleFunc("/{id}", r.appointmentHandler.GetByID).Methods(http.MethodGet)

	cancel := appointments.PathPrefix("").Subrouter()
	cancel.Use(middleware.RequireStaff)
	cancel.HandleFunc("/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPatch)

	complete := appointments.PathPrefix("").Subrouter()
	complete.Use(middleware.RequireDoctor)
	complete.HandleFunc("/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPatch)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
