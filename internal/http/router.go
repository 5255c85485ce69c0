package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/export"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/patient"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/telemetry"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/users"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/vitals"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const serviceName = "vitals-service"

// Handlers groups the per-package handlers mounted by NewRouter
type Handlers struct {
	Users    *users.Handler
	Patients *patient.Handler
	Vitals   *vitals.Handler
	Export   *export.Handler
	// Ping checks the store for /health; nil reports the store as unchecked.
	Ping func(ctx context.Context) error
}

// Options configures middleware around the routes
type Options struct {
	APIPrefix string
	Logger    zerolog.Logger
	Metrics   HTTPMetrics
	Tracing   bool
}

// SetupRouter builds every component on top of the Mongo database and returns
// the complete HTTP handler. publisher and metrics may be nil.
func SetupRouter(client *mongo.Client, database *mongo.Database, publisher messaging.PublisherInterface, metrics *telemetry.Metrics, opts Options) http.Handler {
	logger := opts.Logger

	userRepo := users.NewRepository(database)
	userService := users.NewService(userRepo, publisher, metrics, logger)

	patientRepo := patient.NewRepository(database)
	patientService := patient.NewService(patientRepo, publisher, metrics, logger)

	vitalRepo := vitals.NewRepository(database)
	vitalService := vitals.NewService(vitalRepo, publisher, metrics, logger)

	exportService := export.NewService(patientService, vitalService, publisher, metrics, logger)

	if opts.Metrics == nil && metrics != nil {
		opts.Metrics = metrics
	}

	return NewRouter(Handlers{
		Users:    users.NewHandler(userService, logger),
		Patients: patient.NewHandler(patientService, logger),
		Vitals:   vitals.NewHandler(vitalService, logger),
		Export:   export.NewHandler(exportService, logger),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}, opts)
}

// NewRouter mounts the API routes under opts.APIPrefix and /health at the
// root, wrapped in CORS.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := mux.NewRouter()

	if opts.Tracing {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(MetricsMiddleware(opts.Metrics))
	}

	r.HandleFunc("/health", healthHandler(h.Ping)).Methods("GET")

	api := r.PathPrefix(opts.APIPrefix).Subrouter()
	if opts.APIPrefix == "" {
		api = r
	}

	// Auth routes
	api.HandleFunc("/auth/signup", h.Users.Signup).Methods("POST")
	api.HandleFunc("/auth/login", h.Users.Login).Methods("POST")

	// Patient routes; next-id must be registered before {patientId}
	api.HandleFunc("/patients/next-id", h.Patients.NextPatientID).Methods("GET")
	api.HandleFunc("/patients", h.Patients.CreatePatient).Methods("POST")
	api.HandleFunc("/patients", h.Patients.ListPatients).Methods("GET")
	api.HandleFunc("/patients/{patientId}", h.Patients.GetPatient).Methods("GET")

	// Vital routes
	api.HandleFunc("/vitals", h.Vitals.CreateVital).Methods("POST")
	api.HandleFunc("/vitals/bulk", h.Vitals.CreateVitalsBulk).Methods("POST")
	api.HandleFunc("/vitals/export/{patientId}", h.Export.ExportVitals).Methods("GET")
	api.HandleFunc("/vitals/{patientId}", h.Vitals.ListVitals).Methods("GET")
	api.HandleFunc("/vitals/{vitalId}", h.Vitals.UpdateVital).Methods("PUT")
	api.HandleFunc("/vitals/{vitalId}", h.Vitals.DeleteVital).Methods("DELETE")

	return CORSMiddleware(r)
}

type healthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Service: serviceName, Database: "unchecked"}
		status := http.StatusOK

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check ping failed")
				resp.Status = "degraded"
				resp.Database = "unreachable"
				status = http.StatusServiceUnavailable
			} else {
				resp.Database = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}
