package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"calclog/pkg/calclog"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *calclog.Core, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core, logger: logger}

	r.Get("/api/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Fitness
	r.Get("/api/workouts", h.getWorkoutTypes)
	r.Get("/api/trainings", h.getTrainings)
	r.Post("/api/trainings", h.computeTraining)
	r.Post("/api/trainings/import", h.importTrainings)

	// Finance
	r.Get("/api/finance/results", h.getFinancialResults)
	r.Post("/api/finance/results", h.computeFinancialResult)

	// Exchange rates
	r.Get("/api/exchange-rates", h.getExchangeRates)
	r.Put("/api/exchange-rates", h.setExchangeRate)
	r.Post("/api/exchange-rates/refresh", h.refreshExchangeRate)

	return r
}

type handler struct {
	core   *calclog.Core
	logger *slog.Logger
}

// writeJSON encodes before writing the header so that an encoding failure
// still yields a 500 carrying the error to the request log.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		message := "encode response: " + err.Error()
		if lw, ok := w.(interface{ SetErrorMessage(string) }); ok {
			lw.SetErrorMessage(message)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	if lw, ok := w.(interface{ SetErrorMessage(string) }); ok {
		lw.SetErrorMessage(message)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
