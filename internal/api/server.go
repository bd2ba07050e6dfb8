// Package api exposes the HTTP trigger for diligence runs.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/records"
)

// Submitter schedules a run in the background and returns its run id.
type Submitter interface {
	Submit(ctx context.Context, company model.Company) string
}

// Options configures the router.
type Options struct {
	Version        string
	AllowedOrigins []string
	Now            func() time.Time
}

type handler struct {
	runs  Submitter
	store records.Store
	opts  Options
}

// NewRouter builds the trigger server's routes.
func NewRouter(runs Submitter, store records.Store, opts Options) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	h := &handler{runs: runs, store: store, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Post("/research/company", h.research)
	r.Get("/test/records", h.testRecords)

	return r
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "AI Diligence API",
		"status":  "running",
		"version": h.opts.Version,
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": h.opts.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) research(w http.ResponseWriter, r *http.Request) {
	var company model.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := company.Missing(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, strings.Join(missing, ", ")+" required")
		return
	}

	runID := h.runs.Submit(r.Context(), company)
	zap.L().Info("api: diligence run scheduled",
		zap.String("run_id", runID),
		zap.String("company", company.Name),
		zap.String("external_id", company.ExternalID),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":     fmt.Sprintf("Research started for %s", company.Name),
		"external_id": company.ExternalID,
		"status":      "processing",
	})
}

// testRecords probes the record store by counting Pending records.
func (h *handler) testRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.ListByStatus(r.Context(), model.DiligencePending)
	if err != nil {
		zap.L().Warn("api: record store probe failed", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"records_found": len(recs),
		"message":       "Record store connection working",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each request through zap.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
