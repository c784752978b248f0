// Package handler is the thin HTTP layer for the registration endpoint. It
// delegates to the rica service and keeps transport concerns out of the
// business logic.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pavrica/internal/platform/metrics"
	"pavrica/internal/platform/middleware"
	"pavrica/internal/rica/models"
	dErrors "pavrica/pkg/domain-errors"
)

// Service defines the registration operation the handler depends on.
type Service interface {
	Register(ctx context.Context, req *models.RegistrationRequest) (*models.RegistrationResponse, error)
}

// Handler handles the registration endpoint.
type Handler struct {
	logger       *slog.Logger
	rica         Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	health       []HealthCheck
}

// HealthCheck probes one dependency for the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// New creates the registration Handler. A nil jwtValidator leaves the
// endpoint open; health checks are optional.
func New(rica Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator, health ...HealthCheck) *Handler {
	return &Handler{
		logger:       logger,
		rica:         rica,
		metrics:      m,
		jwtValidator: jwtValidator,
		health:       health,
	}
}

// Register mounts the routes with their middleware stack.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.CORS)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		protected.Post("/smartrica", h.handleSmartrica)
	})
	router.Get("/healthz", h.handleHealth)

	r.Mount("/", router)
}

// handleSmartrica accepts one registration request and proxies it to the
// carrier through the service pipeline.
func (h *Handler) handleSmartrica(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid registration request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.rica.Register(ctx, &req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.Warn("registration rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
		} else {
			h.logger.Error("registration failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports dependency health. Any failing probe turns the
// response into a 503.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	checks := make(map[string]string, len(h.health))
	for _, probe := range h.health {
		if err := probe.Check(ctx); err != nil {
			checks[probe.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[probe.Name] = "ok"
	}
	writeJSON(w, status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain errors into the JSON error envelope.
// 4xx responses carry the domain message (and numeric reason code when one
// exists); 5xx responses stay generic so upstream details never leak.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := models.ErrorResponse{Error: "An error occurred"}

	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		status = dErrors.ToHTTPStatus(dErr.Code)
		if status < http.StatusInternalServerError {
			resp.Error = dErr.Message
			resp.Code = dErr.Reason
		}
	}
	writeJSON(w, status, resp)
}
