// Package service orchestrates the registration pipeline: valid token,
// validated payload, ordered-fallback submission, persisted outcome. The
// whole pipeline runs at most once per inbound request; the endpoint
// fallback inside the submitter is the only internal retry.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pavrica/internal/platform/metrics"
	"pavrica/internal/rica/audit"
	"pavrica/internal/rica/carrier"
	"pavrica/internal/rica/models"
	"pavrica/internal/rica/token"
	dErrors "pavrica/pkg/domain-errors"
	"pavrica/pkg/platform/sentinel"
	"pavrica/pkg/requestcontext"
)

// TokenSource yields a currently valid carrier bearer token.
type TokenSource interface {
	GetValidToken(ctx context.Context) (token.Token, error)
}

// Submitter posts a registration across the configured endpoints.
type Submitter interface {
	Submit(ctx context.Context, payload models.CarrierRegistration, bearer string) (models.CarrierResponse, error)
}

// OutcomeStore appends one registration outcome row.
type OutcomeStore interface {
	InsertOutcome(ctx context.Context, outcome *models.RegistrationOutcome) error
}

// Service runs the registration pipeline.
type Service struct {
	tokens    TokenSource
	submitter Submitter
	outcomes  OutcomeStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	recorder  *audit.Recorder
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditRecorder attaches best-effort registration audit events.
func WithAuditRecorder(recorder *audit.Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// New constructs the registration service.
func New(tokens TokenSource, submitter Submitter, outcomes OutcomeStore, opts ...Option) (*Service, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter is required")
	}
	if outcomes == nil {
		return nil, fmt.Errorf("outcome store is required")
	}

	svc := &Service{
		tokens:    tokens,
		submitter: submitter,
		outcomes:  outcomes,
		logger:    slog.Default(),
		tracer:    otel.Tracer("pavrica/rica/service"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register runs the full pipeline for one inbound request. Validation
// failures return before any network call; every other failure is fatal for
// the request with no cross-step retries.
func (s *Service) Register(ctx context.Context, req *models.RegistrationRequest) (*models.RegistrationResponse, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	ctx, span := s.tracer.Start(ctx, "rica.register",
		trace.WithAttributes(attribute.String("rica.agent_id", req.AgentID)))
	defer span.End()

	if err := req.Validate(); err != nil {
		s.metrics.IncrementOutcome("rejected")
		s.audit(ctx, req, audit.Event{Outcome: audit.OutcomeRejected, Reason: err.Error()})
		return nil, err
	}

	tok, err := s.tokens.GetValidToken(ctx)
	if err != nil {
		s.metrics.IncrementOutcome("failed")
		s.audit(ctx, req, audit.Event{Outcome: audit.OutcomeFailed, Reason: "authentication"})
		return nil, s.translateTokenError(err)
	}

	payload := models.BuildCarrierRegistration(req)

	resp, err := s.submitter.Submit(ctx, payload, tok.Value)
	if err != nil {
		s.metrics.IncrementOutcome("failed")
		s.audit(ctx, req, audit.Event{Outcome: audit.OutcomeFailed, Reason: "submission"})
		if errors.Is(err, carrier.ErrRegistrationFailed) {
			s.logger.Warn("registration exhausted all endpoints",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "SmartRICA registration failed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registration submission failed")
	}

	// The caller has gone away; do not persist an outcome it will never see.
	if ctx.Err() != nil {
		s.metrics.IncrementOutcome("failed")
		s.logger.Warn("request aborted before persistence, skipping insert",
			"request_id", requestcontext.RequestID(ctx),
			"rica_reference", resp.RicaReference,
		)
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeInternal, "request aborted")
	}

	outcome := models.NewOutcome(req, resp, requestcontext.Now(ctx))
	if err := s.outcomes.InsertOutcome(ctx, outcome); err != nil {
		s.metrics.IncrementOutcome("failed")
		// The carrier accepted this registration; the row is lost from the
		// caller's perspective even though the reference exists upstream.
		s.logger.Error("carrier accepted registration but outcome insert failed",
			"request_id", requestcontext.RequestID(ctx),
			"rica_reference", resp.RicaReference,
			"error", err.Error(),
		)
		s.audit(ctx, req, audit.Event{
			Outcome:       audit.OutcomeFailed,
			Reason:        "storage",
			ResponseCode:  resp.ResponseCode,
			RicaReference: resp.RicaReference,
		})
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration outcome")
	}

	s.metrics.IncrementOutcome("succeeded")
	s.audit(ctx, req, audit.Event{
		Outcome:       audit.OutcomeSucceeded,
		ResponseCode:  resp.ResponseCode,
		RicaReference: resp.RicaReference,
	})

	return &models.RegistrationResponse{
		Success:       true,
		Message:       "RICA customer registered successfully",
		RicaReference: resp.RicaReference,
		RicaDate:      outcome.RicaDate,
	}, nil
}

// translateTokenError maps token layer failures onto the domain taxonomy.
// All of them collapse to 500 for the caller but keep distinct messages for
// logs and diagnostics.
func (s *Service) translateTokenError(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeInternal, "Credentials not found")
	case errors.Is(err, token.ErrMalformedResponse):
		return dErrors.Wrap(err, dErrors.CodeInternal, "carrier auth response malformed")
	case errors.Is(err, token.ErrAuthenticationFailed):
		return dErrors.Wrap(err, dErrors.CodeInternal, "carrier authentication failed")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to obtain carrier token")
	}
}

func (s *Service) audit(ctx context.Context, req *models.RegistrationRequest, event audit.Event) {
	if s.recorder == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.AgentID = req.AgentID
	event.SubscriberID = req.SubscriberID
	event.NetworkID = req.Network.ID
	s.recorder.Record(event)
}
