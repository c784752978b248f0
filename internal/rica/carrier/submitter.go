package carrier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"pavrica/internal/platform/metrics"
	"pavrica/internal/rica/models"
)

// ErrRegistrationFailed means every configured endpoint was tried without a
// "Success" response. Which endpoints were tried is an ops detail; callers
// surface only the generic failure.
var ErrRegistrationFailed = errors.New("registration failed on all endpoints")

// Poster posts one payload to one endpoint.
type Poster interface {
	Post(ctx context.Context, endpoint string, payload models.CarrierRegistration, bearer string) (models.CarrierResponse, error)
}

// Submitter walks the ordered endpoint list, short-circuiting on the first
// "Success" response. Order is fixed configuration; there is no health-based
// reordering.
type Submitter struct {
	poster    Poster
	endpoints []string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*Submitter)

func WithLogger(logger *slog.Logger) SubmitterOption {
	return func(s *Submitter) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) SubmitterOption {
	return func(s *Submitter) { s.metrics = m }
}

// NewSubmitter constructs a Submitter over the ordered endpoint list.
func NewSubmitter(poster Poster, endpoints []string, opts ...SubmitterOption) (*Submitter, error) {
	if poster == nil {
		return nil, fmt.Errorf("carrier poster is required")
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("at least one registration endpoint is required")
	}

	submitter := &Submitter{
		poster:    poster,
		endpoints: endpoints,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(submitter)
	}
	return submitter, nil
}

// Submit tries each endpoint in order with the same payload and token. A
// transport failure or a non-"Success" response code moves on to the next
// endpoint; the first success wins. Exhausting the list yields
// ErrRegistrationFailed with the attempt failures aggregated for diagnostics.
func (s *Submitter) Submit(ctx context.Context, payload models.CarrierRegistration, bearer string) (models.CarrierResponse, error) {
	var failures []error

	for i, endpoint := range s.endpoints {
		position := strconv.Itoa(i)

		resp, err := s.poster.Post(ctx, endpoint, payload, bearer)
		if err != nil {
			s.metrics.IncrementSubmitAttempt(position, "transport_error")
			s.logger.Warn("registration endpoint unreachable",
				"endpoint_index", i,
				"error", err.Error(),
			)
			failures = append(failures, fmt.Errorf("endpoint %d: %w", i, err))
			continue
		}

		if !resp.Succeeded() {
			s.metrics.IncrementSubmitAttempt(position, "rejected")
			s.logger.Warn("registration endpoint rejected submission",
				"endpoint_index", i,
				"response_code", resp.ResponseCode,
			)
			failures = append(failures, fmt.Errorf("endpoint %d: response code %q", i, resp.ResponseCode))
			continue
		}

		s.metrics.IncrementSubmitAttempt(position, "success")
		return resp, nil
	}

	return models.CarrierResponse{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, errors.Join(failures...))
}
