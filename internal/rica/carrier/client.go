// Package carrier talks to the SmartRICA registration service. The service is
// offered redundantly at one or more URLs; Submitter walks them in configured
// order and stops at the first success.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pavrica/internal/rica/models"
)

// Client posts one registration payload to one endpoint.
type Client struct {
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient builds a carrier client. A nil http.Client falls back to the
// default client.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		tracer:     otel.Tracer("pavrica/rica/carrier"),
	}
}

// Post submits the payload with a bearer token and decodes the carrier's
// answer. A decoded non-"Success" response is returned without error; the
// caller decides whether to fall back.
func (c *Client) Post(ctx context.Context, endpoint string, payload models.CarrierRegistration, bearer string) (models.CarrierResponse, error) {
	ctx, span := c.tracer.Start(ctx, "carrier.submit",
		trace.WithAttributes(attribute.String("carrier.endpoint", endpoint)))
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return models.CarrierResponse{}, fmt.Errorf("marshal registration payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return models.CarrierResponse{}, fmt.Errorf("build registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return models.CarrierResponse{}, fmt.Errorf("post registration: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.CarrierResponse{}, fmt.Errorf("post registration: status %d", resp.StatusCode)
	}

	var carrierResp models.CarrierResponse
	if err := json.NewDecoder(resp.Body).Decode(&carrierResp); err != nil {
		return models.CarrierResponse{}, fmt.Errorf("decode registration response: %w", err)
	}

	span.SetAttributes(attribute.String("carrier.response_code", carrierResp.ResponseCode))
	return carrierResp, nil
}
