package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pavrica/internal/rica/models"
)

func TestClientPost(t *testing.T) {
	ctx := context.Background()
	payload := samplePayload()

	t.Run("posts payload with bearer token", func(t *testing.T) {
		var gotAuth, gotContentType string
		var gotBody models.CarrierRegistration

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(models.CarrierResponse{
				ResponseCode:  models.ResponseCodeSuccess,
				RicaReference: "R555",
			})
		}))
		defer server.Close()

		resp, err := NewClient(server.Client()).Post(ctx, server.URL, payload, "tok-xyz")
		require.NoError(t, err)
		assert.True(t, resp.Succeeded())
		assert.Equal(t, "R555", resp.RicaReference)
		assert.Equal(t, "Bearer tok-xyz", gotAuth)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, payload, gotBody)
	})

	t.Run("non-success response code is returned without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(models.CarrierResponse{ResponseCode: "Failure", Message: "duplicate"})
		}))
		defer server.Close()

		resp, err := NewClient(server.Client()).Post(ctx, server.URL, payload, "tok")
		require.NoError(t, err)
		assert.False(t, resp.Succeeded())
		assert.Equal(t, "duplicate", resp.Message)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.Client()).Post(ctx, server.URL, payload, "tok")
		assert.Error(t, err)
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		_, err := NewClient(nil).Post(ctx, server.URL, payload, "tok")
		assert.Error(t, err)
	})

	t.Run("undecodable body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		_, err := NewClient(server.Client()).Post(ctx, server.URL, payload, "tok")
		assert.Error(t, err)
	})
}

// TestSubmitterWithRealClient exercises the ordered fallback through real HTTP
// servers rather than a scripted poster.
func TestSubmitterWithRealClient(t *testing.T) {
	ctx := context.Background()
	payload := samplePayload()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	var upCalls int
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		upCalls++
		json.NewEncoder(w).Encode(models.CarrierResponse{
			ResponseCode:  models.ResponseCodeSuccess,
			RicaReference: "R777",
		})
	}))
	defer up.Close()

	submitter, err := NewSubmitter(NewClient(nil), []string{down.URL, up.URL})
	require.NoError(t, err)

	resp, err := submitter.Submit(ctx, payload, "tok")
	require.NoError(t, err)
	assert.Equal(t, "R777", resp.RicaReference)
	assert.Equal(t, 1, upCalls)
}
