package pmo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestClient_Push(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"ticketNumber":"TKT-202609-0001"}`)

	t.Run("posts json with bearer token", func(t *testing.T) {
		var gotMethod, gotContentType, gotAuth, gotBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			gotAuth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client := NewClient(2 * time.Second)
		require.NoError(t, client.Push(ctx, server.URL, "secret", payload))

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "Bearer secret", gotAuth)
		assert.JSONEq(t, string(payload), gotBody)
	})

	t.Run("omits authorization without api key", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		client := NewClient(2 * time.Second)
		require.NoError(t, client.Push(ctx, server.URL, "", payload))
		assert.Empty(t, gotAuth)
	})

	t.Run("non-2xx counts as integration failure", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusBadGateway} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))

			client := NewClient(2 * time.Second)
			err := client.Push(ctx, server.URL, "", payload)
			server.Close()

			require.Error(t, err, "status %d", status)
			assert.True(t, apperrors.IsCode(err, "EXTERNAL_INTEGRATION"))
		}
	})

	t.Run("unreachable endpoint counts as integration failure", func(t *testing.T) {
		client := NewClient(500 * time.Millisecond)
		err := client.Push(ctx, "http://127.0.0.1:1", "", payload)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "EXTERNAL_INTEGRATION"))
	})
}

func TestEncodePayload(t *testing.T) {
	createdAt := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	raw, err := EncodePayload(ForwardPayload{
		TicketNumber: "TKT-202609-0001",
		Title:        "Need a new laptop",
		Description:  "Current one no longer boots",
		Type:         "Hardware Request",
		Category:     "Infrastructure",
		Customer:     "Acme GmbH",
		CreatedBy:    "Jamie Doe",
		CreatedAt:    createdAt,
		FormData:     domain.FormData{"hostname": domain.StringValue("nb-042")},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// the PMO contract speaks camelCase
	assert.Equal(t, "TKT-202609-0001", decoded["ticketNumber"])
	assert.Equal(t, "Hardware Request", decoded["type"])
	assert.Equal(t, "Jamie Doe", decoded["createdBy"])
	assert.Equal(t, "2026-09-01T08:00:00Z", decoded["createdAt"])
	formData, ok := decoded["formData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "nb-042", formData["hostname"])
}
