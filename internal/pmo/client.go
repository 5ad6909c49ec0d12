package pmo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ForwardPayload is the document posted to a company's PMO endpoint when an
// approved ticket is forwarded.
type ForwardPayload struct {
	TicketNumber string          `json:"ticketNumber"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	Category     string          `json:"category"`
	Customer     string          `json:"customer"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	FormData     domain.FormData `json:"formData"`
}

// Client posts approved tickets to external PMO systems.
type Client struct {
	httpClient *http.Client
}

// NewClient constructs a client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Push posts the payload to endpoint, authenticating with apiKey as a bearer
// token. Any status outside 2xx counts as failure.
func (c *Client) Push(ctx context.Context, endpoint, apiKey string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewExternalIntegration("build pmo request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalIntegration("pmo push failed", err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewExternalIntegration(fmt.Sprintf("pmo endpoint returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// EncodePayload serializes a forward payload for storage in the outbox.
func EncodePayload(payload ForwardPayload) ([]byte, error) {
	return json.Marshal(payload)
}
