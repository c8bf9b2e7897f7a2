// Package customers implements the customer directory port against the
// account service's HTTP API.
package customers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Client resolves registered customer contact details.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a customer directory client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type contactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetContact returns the notification contact for a registered customer.
// Returns errs.ObjectNotFoundError when the customer does not exist.
func (c *Client) GetContact(ctx context.Context, customerID kernel.UUID) (ports.CustomerContact, error) {
	if err := customerID.Validate(); err != nil {
		return ports.CustomerContact{}, err
	}

	url := fmt.Sprintf("%s/api/v1/customers/%s/contact", c.baseURL, customerID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.CustomerContact{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.CustomerContact{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var res contactResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return ports.CustomerContact{}, fmt.Errorf("decode response: %w", err)
		}
		return ports.CustomerContact{Name: res.Name, Email: res.Email}, nil
	case http.StatusNotFound:
		return ports.CustomerContact{}, errs.NewObjectNotFoundError("customerId", customerID.String())
	default:
		body, _ := io.ReadAll(resp.Body)
		return ports.CustomerContact{}, fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(body))
	}
}
