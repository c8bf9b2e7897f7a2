// Package courier implements the tracking provider port against the
// courier partner's HTTP tracking API.
package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"
)

// Client fetches shipment snapshots from the courier tracking API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a tracking API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// snapshotResponse is the wire shape of the tracking API response.
type snapshotResponse struct {
	CurrentStatus        string    `json:"current_status"`
	CurrentLocation      string    `json:"current_location"`
	ExpectedDeliveryDate *dateOnly `json:"expected_delivery_date,omitempty"`
	Checkpoints          []struct {
		Status   string    `json:"status"`
		Location string    `json:"location"`
		Time     time.Time `json:"time"`
		Remarks  string    `json:"remarks"`
	} `json:"checkpoints"`
}

// dateOnly parses the courier's "2006-01-02" delivery estimate.
type dateOnly struct {
	time.Time
}

func (d *dateOnly) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid delivery date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Fetch returns the current snapshot for the given tracking number.
// Returns errs.ObjectNotFoundError when the courier does not know the AWB.
func (c *Client) Fetch(ctx context.Context, trackingID string) (tracking.Snapshot, error) {
	if trackingID == "" {
		return tracking.Snapshot{}, errs.NewValueIsRequiredError("trackingId")
	}

	url := fmt.Sprintf("%s/api/v1/track/%s", c.baseURL, trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return tracking.Snapshot{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return tracking.Snapshot{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var res snapshotResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return tracking.Snapshot{}, fmt.Errorf("decode response: %w", err)
		}
		return toSnapshot(res), nil
	case http.StatusNotFound:
		return tracking.Snapshot{}, errs.NewObjectNotFoundError("trackingId", trackingID)
	default:
		body, _ := io.ReadAll(resp.Body)
		return tracking.Snapshot{}, fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(body))
	}
}

func toSnapshot(res snapshotResponse) tracking.Snapshot {
	snapshot := tracking.Snapshot{
		CurrentStatusText: res.CurrentStatus,
		CurrentLocation:   res.CurrentLocation,
		Events:            make([]tracking.Event, 0, len(res.Checkpoints)),
	}

	if res.ExpectedDeliveryDate != nil && !res.ExpectedDeliveryDate.IsZero() {
		t := res.ExpectedDeliveryDate.Time
		snapshot.ExpectedDeliveryDate = &t
	}

	for _, checkpoint := range res.Checkpoints {
		snapshot.Events = append(snapshot.Events, tracking.Event{
			Status:   checkpoint.Status,
			Location: checkpoint.Location,
			Time:     checkpoint.Time,
			Remarks:  checkpoint.Remarks,
		})
	}

	return snapshot
}
