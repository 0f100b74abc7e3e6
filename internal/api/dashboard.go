package api

import (
	"context"

	"github.com/existflow/unicompass/internal/model"
)

// FetchDashboard fetches the caller's dashboard record.
func (c *Client) FetchDashboard(ctx context.Context) (*model.Dashboard, error) {
	var d model.Dashboard
	if err := c.do(ctx, "GET", "/api/dashboard/", nil, &d, true); err != nil {
		return nil, err
	}
	return &d, nil
}

// AddToDashboard asks the server to put a university into one of the
// caller's buckets.
func (c *Client) AddToDashboard(ctx context.Context, universityID int, bucket model.Bucket) error {
	body := map[string]any{
		"university_id": universityID,
		"list_name":     string(bucket),
	}
	return c.do(ctx, "POST", "/api/dashboard/", body, nil, true)
}

// Payment is the response of the payment initialization endpoint.
type Payment struct {
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message,omitempty"`
}

// InitializePayment starts the external payment flow for a subscription
// renewal. The returned checkout URL is opened by the user; the resulting
// state change arrives asynchronously on the dashboard record.
func (c *Client) InitializePayment(ctx context.Context) (*Payment, error) {
	var p Payment
	if err := c.do(ctx, "POST", "/api/chapa/initialize/", nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}
