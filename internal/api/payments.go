package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

// CheckoutSession points at a hosted payment page for one order.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// CheckoutStatus is the provider-side state of a payment session.
type CheckoutStatus struct {
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

// CreateCheckoutSession asks the backend for a hosted card-checkout URL. The
// origin URL is where the provider sends the customer back afterwards.
func (c *Client) CreateCheckoutSession(ctx context.Context, orderID, originURL string) (*CheckoutSession, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order ID is required")
	}
	if strings.TrimSpace(originURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin URL is required")
	}

	var sess CheckoutSession
	err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/payments/stripe/checkout",
		body:   map[string]string{"order_id": orderID, "origin_url": originURL},
		out:    &sess,
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// CheckoutStatus queries the payment state of a session.
func (c *Client) CheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment session ID is required")
	}

	var status CheckoutStatus
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/payments/stripe/status/" + url.PathEscape(trimmed),
		out:    &status,
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}
