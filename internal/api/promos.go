package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

// PromoValidation is the backend's verdict on a promo code.
type PromoValidation struct {
	Valid           bool    `json:"valid"`
	DiscountPercent float64 `json:"discount_percent"`
	MinOrderUSD     float64 `json:"min_order_usd"`
}

// ValidatePromo checks a promo code. The minimum-order rule is enforced by
// the checkout flow against the current cart, not here.
func (c *Client) ValidatePromo(ctx context.Context, code string) (*PromoValidation, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}

	var validation PromoValidation
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/promos/validate/" + url.PathEscape(strings.ToUpper(trimmed)),
		out:    &validation,
	})
	if err != nil {
		return nil, err
	}
	return &validation, nil
}
