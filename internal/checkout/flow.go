// Package checkout orchestrates the storefront purchase flow: load the cart,
// apply a promo, price the order for the chosen destination and currency,
// submit it, and hand off to payment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kmoo25z/ameriduka/internal/api"
	"github.com/kmoo25z/ameriduka/pkg/currency"
	"github.com/kmoo25z/ameriduka/pkg/enums"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
	"github.com/kmoo25z/ameriduka/pkg/logger"
)

const (
	shippingDomesticUSD      = 5
	shippingInternationalUSD = 25
	domesticCountry          = "Kenya"
)

var (
	errBackendRequired   = errors.New("backend is required")
	errConverterRequired = errors.New("currency converter is required")
)

// Backend is the slice of the API surface the flow needs.
type Backend interface {
	GetCart(ctx context.Context, cur enums.Currency) (*api.Cart, error)
	ValidatePromo(ctx context.Context, code string) (*api.PromoValidation, error)
	CreateOrder(ctx context.Context, draft api.OrderDraft) (*api.Order, error)
	CreateCheckoutSession(ctx context.Context, orderID, originURL string) (*api.CheckoutSession, error)
}

// Form carries what the customer fills in before submitting.
type Form struct {
	ShippingAddress string              `validate:"required"`
	ShippingCity    string              `validate:"required"`
	ShippingCountry string              `validate:"required"`
	Phone           string              `validate:"required"`
	Currency        enums.Currency      `validate:"required"`
	PaymentMethod   enums.PaymentMethod `validate:"required"`
	Notes           string
}

// DefaultForm returns a form pre-filled the way a first-time customer sees it.
func DefaultForm() Form {
	return Form{
		ShippingCountry: domesticCountry,
		Currency:        enums.CurrencyKES,
		PaymentMethod:   enums.PaymentMethodStripe,
	}
}

// Totals is the priced order preview in the display currency.
type Totals struct {
	SubtotalUSD     decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountUSD     decimal.Decimal
	ShippingUSD     decimal.Decimal
	TotalUSD        decimal.Decimal
	Currency        enums.Currency
	TotalLocal      decimal.Decimal
}

// Handoff is the outcome of initiating payment for a created order.
type Handoff struct {
	OrderID  string
	Redirect bool
	URL      string
	Notice   string
}

// FlowParams wires a Flow.
type FlowParams struct {
	Backend   Backend
	Converter *currency.Converter
	Logger    *logger.Logger
}

// Flow tracks one checkout attempt. It is not safe for concurrent use; a
// checkout belongs to one customer doing one thing at a time.
type Flow struct {
	backend  Backend
	convert  *currency.Converter
	logg     *logger.Logger
	validate *validator.Validate

	cart            *api.Cart
	promoCode       string
	discountPercent decimal.Decimal
}

func NewFlow(params FlowParams) (*Flow, error) {
	if params.Backend == nil {
		return nil, errBackendRequired
	}
	if params.Converter == nil {
		return nil, errConverterRequired
	}
	return &Flow{
		backend:  params.Backend,
		convert:  params.Converter,
		logg:     params.Logger,
		validate: validator.New(),
	}, nil
}

// LoadCart snapshots the server cart into the flow. Checkout cannot start
// from an empty cart.
func (f *Flow) LoadCart(ctx context.Context, cur enums.Currency) (*api.Cart, error) {
	cart, err := f.backend.GetCart(ctx, cur)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load cart")
	}
	f.cart = cart
	return cart, nil
}

// Cart returns the most recent cart snapshot, nil before LoadCart.
func (f *Flow) Cart() *api.Cart {
	return f.cart
}

// DiscountPercent is the currently applied promo discount, zero when none.
func (f *Flow) DiscountPercent() decimal.Decimal {
	return f.discountPercent
}

// PromoCode is the currently applied code, empty when none.
func (f *Flow) PromoCode() string {
	return f.promoCode
}

// ApplyPromo validates a code against the backend and the cart subtotal.
// A failed validation clears any previously applied discount; a valid code
// whose minimum the cart does not meet leaves the previous discount in place.
// Applying the same code twice is a no-op with the same outcome.
func (f *Flow) ApplyPromo(ctx context.Context, code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if f.cart == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "load the cart before applying a promo")
	}

	validation, err := f.backend.ValidatePromo(ctx, trimmed)
	if err != nil {
		f.promoCode = ""
		f.discountPercent = decimal.Zero
		return err
	}
	if !validation.Valid {
		f.promoCode = ""
		f.discountPercent = decimal.Zero
		return pkgerrors.New(pkgerrors.CodeValidation, "promo code is not valid")
	}

	subtotal := decimal.NewFromFloat(f.cart.SubtotalUSD)
	minOrder := decimal.NewFromFloat(validation.MinOrderUSD)
	if subtotal.LessThan(minOrder) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order must be at least $%s to use this code", minOrder.StringFixed(2)))
	}

	f.promoCode = strings.ToUpper(trimmed)
	f.discountPercent = decimal.NewFromFloat(validation.DiscountPercent)
	if f.logg != nil {
		f.logg.Info(ctx, fmt.Sprintf("promo %s applied at %s%%", f.promoCode, f.discountPercent.String()))
	}
	return nil
}

// ClearPromo drops any applied discount.
func (f *Flow) ClearPromo() {
	f.promoCode = ""
	f.discountPercent = decimal.Zero
}

// ShippingUSD prices delivery to a destination country.
func ShippingUSD(country string) decimal.Decimal {
	if strings.EqualFold(strings.TrimSpace(country), domesticCountry) {
		return decimal.NewFromInt(shippingDomesticUSD)
	}
	return decimal.NewFromInt(shippingInternationalUSD)
}

// Totals prices the current cart for a destination and display currency:
// discount applies to the subtotal only, shipping is added after, and the
// sum is converted at the fixed rate and rounded to two decimals.
func (f *Flow) Totals(country string, cur enums.Currency) (*Totals, error) {
	if f.cart == nil || f.cart.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := decimal.NewFromFloat(f.cart.SubtotalUSD)
	discount := subtotal.Mul(f.discountPercent).Div(decimal.NewFromInt(100)).Round(2)
	shipping := ShippingUSD(country)
	totalUSD := subtotal.Sub(discount).Add(shipping).Round(2)

	return &Totals{
		SubtotalUSD:     subtotal.Round(2),
		DiscountPercent: f.discountPercent,
		DiscountUSD:     discount,
		ShippingUSD:     shipping,
		TotalUSD:        totalUSD,
		Currency:        cur,
		TotalLocal:      f.convert.Convert(totalUSD, cur),
	}, nil
}

// Submit validates the form and creates the order from the cart snapshot.
// Line prices are not sent; the backend re-derives them from the catalog.
func (f *Flow) Submit(ctx context.Context, form Form) (*api.Order, error) {
	if f.cart == nil || f.cart.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := f.validate.Struct(form); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "checkout form is incomplete")
	}
	if !form.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency "+form.Currency.String())
	}
	if !form.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method "+form.PaymentMethod.String())
	}

	items := make([]api.OrderItemInput, 0, len(f.cart.Items))
	for _, line := range f.cart.Items {
		items = append(items, api.OrderItemInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	order, err := f.backend.CreateOrder(ctx, api.OrderDraft{
		Items:           items,
		ShippingAddress: form.ShippingAddress,
		ShippingCity:    form.ShippingCity,
		ShippingCountry: form.ShippingCountry,
		Phone:           form.Phone,
		Currency:        form.Currency,
		PaymentMethod:   form.PaymentMethod,
		Notes:           form.Notes,
	})
	if err != nil {
		return nil, err
	}
	if f.logg != nil {
		f.logg.Info(f.logg.WithOrderID(ctx, order.OrderID), "order created")
	}
	return order, nil
}

// InitiatePayment starts payment for a created order. Card payments hand off
// to a hosted page; other methods settle out of band, so the customer goes
// straight to the order view. When the hosted session cannot be created the
// order still exists and the customer can retry payment from the order view.
func (f *Flow) InitiatePayment(ctx context.Context, order *api.Order, originURL string) (*Handoff, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}

	if !order.PaymentMethod.HostedCheckout() {
		return &Handoff{
			OrderID: order.OrderID,
			Notice:  "order placed, payment instructions will follow",
		}, nil
	}

	sess, err := f.backend.CreateCheckoutSession(ctx, order.OrderID, originURL)
	if err != nil {
		if f.logg != nil {
			f.logg.Warn(f.logg.WithOrderID(ctx, order.OrderID), "payment session creation failed, order remains payable")
		}
		return nil, err
	}

	return &Handoff{
		OrderID:  order.OrderID,
		Redirect: true,
		URL:      sess.URL,
	}, nil
}
