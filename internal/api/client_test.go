package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kmoo25z/ameriduka/internal/session"
	"github.com/kmoo25z/ameriduka/pkg/enums"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, sess *session.Session, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://shop.test/api", sess, WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestClientSendsAuthAndRequestID(t *testing.T) {
	t.Parallel()

	sess := session.New()
	sess.Resume("tok-abc")

	var captured *http.Request
	client := newTestClient(t, sess, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"items":[],"subtotal_usd":0,"currency":"USD","subtotal_local":0}`), nil
	})

	if _, err := client.GetCart(context.Background(), enums.CurrencyUSD); err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer tok-abc" {
		t.Fatalf("unexpected auth header %q", got)
	}
	if captured.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request id on every call")
	}
	if got := captured.URL.Query().Get("currency"); got != "USD" {
		t.Fatalf("unexpected currency query %q", got)
	}
}

func TestClientOmitsAuthWhenAnonymous(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"products":[],"total":0,"page":1,"limit":12,"total_pages":0}`), nil
	})

	if _, err := client.ListProducts(context.Background(), ProductQuery{}); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if captured.Header.Get("Authorization") != "" {
		t.Fatal("anonymous call must not carry an Authorization header")
	}
}

func TestClientSurfacesDetailVerbatim(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"detail":"Insufficient stock"}`), nil
	})

	err := client.AddToCart(context.Background(), "prod_1", 3)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRejected {
		t.Fatalf("unexpected error %v", err)
	}
	if typed.Message() != "Insufficient stock" {
		t.Fatalf("detail not preserved: %q", typed.Message())
	}
}

func TestClientMapsNetworkFailures(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	_, err := client.GetCart(context.Background(), enums.CurrencyKES)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLoginBeginsSession(t *testing.T) {
	t.Parallel()

	sess := session.New()
	client := newTestClient(t, sess, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		body := `{"token":"tok-1","user":{"user_id":"user_1","email":"jane@duka.co.ke","name":"Jane","role":"customer","created_at":"2026-08-01T10:00:00Z","loyalty_points":40}}`
		return jsonResponse(http.StatusOK, body), nil
	})

	user, err := client.Login(context.Background(), "jane@duka.co.ke", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.UserID != "user_1" || user.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected user %+v", user)
	}
	if sess.Token() != "tok-1" {
		t.Fatalf("session not begun, token=%q", sess.Token())
	}
	if u, ok := sess.User(); !ok || u.ID != "user_1" {
		t.Fatalf("session identity missing: %+v ok=%v", u, ok)
	}
}

func TestLogoutEndsSessionEvenOnFailure(t *testing.T) {
	t.Parallel()

	sess := session.New()
	sess.Begin("tok-1", session.User{ID: "user_1"})
	client := newTestClient(t, sess, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
	})

	if err := client.Logout(context.Background()); err == nil {
		t.Fatal("expected logout error to surface")
	}
	if sess.Authenticated() {
		t.Fatal("session must end locally regardless")
	}
}

func TestValidatePromoUppercasesAndEscapes(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"valid":true,"discount_percent":10,"min_order_usd":250}`), nil
	})

	validation, err := client.ValidatePromo(context.Background(), "  save10 ")
	if err != nil {
		t.Fatalf("validate promo: %v", err)
	}
	if captured.URL.Path != "/api/promos/validate/SAVE10" {
		t.Fatalf("unexpected path %q", captured.URL.Path)
	}
	if !validation.Valid || validation.DiscountPercent != 10 || validation.MinOrderUSD != 250 {
		t.Fatalf("unexpected validation %+v", validation)
	}
}

func TestValidatePromoRequiresCode(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for an empty code")
		return nil, nil
	})

	_, err := client.ValidatePromo(context.Background(), "   ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrderCarriesIdempotencyKey(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		captured = req
		body := `{"order_id":"ord_1","user_id":"user_1","items":[{"product_id":"prod_1","product_name":"Pixel","quantity":1,"price_usd":500}],"subtotal_usd":500,"shipping_usd":5,"total_usd":505,"currency":"KES","total_local":65397.5,"status":"pending","payment_status":"pending","payment_method":"stripe","shipping_address":"1 Moi Ave","shipping_city":"Nairobi","shipping_country":"Kenya","phone":"+254700000000","created_at":"2026-08-01T10:00:00Z","updated_at":"2026-08-01T10:00:00Z"}`
		return jsonResponse(http.StatusOK, body), nil
	})

	order, err := client.CreateOrder(context.Background(), OrderDraft{
		Items:           []OrderItemInput{{ProductID: "prod_1", Quantity: 1}},
		ShippingAddress: "1 Moi Ave",
		ShippingCity:    "Nairobi",
		ShippingCountry: "Kenya",
		Phone:           "+254700000000",
		Currency:        enums.CurrencyKES,
		PaymentMethod:   enums.PaymentMethodStripe,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if captured.Header.Get("Idempotency-Key") == "" {
		t.Fatal("expected an idempotency key on order creation")
	}
	if order.OrderID != "ord_1" || order.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestUpdateOrderStatusQuery(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"message":"Order status updated"}`), nil
	})

	if err := client.UpdateOrderStatus(context.Background(), "ord_1", enums.OrderStatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if captured.Method != http.MethodPut || captured.URL.Path != "/api/orders/ord_1/status" {
		t.Fatalf("unexpected request %s %s", captured.Method, captured.URL.Path)
	}
	if got := captured.URL.Query().Get("status"); got != "shipped" {
		t.Fatalf("unexpected status query %q", got)
	}

	if err := client.UpdateOrderStatus(context.Background(), "ord_1", enums.OrderStatus("lost")); err == nil {
		t.Fatal("expected invalid status to be rejected locally")
	}
}

func TestCheckoutSessionAndStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, session.New(), func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/api/payments/stripe/checkout":
			return jsonResponse(http.StatusOK, `{"url":"https://pay.test/cs_1","session_id":"cs_1"}`), nil
		case "/api/payments/stripe/status/cs_1":
			return jsonResponse(http.StatusOK, `{"status":"complete","payment_status":"paid","amount":505,"currency":"USD"}`), nil
		default:
			t.Fatalf("unexpected path %q", req.URL.Path)
			return nil, nil
		}
	})

	sess, err := client.CreateCheckoutSession(context.Background(), "ord_1", "http://localhost:3000")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.SessionID != "cs_1" || sess.URL != "https://pay.test/cs_1" {
		t.Fatalf("unexpected session %+v", sess)
	}

	status, err := client.CheckoutStatus(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("checkout status: %v", err)
	}
	if status.PaymentStatus != "paid" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestExtractDetailShapes(t *testing.T) {
	t.Parallel()

	if got := extractDetail([]byte(`{"detail":"Invalid promo code"}`)); got != "Invalid promo code" {
		t.Fatalf("string detail: %q", got)
	}
	if got := extractDetail([]byte(`{"detail":[{"loc":["body","phone"],"msg":"field required"}]}`)); !strings.Contains(got, "field required") {
		t.Fatalf("structured detail: %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Fatalf("garbage body should yield empty detail, got %q", got)
	}
}
