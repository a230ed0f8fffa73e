// Command duka is the storefront's command-line front end: browse the
// catalog, manage the cart, check out, pay, and follow orders.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/kmoo25z/ameriduka/internal/api"
	"github.com/kmoo25z/ameriduka/internal/checkout"
	"github.com/kmoo25z/ameriduka/internal/orders"
	"github.com/kmoo25z/ameriduka/internal/payments"
	"github.com/kmoo25z/ameriduka/internal/session"
	"github.com/kmoo25z/ameriduka/pkg/config"
	"github.com/kmoo25z/ameriduka/pkg/currency"
	"github.com/kmoo25z/ameriduka/pkg/enums"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
	"github.com/kmoo25z/ameriduka/pkg/logger"
)

const usage = `usage: duka <command> [flags]

account:
  register    -email -password -name [-phone]
  login       -email -password
  me
  logout

catalog:
  products    [-page N] [-limit N] [-category C] [-brand B] [-search S] [-featured]
  product     -id PRODUCT_ID

cart:
  cart        [-currency KES|USD|EUR]
  cart-add    -id PRODUCT_ID [-qty N]
  cart-set    -id PRODUCT_ID -qty N
  cart-clear

checkout:
  promo       -code CODE [-currency C]
  checkout    -address A -city C [-country K] [-phone P] [-currency C] [-method stripe|mpesa|paypal] [-promo CODE] [-notes N]
  pay         -order ORDER_ID
  confirm     -session SESSION_ID [-order ORDER_ID]

orders:
  orders      [-limit N]
  order       -id ORDER_ID
  set-status  -id ORDER_ID -status STATUS
`

type app struct {
	cfg     *config.Config
	client  *api.Client
	logg    *logger.Logger
	convert *currency.Converter
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "duka:", pkgerrors.UserMessage(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("a command is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "duka",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Output:      os.Stderr,
	})

	sess := session.New()
	if cfg.API.Token != "" {
		sess.Resume(cfg.API.Token)
	}

	client, err := api.NewClient(cfg.API.BaseURL, sess,
		api.WithLogger(logg),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg, client: client, logg: logg, convert: currency.NewConverter()}
	ctx := context.Background()

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "me":
		return a.me(ctx)
	case "logout":
		return a.client.Logout(ctx)
	case "products":
		return a.products(ctx, rest)
	case "product":
		return a.product(ctx, rest)
	case "cart":
		return a.cart(ctx, rest)
	case "cart-add":
		return a.cartAdd(ctx, rest)
	case "cart-set":
		return a.cartSet(ctx, rest)
	case "cart-clear":
		return a.client.ClearCart(ctx)
	case "promo":
		return a.promo(ctx, rest)
	case "checkout":
		return a.checkout(ctx, rest)
	case "pay":
		return a.pay(ctx, rest)
	case "confirm":
		return a.confirm(ctx, rest)
	case "orders":
		return a.orders(ctx, rest)
	case "order":
		return a.order(ctx, rest)
	case "set-status":
		return a.setStatus(ctx, rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.client.Register(ctx, api.RegisterInput{
		Email: *email, Password: *password, Name: *name, Phone: *phone,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", user.Name, user.Email)
	a.printToken()
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("welcome back, %s\n", user.Name)
	a.printToken()
	return nil
}

// printToken hands the session token to the shell; keeping it is up to the
// operator.
func (a *app) printToken() {
	if token := a.client.Session().Token(); token != "" {
		fmt.Printf("export AMERIDUKA_API_TOKEN=%s\n", token)
	}
}

func (a *app) me(ctx context.Context) error {
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s loyalty=%d\n", user.Name, user.Email, user.Role, user.LoyaltyPoints)
	return nil
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 12, "page size")
	category := fs.String("category", "", "filter by category")
	brand := fs.String("brand", "", "filter by brand")
	search := fs.String("search", "", "search query")
	featured := fs.Bool("featured", false, "featured products only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := api.ProductQuery{Page: *page, Limit: *limit, Brand: *brand, Search: *search}
	if *category != "" {
		parsed, err := enums.ParseProductCategory(*category)
		if err != nil {
			return err
		}
		query.Category = parsed
	}
	if *featured {
		query.Featured = featured
	}

	list, err := a.client.ListProducts(ctx, query)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tPRICE USD\tSTOCK")
	for _, p := range list.Products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\n", p.ProductID, p.Name, p.Brand, p.PriceUSD, p.Stock)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("page %d/%d, %d products\n", list.Page, list.TotalPages, list.Total)
	return nil
}

func (a *app) product(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("product", flag.ContinueOnError)
	id := fs.String("id", "", "product id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := a.client.GetProduct(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s %s (%s)\n$%.2f  stock=%d  rating=%.1f (%d reviews)\n%s\n",
		p.Name, p.Brand, p.Category, p.Condition, p.PriceUSD, p.Stock, p.Rating, p.ReviewCount, p.Description)
	return nil
}

func (a *app) displayCurrency(raw string) (enums.Currency, error) {
	value := raw
	if value == "" {
		value = a.cfg.Checkout.DefaultCurrency
	}
	return enums.ParseCurrency(strings.ToUpper(value))
}

func (a *app) cart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart", flag.ContinueOnError)
	currencyFlag := fs.String("currency", "", "display currency")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cur, err := a.displayCurrency(*currencyFlag)
	if err != nil {
		return err
	}

	cart, err := a.client.GetCart(ctx, cur)
	if err != nil {
		return err
	}
	if cart.Empty() {
		fmt.Println("cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE USD")
	for _, line := range cart.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", line.ProductID, line.Name, line.Quantity, line.PriceUSD)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("subtotal: $%.2f (%s %.2f)\n", cart.SubtotalUSD, cart.Currency, cart.SubtotalLocal)
	return nil
}

func (a *app) cartAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart-add", flag.ContinueOnError)
	id := fs.String("id", "", "product id")
	qty := fs.Int("qty", 1, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.client.AddToCart(ctx, *id, *qty)
}

func (a *app) cartSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart-set", flag.ContinueOnError)
	id := fs.String("id", "", "product id")
	qty := fs.Int("qty", 0, "quantity, 0 removes the line")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.client.UpdateCartItem(ctx, *id, *qty)
}

func (a *app) promo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("promo", flag.ContinueOnError)
	code := fs.String("code", "", "promo code")
	currencyFlag := fs.String("currency", "", "display currency")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cur, err := a.displayCurrency(*currencyFlag)
	if err != nil {
		return err
	}

	flow, err := checkout.NewFlow(checkout.FlowParams{
		Backend: a.client, Converter: a.convert, Logger: a.logg,
	})
	if err != nil {
		return err
	}
	if _, err := flow.LoadCart(ctx, cur); err != nil {
		return err
	}
	if err := flow.ApplyPromo(ctx, *code); err != nil {
		return err
	}
	fmt.Printf("promo %s applied: %s%% off\n", flow.PromoCode(), flow.DiscountPercent())
	return nil
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	address := fs.String("address", "", "shipping address")
	city := fs.String("city", "", "shipping city")
	country := fs.String("country", a.cfg.Checkout.DefaultCountry, "shipping country")
	phone := fs.String("phone", "", "contact phone")
	currencyFlag := fs.String("currency", "", "display currency")
	method := fs.String("method", enums.PaymentMethodStripe.String(), "payment method")
	promoCode := fs.String("promo", "", "promo code")
	notes := fs.String("notes", "", "delivery notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cur, err := a.displayCurrency(*currencyFlag)
	if err != nil {
		return err
	}
	payMethod, err := enums.ParsePaymentMethod(*method)
	if err != nil {
		return err
	}

	flow, err := checkout.NewFlow(checkout.FlowParams{
		Backend: a.client, Converter: a.convert, Logger: a.logg,
	})
	if err != nil {
		return err
	}
	if _, err := flow.LoadCart(ctx, cur); err != nil {
		return err
	}
	if *promoCode != "" {
		if err := flow.ApplyPromo(ctx, *promoCode); err != nil {
			return err
		}
	}

	totals, err := flow.Totals(*country, cur)
	if err != nil {
		return err
	}
	fmt.Printf("subtotal $%s", totals.SubtotalUSD.StringFixed(2))
	if !totals.DiscountUSD.IsZero() {
		fmt.Printf("  discount -$%s", totals.DiscountUSD.StringFixed(2))
	}
	fmt.Printf("  shipping $%s  total $%s (%s %s)\n",
		totals.ShippingUSD.StringFixed(2), totals.TotalUSD.StringFixed(2),
		cur, totals.TotalLocal.StringFixed(2))

	form := checkout.Form{
		ShippingAddress: *address,
		ShippingCity:    *city,
		ShippingCountry: *country,
		Phone:           *phone,
		Currency:        cur,
		PaymentMethod:   payMethod,
		Notes:           *notes,
	}
	order, err := flow.Submit(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("order %s created\n", order.OrderID)

	handoff, err := flow.InitiatePayment(ctx, order, a.cfg.Checkout.OriginURL)
	if err != nil {
		fmt.Printf("payment could not be started; retry with: duka pay -order %s\n", order.OrderID)
		return err
	}
	if handoff.Redirect {
		fmt.Printf("complete payment at: %s\n", handoff.URL)
	} else {
		fmt.Println(handoff.Notice)
	}
	return nil
}

func (a *app) pay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	orderID := fs.String("order", "", "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.client.CreateCheckoutSession(ctx, *orderID, a.cfg.Checkout.OriginURL)
	if err != nil {
		return err
	}
	fmt.Printf("complete payment at: %s\nthen run: duka confirm -session %s -order %s\n",
		sess.URL, sess.SessionID, *orderID)
	return nil
}

func (a *app) confirm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("confirm", flag.ContinueOnError)
	sessionID := fs.String("session", "", "payment session id")
	orderID := fs.String("order", "", "order id to show afterwards")
	if err := fs.Parse(args); err != nil {
		return err
	}

	poller, err := payments.NewPoller(payments.PollerParams{
		Checker: a.client, Logger: a.logg,
	})
	if err != nil {
		return err
	}

	result, err := poller.Confirm(ctx, *sessionID)
	if err != nil {
		return err
	}
	switch {
	case result.Confirmed():
		fmt.Printf("payment confirmed after %d check(s)\n", result.Attempts)
	default:
		fmt.Printf("payment not confirmed after %d check(s); it may still settle\n", result.Attempts)
		if result.CheckErr != nil {
			fmt.Printf("some checks failed: %v\n", result.CheckErr)
		}
	}

	if *orderID != "" {
		return a.showOrder(ctx, *orderID)
	}
	return nil
}

func (a *app) orders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum orders to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.client.ListOrders(ctx, *limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no orders yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tPLACED\tSTATUS\tPAYMENT\tTOTAL")
	for _, o := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %.2f\n",
			o.OrderID, o.CreatedAt.Format("2006-01-02"), o.Status, o.PaymentStatus, o.Currency, o.TotalLocal)
	}
	return w.Flush()
}

func (a *app) order(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	id := fs.String("id", "", "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.showOrder(ctx, *id)
}

func (a *app) showOrder(ctx context.Context, orderID string) error {
	o, err := a.client.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	fmt.Printf("order %s  payment=%s/%s\n", o.OrderID, o.PaymentMethod, o.PaymentStatus)
	for _, line := range o.Items {
		fmt.Printf("  %dx %s  $%.2f\n", line.Quantity, line.ProductName, line.PriceUSD)
	}
	fmt.Printf("subtotal $%.2f  shipping $%.2f  total $%.2f (%s %.2f)\n",
		o.SubtotalUSD, o.ShippingUSD, o.TotalUSD, o.Currency, o.TotalLocal)
	fmt.Printf("ship to: %s, %s, %s  phone %s\n", o.ShippingAddress, o.ShippingCity, o.ShippingCountry, o.Phone)
	if o.TrackingNumber != "" {
		fmt.Printf("tracking: %s\n", o.TrackingNumber)
	}

	progress := orders.Describe(o.Status)
	if progress.Hidden {
		fmt.Printf("status: %s\n", o.Status)
		return nil
	}
	marks := make([]string, 0, len(progress.Steps))
	for i, step := range progress.Steps {
		mark := "[ ]"
		if progress.Current >= 0 && i <= progress.Current {
			mark = "[x]"
		}
		marks = append(marks, fmt.Sprintf("%s %s", mark, step))
	}
	fmt.Println(strings.Join(marks, "  "))
	return nil
}

func (a *app) setStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ContinueOnError)
	id := fs.String("id", "", "order id")
	status := fs.String("status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := enums.ParseOrderStatus(*status)
	if err != nil {
		return err
	}
	if err := a.client.UpdateOrderStatus(ctx, *id, parsed); err != nil {
		return err
	}
	fmt.Printf("order %s moved to %s\n", *id, parsed)
	return nil
}
