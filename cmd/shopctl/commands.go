package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/store"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func printProducts(products []models.Product) {
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tPRICE\tDISCOUNT\tSTOCK\tRATING")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%d\t%.1f\n", p.ID, p.Name, p.Brand, money(p.Price), p.Discount, p.StockCount, p.Rating)
	}
	_ = w.Flush()
}

func (a *app) products(args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	query := fs.String("q", "", "search text")
	category := fs.String("category", "", "category")
	brand := fs.String("brand", "", "brand")
	priceRange := fs.String("price", "all", "price range")
	sortBy := fs.String("sort", store.SortFeatured, "sort order")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	lo, hi, err := store.ParsePriceRange(*priceRange)
	if err != nil {
		return err
	}
	a.store.SetSearchQuery(*query)
	printProducts(a.store.SearchProducts(store.Filter{
		Category: *category,
		Brand:    *brand,
		MinPrice: lo,
		MaxPrice: hi,
		Sort:     *sortBy,
	}))
	return nil
}

func (a *app) product(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	p, err := a.store.Product(args[0])
	if err != nil {
		return fmt.Errorf("product %s: %w", args[0], err)
	}
	fmt.Printf("%s (%s)\n%s\n\n", p.Name, p.Brand, p.Description)
	fmt.Printf("Price: %s", money(p.Price))
	if p.Discount > 0 {
		fmt.Printf("  was %s (-%d%%, save $%s)", money(p.OriginalPrice), p.Discount, p.Savings().StringFixed(2))
	}
	fmt.Println()
	if p.InStock {
		fmt.Printf("In stock: %d\n", p.StockCount)
	} else {
		fmt.Println("Out of stock")
	}
	for _, spec := range p.Specifications {
		fmt.Println("  -", spec)
	}

	reviews := a.store.Reviews(p.ID)
	if len(reviews) > 0 {
		fmt.Printf("\n%d reviews, average %.1f\n", len(reviews), a.store.AverageRating(p.ID))
		for _, r := range reviews {
			fmt.Printf("  %d/5 %s: %s\n", r.Rating, r.User, r.Comment)
		}
	}
	return nil
}

func (a *app) deals() error {
	printProducts(a.store.Deals())
	fmt.Printf("\nTotal savings: $%s\n", a.store.TotalSavings().StringFixed(2))
	return nil
}

func (a *app) brands() error {
	for _, b := range a.store.Brands() {
		fmt.Println(b)
	}
	return nil
}

func (a *app) cart(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		qty := 1
		if len(args) == 2 {
			n, err := atoi(args[1])
			if err != nil {
				return err
			}
			qty = n
		}
		p, err := a.store.Product(args[0])
		if err != nil {
			return fmt.Errorf("product %s: %w", args[0], err)
		}
		a.store.AddToCart(p, qty)
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		qty, err := atoi(args[1])
		if err != nil {
			return err
		}
		a.store.UpdateCartQuantity(args[0], qty)
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		a.store.RemoveFromCart(args[0])
	case "clear":
		a.store.ClearCart()
	default:
		return errUsage
	}

	items := a.store.Cart()
	if len(items) == 0 {
		fmt.Println("Your cart is empty")
		return nil
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tTOTAL")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t$%s\n", it.ID, it.Name, money(it.Price), it.Quantity, it.LineTotal().StringFixed(2))
	}
	_ = w.Flush()
	fmt.Printf("\n%d items, subtotal $%s\n", a.store.CartCount(), a.store.CartSubtotal().StringFixed(2))
	return nil
}

func printQuote(q pricing.Quote) {
	fmt.Printf("Subtotal:  $%s\n", q.Subtotal.StringFixed(2))
	if q.DiscountPct > 0 {
		fmt.Printf("Promo %s (-%d%%): -$%s\n", q.PromoCode, q.DiscountPct, q.Discount.StringFixed(2))
	}
	if q.FreeShipping() {
		fmt.Println("Shipping:  FREE")
	} else {
		fmt.Printf("Shipping:  $%s (add $%s more for free shipping)\n", q.Shipping.StringFixed(2), q.RemainingForFreeShipping().StringFixed(2))
	}
	fmt.Printf("Tax:       $%s\n", q.Tax.StringFixed(2))
	fmt.Printf("Total:     $%s\n", q.Total.StringFixed(2))
}

func (a *app) quote(args []string) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	promo := fs.String("promo", "", "promo code")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	q, err := pricing.Calculate(a.store.Cart(), *promo)
	if err != nil {
		return err
	}
	printQuote(q)
	return nil
}

func (a *app) checkout(args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var form checkout.Form
	fs.StringVar(&form.PaymentMethodID, "method", "", "payment method id")
	fs.StringVar(&form.PaymentProof, "proof", "", "payment proof filename")
	fs.StringVar(&form.PromoCode, "promo", "", "promo code")
	fs.StringVar(&form.Customer.FirstName, "first", "", "first name")
	fs.StringVar(&form.Customer.LastName, "last", "", "last name")
	fs.StringVar(&form.Customer.Email, "email", "", "email")
	fs.StringVar(&form.Customer.Phone, "phone", "", "phone")
	fs.StringVar(&form.Customer.Address, "address", "", "street address")
	fs.StringVar(&form.Customer.City, "city", "", "city")
	fs.StringVar(&form.Customer.State, "state", "", "state")
	fs.StringVar(&form.Customer.ZipCode, "zip", "", "zip code")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	// los datos de contacto se completan con la cuenta actual
	if u := a.store.CurrentUser(); u != nil {
		if form.Customer.Email == "" {
			form.Customer.Email = u.Email
		}
		if form.Customer.FirstName == "" {
			form.Customer.FirstName = u.FirstName
		}
		if form.Customer.LastName == "" {
			form.Customer.LastName = u.LastName
		}
	}

	svc := checkout.NewService(a.store, a.log)
	if err := svc.Start(); err != nil {
		return err
	}
	receipt, err := svc.PlaceOrder(form)
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%s: %s", verr.Field, verr.Message)
	}
	if err != nil {
		return err
	}
	printQuote(receipt.Quote)
	fmt.Printf("\nOrder %s placed. We will review your payment proof shortly.\n", receipt.OrderID)
	return nil
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var req store.RegisterRequest
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	if err := fs.Parse(args); err != nil || req.Email == "" {
		return errUsage
	}
	return authResult(a.store.RegisterUser(req))
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil || *email == "" {
		return errUsage
	}
	return authResult(a.store.LoginUser(*email, *password))
}

func authResult(res store.AuthResult) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
	if res.User != nil {
		fmt.Printf("Signed in as %s %s <%s>\n", res.User.FirstName, res.User.LastName, res.User.Email)
	}
	return nil
}

func (a *app) whoami() error {
	u := a.store.CurrentUser()
	if u == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s %s <%s> (%s)\n", u.FirstName, u.LastName, u.Email, u.ID)
	return nil
}

func printOrders(orders []models.Order) {
	w := newTable()
	fmt.Fprintln(w, "ID\tDATE\tCUSTOMER\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			o.ID, o.OrderDate.Format("2006-01-02"), o.Customer.Email, len(o.Items), money(o.Total), o.Status)
	}
	_ = w.Flush()
}

// orders muestra los pedidos de la cuenta actual; un admin ve todos
func (a *app) orders() error {
	all := a.store.Orders()
	if a.store.IsAdmin() {
		printOrders(all)
		return nil
	}
	u := a.store.CurrentUser()
	if u == nil {
		return errors.New("please login to see your orders")
	}
	mine := make([]models.Order, 0, len(all))
	for _, o := range all {
		if strings.EqualFold(o.Customer.Email, u.Email) {
			mine = append(mine, o)
		}
	}
	printOrders(mine)
	return nil
}

func (a *app) review(args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	rating, err := atoi(args[1])
	if err != nil {
		return err
	}
	if _, err := a.store.Product(args[0]); err != nil {
		return fmt.Errorf("product %s: %w", args[0], err)
	}
	author := "Anonymous"
	if u := a.store.CurrentUser(); u != nil {
		author = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	r, err := a.store.AddReview(models.NewReview{
		ProductID: args[0],
		User:      author,
		Rating:    rating,
		Comment:   strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Review %s saved\n", r.ID)
	return nil
}

func (a *app) activity(args []string) error {
	userID := ""
	if len(args) > 0 {
		userID = args[0]
	} else if u := a.store.CurrentUser(); u != nil {
		userID = u.ID
	}
	w := newTable()
	fmt.Fprintln(w, "TIME\tUSER\tACTION\tDETAILS")
	for _, act := range a.store.Activities(userID) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", act.Timestamp.Format("2006-01-02 15:04:05"), act.UserID, act.Action, act.Details)
	}
	_ = w.Flush()
	return nil
}

func (a *app) methods() error {
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONTACT")
	for _, m := range a.store.ActivePaymentMethods() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Type, orDash(m.Contact()))
	}
	_ = w.Flush()
	return nil
}

// admin ejecuta un subcomando de administración; el token vive solo durante esta ejecución
func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, args := args[0], args[1:]

	fs := flag.NewFlagSet("admin "+sub, flag.ContinueOnError)
	user := fs.String("user", "admin", "admin username")
	password := fs.String("password", os.Getenv("SHOPCTL_ADMIN_PASSWORD"), "admin password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	args = fs.Args()

	if sub == "logout" {
		a.store.AdminLogout()
		fmt.Println("Admin session closed")
		return nil
	}

	// sin contraseña se asume un gateway sin protección de administración
	if *password != "" {
		if err := a.store.AdminLogin(ctx, *user, *password); err != nil {
			return fmt.Errorf("admin login: %w", err)
		}
	} else {
		a.store.SetIsAdmin(true)
	}

	switch sub {
	case "login":
		fmt.Println("Admin session open")
		return nil
	case "stats":
		stats := a.store.DashboardStats()
		fmt.Printf("Revenue:        $%s\n", stats.TotalRevenue.StringFixed(2))
		fmt.Printf("Orders:         %d (%d pending)\n", stats.TotalOrders, stats.PendingOrders)
		fmt.Printf("Products:       %d (%d low stock)\n\n", stats.TotalProducts, stats.LowStockProducts)
		printOrders(stats.RecentOrders)
		return nil
	case "order-status":
		if len(args) != 2 {
			return errUsage
		}
		if err := a.store.UpdateOrderStatus(args[0], models.OrderStatus(args[1])); err != nil {
			return fmt.Errorf("order %s: %w", args[0], err)
		}
		fmt.Printf("Order %s is now %s\n", args[0], args[1])
		return nil
	case "sync":
		a.store.SyncAll()
		fmt.Println("Full sync queued")
		return nil
	default:
		return errUsage
	}
}
