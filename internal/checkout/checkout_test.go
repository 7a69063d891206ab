package checkout

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/store"
)

func validForm(methodID string) Form {
	return Form{
		Customer: models.Customer{
			FirstName: "Ana", LastName: "Diaz", Email: "ana@shop.test", Phone: "555-0100",
			Address: "1 Main St", City: "Brooklyn", State: "NY", ZipCode: "11201",
		},
		PaymentMethodID: methodID,
		PaymentProof:    "receipt.png",
	}
}

// newShop arma un store en memoria con un usuario logueado, un producto y un método activo
func newShop(t *testing.T) (*store.Store, models.Product, models.PaymentMethod) {
	t.Helper()
	st := store.New(nil, nil, store.WithPasswordHasher(auth.NewBcryptHasher(bcrypt.MinCost)))
	res := st.RegisterUser(store.RegisterRequest{Email: "ana@shop.test", Password: "secret1", FirstName: "Ana"})
	require.True(t, res.Success)

	p := st.AddProduct(models.Product{Name: "Controller", Price: 60, OriginalPrice: 70, StockCount: 2})
	m, err := st.AddPaymentMethod(models.PaymentMethod{Name: "PayPal", Type: models.PaymentPayPal, Status: models.PaymentActive})
	require.NoError(t, err)
	return st, p, m
}

func TestPlaceOrder(t *testing.T) {
	st, p, m := newShop(t)
	st.AddToCart(p, 2)
	svc := NewService(st, zerolog.Nop())
	require.NoError(t, svc.Start())

	receipt, err := svc.PlaceOrder(validForm(m.ID))
	require.NoError(t, err)

	order, err := st.Order(receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "PayPal", order.PaymentMethod)
	assert.Equal(t, "receipt.png", order.PaymentProof)
	assert.Equal(t, 130.65, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Empty(t, st.Cart())

	acts := st.Activities(st.CurrentUser().ID)
	require.GreaterOrEqual(t, len(acts), 2)
	assert.Equal(t, models.ActionOrderPlaced, acts[0].Action)
	assert.Equal(t, models.ActionCheckoutStarted, acts[1].Action)
}

func TestPlaceOrderValidation(t *testing.T) {
	st, p, m := newShop(t)
	svc := NewService(st, zerolog.Nop())

	_, err := svc.PlaceOrder(validForm(m.ID))
	assertField(t, err, "cart")

	st.AddToCart(p, 1)

	form := validForm(m.ID)
	form.Customer.ZipCode = " "
	_, err = svc.PlaceOrder(form)
	assertField(t, err, "zipCode")

	form = validForm(m.ID)
	form.PaymentProof = ""
	_, err = svc.PlaceOrder(form)
	assertField(t, err, "paymentProof")

	_, err = svc.PlaceOrder(validForm("missing"))
	assertField(t, err, "paymentMethod")

	form = validForm(m.ID)
	form.PromoCode = "BOGUS"
	_, err = svc.PlaceOrder(form)
	assertField(t, err, "promoCode")

	st.UpdateCartQuantity(p.ID, 3)
	_, err = svc.PlaceOrder(validForm(m.ID))
	assertField(t, err, "cart")

	assert.Empty(t, st.Orders())
	assert.Len(t, st.Cart(), 1)
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	st, p, m := newShop(t)
	st.AddToCart(p, 1)
	st.LogoutUser()

	_, err := NewService(st, zerolog.Nop()).PlaceOrder(validForm(m.ID))
	assertField(t, err, "user")
	assert.Error(t, NewService(st, zerolog.Nop()).Start())
}

func TestPlaceOrderInactiveMethod(t *testing.T) {
	st, p, m := newShop(t)
	st.AddToCart(p, 1)
	inactive := models.PaymentInactive
	require.NoError(t, st.UpdatePaymentMethod(m.ID, models.PaymentMethodUpdate{Status: &inactive}))

	_, err := NewService(st, zerolog.Nop()).PlaceOrder(validForm(m.ID))
	assertField(t, err, "paymentMethod")
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, field, verr.Field)
}
