package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nikolayk812/stitchstyle/internal/auth"
	"github.com/nikolayk812/stitchstyle/internal/cart"
	"github.com/nikolayk812/stitchstyle/internal/checkout"
	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/repository"
	"github.com/nikolayk812/stitchstyle/internal/session"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder(t *testing.T) {
	ctx := t.Context()
	svc, carts, sessions := newService(t)

	require.NoError(t, sessions.Login(ctx, "a@b.com", "123456"))
	carts.AddItem(ctx, domain.Product{ID: "p1", Price: 2500}, 2)
	carts.AddItem(ctx, domain.Product{ID: "p2", Price: 4000}, 1)

	order, err := svc.PlaceOrder(ctx, validDetails())
	require.NoError(t, err)

	assert.Equal(t, "KSh 9,000", order.Subtotal.String())
	assert.Equal(t, "KSh 500", order.ShippingFee.String())
	assert.Equal(t, "KSh 9,500", order.Total.String())
	assert.True(t, order.Total.Amount.Equal(domain.KES(9500).Amount))
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "a", order.User.Name)
	assert.Equal(t, "************1111", order.Shipping.CardNumber)
	assert.Empty(t, order.Shipping.CVV)
	assert.False(t, order.PlacedAt.IsZero())

	assert.Empty(t, carts.Items())
}

func TestPlaceOrderPreconditions(t *testing.T) {
	ctx := t.Context()

	svc, carts, _ := newService(t)
	carts.AddItem(ctx, domain.Product{ID: "p1", Price: 100}, 1)
	_, err := svc.PlaceOrder(ctx, validDetails())
	require.ErrorIs(t, err, checkout.ErrNotAuthenticated)

	svc, _, sessions := newService(t)
	require.NoError(t, sessions.Login(ctx, "a@b.com", "123456"))
	_, err = svc.PlaceOrder(ctx, validDetails())
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(d *domain.ShippingDetails)
		wantField string
		wantError string
	}{
		{
			name:      "short name: error",
			mutate:    func(d *domain.ShippingDetails) { d.Name = "J" },
			wantField: "name",
			wantError: "Name is required",
		},
		{
			name:      "bad email: error",
			mutate:    func(d *domain.ShippingDetails) { d.Email = "nope" },
			wantField: "email",
			wantError: "Invalid email address",
		},
		{
			name:      "short phone: error",
			mutate:    func(d *domain.ShippingDetails) { d.Phone = "0712" },
			wantField: "phone",
			wantError: "Phone number is required",
		},
		{
			name:      "short card: error",
			mutate:    func(d *domain.ShippingDetails) { d.CardNumber = "4111" },
			wantField: "card_number",
			wantError: "Card number must be 16 digits",
		},
		{
			name:      "bad expiry month: error",
			mutate:    func(d *domain.ShippingDetails) { d.ExpiryDate = "13/27" },
			wantField: "expiry_date",
			wantError: "Expiry date must be in MM/YY format",
		},
		{
			name:      "long cvv: error",
			mutate:    func(d *domain.ShippingDetails) { d.CVV = "1234" },
			wantField: "cvv",
			wantError: "CVV must be 3 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			svc, carts, sessions := newService(t)
			require.NoError(t, sessions.Login(ctx, "a@b.com", "123456"))
			carts.AddItem(ctx, domain.Product{ID: "p1", Price: 100}, 1)

			details := validDetails()
			tt.mutate(&details)

			_, err := svc.PlaceOrder(ctx, details)
			require.EqualError(t, err, tt.wantError)

			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, map[string]string{tt.wantField: tt.wantError}, validationErr.Fields)

			assert.Len(t, carts.Items(), 1)
		})
	}
}

func TestPlaceOrderKeepsItemAddedMidway(t *testing.T) {
	ctx := t.Context()
	logger, _ := logtest.NewNullLogger()
	slots := repository.NewMemorySlots()

	carts := &lateAddCart{
		Store: cart.New(ctx, slots, logger),
		late:  domain.Product{ID: "late", Price: 1000},
	}
	sessions := session.New(ctx, slots, auth.NewMock(0), logger)

	svc, err := checkout.New(carts, sessions, logger)
	require.NoError(t, err)

	require.NoError(t, sessions.Login(ctx, "a@b.com", "123456"))
	carts.AddItem(ctx, domain.Product{ID: "p1", Price: 2500}, 1)

	order, err := svc.PlaceOrder(ctx, validDetails())
	require.NoError(t, err)

	ordered := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ordered = append(ordered, item.ID)
	}
	assert.Equal(t, []string{"p1", "late"}, ordered)
	assert.Equal(t, "KSh 3,500", order.Subtotal.String())
	assert.Empty(t, carts.Items())
}

func newService(t *testing.T) (*checkout.Service, *cart.Store, *session.Store) {
	t.Helper()

	logger, _ := logtest.NewNullLogger()
	slots := repository.NewMemorySlots()

	carts := cart.New(t.Context(), slots, logger)
	sessions := session.New(t.Context(), slots, auth.NewMock(0), logger)

	svc, err := checkout.New(carts, sessions, logger)
	require.NoError(t, err)

	return svc, carts, sessions
}

func validDetails() domain.ShippingDetails {
	return domain.ShippingDetails{
		Name:       "Jane Wanjiku",
		Email:      "jane@example.co.ke",
		Address:    "12 Moi Avenue",
		City:       "Nairobi",
		Phone:      "0712345678",
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "08/28",
		CVV:        "123",
	}
}

// lateAddCart adds one more product right after the first snapshot is read.
type lateAddCart struct {
	*cart.Store

	once sync.Once
	late domain.Product
}

func (c *lateAddCart) Cart() domain.Cart {
	snapshot := c.Store.Cart()
	c.once.Do(func() {
		c.AddItem(context.Background(), c.late, 1)
	})
	return snapshot
}
