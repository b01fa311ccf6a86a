// Package checkout turns the current cart into an order.
package checkout

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/sirupsen/logrus"
)

const ShippingFee = 500

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrEmptyCart        = errors.New("cart is empty")
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

var fieldMessages = map[string]string{
	"name":        "Name is required",
	"email":       "Invalid email address",
	"address":     "Address is required",
	"city":        "City is required",
	"phone":       "Phone number is required",
	"card_number": "Card number must be 16 digits",
	"expiry_date": "Expiry date must be in MM/YY format",
	"cvv":         "CVV must be 3 digits",
}

type CartStore interface {
	Cart() domain.Cart
	Checkout(ctx context.Context) domain.Cart
}

type SessionStore interface {
	User() (domain.User, bool)
}

type Service struct {
	cart     CartStore
	session  SessionStore
	validate *validator.Validate
	log      logrus.FieldLogger
	now      func() time.Time
}

func New(cart CartStore, session SessionStore, log logrus.FieldLogger) (*Service, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	err := validate.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		cart:     cart,
		session:  session,
		validate: validate,
		log:      log.WithField("component", "checkout"),
		now:      time.Now,
	}, nil
}

// PlaceOrder validates details, takes the cart out of the store and prices it with
// the flat shipping fee.
func (s *Service) PlaceOrder(ctx context.Context, details domain.ShippingDetails) (domain.Order, error) {
	user, ok := s.session.User()
	if !ok {
		return domain.Order{}, ErrNotAuthenticated
	}

	if len(s.cart.Cart().Items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	details = trimmed(details)
	if err := s.check(details); err != nil {
		return domain.Order{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Order{}, err
	}

	cart := s.cart.Checkout(ctx)
	if len(cart.Items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	subtotal := domain.KES(cart.TotalPrice())
	fee := domain.KES(ShippingFee)

	details.CardNumber = mask(details.CardNumber)
	details.CVV = ""

	order := domain.Order{
		ID:          id,
		User:        user,
		Items:       cart.Items,
		Shipping:    details,
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
		PlacedAt:    s.now().UTC(),
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID.String(),
		"user_id":  user.ID,
		"items":    cart.TotalItems(),
		"total":    order.Total.String(),
	}).Info("order placed")

	return order, nil
}

func (s *Service) check(details domain.ShippingDetails) error {
	err := s.validate.Struct(details)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	first := ""
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		fields[fe.Field()] = msg
		if first == "" {
			first = msg
		}
	}

	return &domain.ValidationError{Message: first, Fields: fields}
}

func trimmed(d domain.ShippingDetails) domain.ShippingDetails {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.Phone = strings.TrimSpace(d.Phone)
	d.CardNumber = strings.ReplaceAll(d.CardNumber, " ", "")
	d.ExpiryDate = strings.TrimSpace(d.ExpiryDate)
	d.CVV = strings.TrimSpace(d.CVV)
	return d
}

func mask(card string) string {
	if len(card) < 4 {
		return card
	}
	return strings.Repeat("*", len(card)-4) + card[len(card)-4:]
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
