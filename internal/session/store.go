// Package session tracks the single authenticated user of the storefront and keeps
// it in a durable slot so it survives restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/port"
	"github.com/nikolayk812/stitchstyle/internal/slot"
	"github.com/sirupsen/logrus"
)

const (
	SlotKey = "stitch-style-user"

	minPasswordLength = 6
)

var (
	ErrLoginFailed  = errors.New("login failed, please try again")
	ErrSignupFailed = errors.New("signup failed, please try again")
)

type Store struct {
	slots port.SlotRepository
	auth  port.Authenticator
	log   logrus.FieldLogger

	// inflight admits one credential check at a time
	inflight chan struct{}

	mu      sync.RWMutex
	user    *domain.User
	loading bool
}

// New builds the store and restores a persisted session, if any.
func New(ctx context.Context, slots port.SlotRepository, auth port.Authenticator, log logrus.FieldLogger) *Store {
	s := &Store{
		slots:    slots,
		auth:     auth,
		log:      log.WithField("component", "session"),
		inflight: make(chan struct{}, 1),
		loading:  true,
	}

	s.load(ctx)

	return s
}

func (s *Store) load(ctx context.Context) {
	user, found, err := slot.Load[domain.User](ctx, s.slots, SlotKey)
	if err != nil {
		s.log.WithError(err).Error("failed to restore stored user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if found {
		s.user = &user
	}
	s.loading = false
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return domain.NewValidationError("Email and password are required")
	}
	if passwordLength(password) < minPasswordLength {
		return domain.NewValidationError("Password must be at least 6 characters")
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	user, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.log.WithError(err).WithField("email", email).Warn("login rejected")
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	s.set(ctx, user)
	s.log.WithField("user_id", user.ID).Info("user logged in")

	return nil
}

func (s *Store) Signup(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return domain.NewValidationError("All fields are required")
	}
	if passwordLength(password) < minPasswordLength {
		return domain.NewValidationError("Password must be at least 6 characters")
	}
	if !strings.Contains(email, "@") {
		return domain.NewValidationError("Please enter a valid email address")
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	user, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.log.WithError(err).WithField("email", email).Warn("signup rejected")
		return fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}

	s.set(ctx, user)
	s.log.WithField("user_id", user.ID).Info("user signed up")

	return nil
}

// Logout drops the session and its slot. It never fails; a slot that cannot be
// deleted is logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := slot.Remove(ctx, s.slots, SlotKey); err != nil {
		s.log.WithError(err).Error("failed to remove stored user")
	}
}

func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

// set holds s.mu across the slot write, ordering it with Logout.
func (s *Store) set(ctx context.Context, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	s.save(ctx, user)
}

// save expects s.mu to be held.
func (s *Store) save(ctx context.Context, user domain.User) {
	if err := slot.Save(ctx, s.slots, SlotKey, user); err != nil {
		s.log.WithError(err).Error("failed to persist user")
	}
}

func (s *Store) acquire(ctx context.Context) (func(), error) {
	select {
	case s.inflight <- struct{}{}:
		return func() { <-s.inflight }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// passwordLength counts UTF-16 code units, the length browsers report for the field.
func passwordLength(password string) int {
	n := 0
	for _, r := range password {
		n += utf16.RuneLen(r)
	}
	return n
}
