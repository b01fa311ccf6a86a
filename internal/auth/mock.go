// Package auth holds credential checkers for the session store.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/port"
)

// userNamespace scopes the deterministic ids of mock logins.
var userNamespace = uuid.MustParse("6f1c7f4e-2b0a-4a8e-9d55-3c1e1f0b7a21")

// MockAuthenticator accepts every well-formed credential pair after an optional delay.
// There is no user database behind it.
type MockAuthenticator struct {
	delay time.Duration
}

func NewMock(delay time.Duration) port.Authenticator {
	return &MockAuthenticator{delay: delay}
}

func (a *MockAuthenticator) Authenticate(ctx context.Context, email, _ string) (domain.User, error) {
	if err := a.wait(ctx); err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:    uuid.NewSHA1(userNamespace, []byte(strings.ToLower(email))).String(),
		Email: email,
		Name:  localPart(email),
	}, nil
}

func (a *MockAuthenticator) Register(ctx context.Context, name, email, _ string) (domain.User, error) {
	if err := a.wait(ctx); err != nil {
		return domain.User{}, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:    id.String(),
		Email: email,
		Name:  name,
	}, nil
}

func (a *MockAuthenticator) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(a.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
