package port

import (
	"context"

	"github.com/nikolayk812/stitchstyle/internal/domain"
)

// Authenticator checks credentials that already passed input validation.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, name, email, password string) (domain.User, error)
}
