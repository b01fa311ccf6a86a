package port

import (
	"context"
)

// SlotRepository persists whole JSON documents under string keys.
type SlotRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
