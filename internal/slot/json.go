// Package slot reads and writes JSON documents kept in a durable slot.
package slot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/port"
)

// Load decodes the document under key into T.
// A missing slot returns found=false and no error. A slot that does not parse is
// deleted and reported as a *domain.StorageError together with found=false.
func Load[T any](ctx context.Context, repo port.SlotRepository, key string) (_ T, found bool, _ error) {
	var zero T

	raw, found, err := repo.Get(ctx, key)
	if err != nil {
		return zero, false, &domain.StorageError{Key: key, Op: "read", Err: err}
	}
	if !found {
		return zero, false, nil
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		storageErr := &domain.StorageError{Key: key, Op: "parse", Err: err}
		if delErr := repo.Delete(ctx, key); delErr != nil {
			storageErr.Err = fmt.Errorf("%w; purge: %w", err, delErr)
		}
		return zero, false, storageErr
	}

	return value, true, nil
}

// Save overwrites the slot with the full JSON encoding of value.
func Save[T any](ctx context.Context, repo port.SlotRepository, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Key: key, Op: "encode", Err: err}
	}

	if err := repo.Set(ctx, key, string(data)); err != nil {
		return &domain.StorageError{Key: key, Op: "write", Err: err}
	}

	return nil
}

func Remove(ctx context.Context, repo port.SlotRepository, key string) error {
	if err := repo.Delete(ctx, key); err != nil {
		return &domain.StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}
