package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/stitchstyle/internal/port"
)

type memorySlotRepository struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlots keeps slots for the lifetime of the process.
func NewMemorySlots() port.SlotRepository {
	return &memorySlotRepository{
		slots: make(map[string]string),
	}
}

func (r *memorySlotRepository) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.slots[key]
	return value, ok, nil
}

func (r *memorySlotRepository) Set(_ context.Context, key string, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[key] = value
	return nil
}

func (r *memorySlotRepository) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.slots, key)
	return nil
}
