package db

import (
	"time"
)

type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
