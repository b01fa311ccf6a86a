package domain

import "fmt"

// ValidationError reports bad user input. Message is safe to show to the user.
// Fields, when set, maps each offending input field to its message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// StorageError reports a failed read, parse or write of a durable slot.
// It is never fatal: callers fall back to an empty state.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("slot[%s] %s: %v", e.Key, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RecommendationServiceError reports a failed call to the recommendation service.
type RecommendationServiceError struct {
	Flow string
	Err  error
}

func (e *RecommendationServiceError) Error() string {
	return fmt.Sprintf("recommendation flow[%s]: %v", e.Flow, e.Err)
}

func (e *RecommendationServiceError) Unwrap() error {
	return e.Err
}
