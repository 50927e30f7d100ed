package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Dosada05/coforge-registration/models"
)

var (
	ErrStoreNotReady = errors.New("data store is not configured")
	ErrInvalidTable  = errors.New("table name must not be empty")
)

// DataStore - граница с внешним хранилищем. Ядру нужна только вставка одной строки.
type DataStore interface {
	// Ready reports whether the store was built with usable connection parameters.
	Ready() bool
	Insert(ctx context.Context, table string, rec *models.Registration) error
}

// StoreError is a failure reported by the store itself (policy rejection, constraint violation, ...).
type StoreError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	Hint       string
}

func (e *StoreError) Error() string {
	if d := e.Detail(); d != "" {
		return d
	}
	return "data store rejected the request"
}

// Detail returns the store-provided text, or "" when the store gave none.
func (e *StoreError) Detail() string {
	parts := make([]string, 0, 2)
	if m := strings.TrimSpace(e.Message); m != "" {
		parts = append(parts, m)
	}
	if d := strings.TrimSpace(e.Details); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, ": ")
}

// ErrorDetail extracts the human readable part of an Insert error.
func ErrorDetail(err error) string {
	if err == nil {
		return ""
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Detail()
	}
	return strings.TrimSpace(err.Error())
}
