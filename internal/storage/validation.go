// Package storage provides the SQLite-backed financial record store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidRecord = errors.New("invalid record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validator is satisfied by every model record.
type validator interface {
	Validate() error
}

// validateRecord checks a record before it is written.
func validateRecord(ctx context.Context, record validator, isNil bool, kind string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if isNil {
		return fmt.Errorf("%w: %s", ErrNilParameter, kind)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}
