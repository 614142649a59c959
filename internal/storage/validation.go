// Package storage provides the data persistence layer for the ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/sw/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidNote = errors.New("invalid note")
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

// validateMovements checks that every movement can be written back as a
// single record line.
func validateMovements(movements []model.Movement) error {
	for _, m := range movements {
		if strings.ContainsAny(m.Note, "\r\n") {
			return fmt.Errorf("%w: movement %d note spans several lines", ErrInvalidNote, m.ID)
		}
	}
	return nil
}
