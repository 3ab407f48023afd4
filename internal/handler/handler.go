// Package handler holds the command and query handlers, one method per
// operation. Mutations run Validate → Begin → preconditions → mutate →
// Complete → Commit and roll back on any failure after Begin; queries never
// open a transaction and always exclude soft-deleted rows.
package handler

import (
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/apperror"
)

func notFound(entity string) error {
	return fmt.Errorf("%s not found or deleted: %w", entity, apperror.ErrNotFound)
}

func conflict(msg string) error {
	return fmt.Errorf("%s: %w", msg, apperror.ErrConflict)
}
