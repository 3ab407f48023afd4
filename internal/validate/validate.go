// Package validate collects field-rule failures for one command. Every rule
// runs; nothing short-circuits, so the caller gets the full ordered list.
package validate

import (
	"net/mail"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/apperror"
)

type Checker struct {
	fields []apperror.FieldError
}

func (c *Checker) add(field, message string) {
	c.fields = append(c.fields, apperror.FieldError{Field: field, Message: message})
}

// ID checks a numeric identifier.
func (c *Checker) ID(field string, v uint) {
	if v == 0 {
		c.add(field, "must be greater than 0")
	}
}

// Positive checks a quantity-like value.
func (c *Checker) Positive(field string, v int) {
	if v <= 0 {
		c.add(field, "must be greater than 0")
	}
}

// Required checks a mandatory string.
func (c *Checker) Required(field, v string) {
	if strings.TrimSpace(v) == "" {
		c.add(field, "must not be empty")
	}
}

// Email checks a mandatory RFC-shaped address.
func (c *Checker) Email(field, v string) {
	if strings.TrimSpace(v) == "" {
		c.add(field, "must not be empty")
		return
	}
	if _, err := mail.ParseAddress(v); err != nil {
		c.add(field, "must be a valid email address")
	}
}

// Err returns nil when every rule passed.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &apperror.ValidationError{Fields: c.fields}
}
