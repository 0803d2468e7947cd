package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrEmptyRegister = errors.New("register is empty")
	ErrNoSelection   = errors.New("nothing selected")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RegisterError represents a failed register read or write
type RegisterError struct {
	Name   rune
	Reason string
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("register %q: %s", e.Name, e.Reason)
}

func (e *RegisterError) Is(target error) bool {
	return target == ErrEmptyRegister
}
