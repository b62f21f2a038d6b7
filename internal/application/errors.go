package application

import (
	"errors"
	"fmt"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNothingGenerated = errors.New("no cards could be generated from the input")
	ErrNotConfigured    = errors.New("not configured")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes validation failures match domain.ErrInputInvalid
func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrInputInvalid
}

// NotConfiguredError reports a tool group whose backend has no configuration
type NotConfiguredError struct {
	Service string
	Hint    string
}

func (e *NotConfiguredError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s is not configured", e.Service)
	}
	return fmt.Sprintf("%s is not configured: %s", e.Service, e.Hint)
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrNotConfigured
}
