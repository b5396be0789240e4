package assistant

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrModelNotFound       = errors.New("ai model not found")
)

// ModelNotFoundError carries a sample of the models the provider does offer
// so an operator can fix the configured model name.
type ModelNotFoundError struct {
	Model     string
	Available []string
	ListErr   error
}

func (e *ModelNotFoundError) Error() string {
	if e.ListErr != nil {
		return fmt.Sprintf("model %q not found; listing available models failed: %v", e.Model, e.ListErr)
	}
	if len(e.Available) == 0 {
		return fmt.Sprintf("model %q not found; no models available", e.Model)
	}
	return fmt.Sprintf("model %q not found; available models: %s", e.Model, strings.Join(e.Available, ", "))
}

func (e *ModelNotFoundError) Unwrap() error {
	return ErrModelNotFound
}
