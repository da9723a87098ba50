package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProvider means no generation backend could be resolved from
	// configuration. The only condition surfaced to callers as a hard failure.
	ErrNoProvider = errors.New("no text generation backend configured")

	ErrProviderUnreachable = errors.New("provider unreachable")
	ErrModelNotFound       = errors.New("model not found")
	ErrEmptyGeneration     = errors.New("empty generation")
	ErrMalformedGeneration = errors.New("malformed generation")
	ErrInvalidInput        = errors.New("invalid input")
	ErrTemporary           = errors.New("temporary failure")
)

// ModelNotFoundError carries the backend and model id for diagnostics while
// still matching ErrModelNotFound via errors.Is.
type ModelNotFoundError struct {
	Backend string
	Model   string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found via %s", e.Model, e.Backend)
}

func (e *ModelNotFoundError) Unwrap() error {
	return ErrModelNotFound
}

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
