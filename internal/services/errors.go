package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks user-input errors. They abort before any
	// asynchronous call and mutate no state.
	ErrValidation = errors.New("validation error")
	// ErrExternal marks failures of the generation backend
	// (network/quota/content policy). Never retried automatically.
	ErrExternal = errors.New("external service error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks references to entities that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrNothingToDo marks an empty eligible set for a batch or export.
	// Distinct from success so callers can report a no-op.
	ErrNothingToDo = errors.New("nothing to do")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UserMessage maps a classified error to the generic string shown to users.
// Validation and no-op errors carry their own wording; everything else is
// deliberately vague so backend details never leak into the UI.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNothingToDo):
		return err.Error()
	case errors.Is(err, ErrConfiguration):
		return "configuration problem; check your settings"
	case errors.Is(err, ErrNotFound):
		return "the requested item was not found"
	default:
		return "the operation failed; please try again"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
