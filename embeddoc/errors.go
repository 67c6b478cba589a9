package embeddoc

import "errors"

var (
	// ErrCheckerRequired is returned when no memory existence checker is provided.
	ErrCheckerRequired = errors.New("memory existence checker required")

	// ErrProviderRequired is returned when no document set provider is provided.
	ErrProviderRequired = errors.New("document set provider required")

	// ErrGeneratorRequired is returned when no embedding generator is provided.
	ErrGeneratorRequired = errors.New("embedding generator required")
)

// Error is a terminal pipeline failure.
// Kind is one of the core pipeline sentinels (core.ErrMissingArgument,
// core.ErrMemoryNotFound, ...). Message is what the user is shown.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
