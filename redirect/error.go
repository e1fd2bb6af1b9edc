package redirect

import (
	"errors"
	"fmt"
)

// ErrAbandoned is returned when the user closes the child window before a
// completion was detected. The flow itself is not failed; the caller decides.
var ErrAbandoned = errors.New("redirect abandoned: window closed before completion")

// ErrLocationUnavailable is returned by Window.Location while the window is
// navigated to a foreign origin. The coordinator treats it as expected noise.
var ErrLocationUnavailable = errors.New("window location unavailable")

// OpenError reports that the child window could not be created, e.g. a
// blocked popup or a failed browser launch. It is reported, not retried.
type OpenError struct {
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open redirect window: %v", e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ProviderError carries the error parameter extracted from the identity
// provider's callback. The flow remains resumable at the caller's discretion.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider returned error: %s", e.Code)
}
