package posts

import "errors"

var (
	ErrNetwork      = errors.New("network error")
	ErrParse        = errors.New("expected field not found")
	ErrPermission   = errors.New("no edit permission or post closed")
	ErrStateIO      = errors.New("processed set unavailable")
	ErrEndOfListing = errors.New("end of listing")
	ErrAuth         = errors.New("authentication failed")
	ErrAborted      = errors.New("operation cancelled by user")
)

// Retryable reports whether err is a transport failure worth another attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork) && !errors.Is(err, ErrEndOfListing)
}
