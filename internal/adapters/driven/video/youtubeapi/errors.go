package youtubeapi

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Common YouTube Data API errors.
var (
	// ErrUnauthorized indicates an invalid API key.
	ErrUnauthorized = errors.New("youtube api: unauthorised (invalid API key)")

	// ErrForbidden indicates the key lacks access or the daily quota is spent.
	ErrForbidden = errors.New("youtube api: forbidden (key restricted or quota exceeded)")

	// ErrNotFound indicates the video does not exist or is private.
	ErrNotFound = errors.New("youtube api: video not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("youtube api: rate limit exceeded")
)

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// WrapError converts a Google API error to a more specific error.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}
