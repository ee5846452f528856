package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

const maxErrorMsgLengthBytes int64 = 2048

// ExternalAPIError An unexpected response of an external API.
type ExternalAPIError struct {
	URL        string
	Message    string
	StatusCode int
	// RetryAfter is the delay requested by the Retry-After header, zero if absent
	RetryAfter time.Duration
}

// NewErr creates an error for an unexpected response of an external API.
func NewErr(url string, code int, msg string) error {
	return &ExternalAPIError{URL: url, StatusCode: code, Message: msg}
}

// NewHTTPErr creates an error from the response. At most the first 2048 bytes of the body are kept.
// For json bodies with an error field only that field is kept.
func NewHTTPErr(url string, resp *http.Response) error {
	apiErr := &ExternalAPIError{
		URL:        url,
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorMsgLengthBytes))
	if err != nil {
		apiErr.Message = fmt.Sprintf("failed to read response body due to %v", err)

		return apiErr
	}
	apiErr.Message = string(body)

	if NewMimeType(resp.Header.Get("content-type")).IsJSON() {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}

	return apiErr
}

// parseRetryAfter supports both forms of the header, delay in seconds and http date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(seconds)*time.Second, 0)
	}

	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}

	return 0
}

func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%d: %s (URL: %s)", e.StatusCode, strings.TrimSpace(e.Message), e.URL)
}

// Is matches other API errors with the same status code.
func (e *ExternalAPIError) Is(target error) bool {
	t, ok := target.(*ExternalAPIError)
	if !ok {
		return false
	}

	return e.StatusCode == t.StatusCode
}

// IsStatusCode returns true if an ExternalAPIError in the chain of err has one of the status codes.
func IsStatusCode(err error, statusCode ...int) bool {
	code, ok := StatusCode(err)

	return ok && slices.Contains(statusCode, code)
}

// StatusCode returns the status code of an ExternalAPIError in the chain of err.
func StatusCode(err error) (int, bool) {
	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}

	return 0, false
}
