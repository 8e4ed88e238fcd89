package errors

import (
	"net/http"
)

func BadRequest() ErrorEnricher  { return WithCode(http.StatusBadRequest) }
func NotFound() ErrorEnricher    { return WithCode(http.StatusNotFound) }
func BadGateway() ErrorEnricher  { return WithCode(http.StatusBadGateway) }
func RateLimited() ErrorEnricher { return WithCode(http.StatusTooManyRequests) }

// IsRateLimited reports whether err carries the rate-limit code.
func IsRateLimited(err error) bool {
	return Code(err) == http.StatusTooManyRequests
}
