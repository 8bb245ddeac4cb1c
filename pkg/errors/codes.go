package errors

import "net/http"

// ErrorCode identifies a failure category.  The taxonomy is deliberately
// small: validation (400), unauthorized (401), not found (404), upstream
// unavailable (503), and internal (500).
type ErrorCode string

func (c ErrorCode) String() string { return string(c) }

const (
	CodeOK                  ErrorCode = "OK"
	CodeUnknown             ErrorCode = "UNKNOWN"
	CodeValidation          ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized        ErrorCode = "NOT_AUTHENTICATED"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	CodeDataSource          ErrorCode = "DATA_SOURCE_ERROR"
	CodeCache               ErrorCode = "CACHE_ERROR"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	CodeValidation:          http.StatusBadRequest,
	CodeUnauthorized:        http.StatusUnauthorized,
	CodeNotFound:            http.StatusNotFound,
	CodeUpstreamUnavailable: http.StatusServiceUnavailable,
	CodeDataSource:          http.StatusInternalServerError,
	CodeCache:               http.StatusInternalServerError,
	CodeInternal:            http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status for an ErrorCode; unknown codes
// map to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}
