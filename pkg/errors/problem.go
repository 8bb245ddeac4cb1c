package errors

import (
	"encoding/json"
	"net/http"
)

// ProblemTypeBase is the URI prefix for problem-details type identifiers.
const ProblemTypeBase = "https://spaarke.dev/problems/"

// ProblemContentType is the media type mandated by RFC 7807.
const ProblemContentType = "application/problem+json"

// Problem is the RFC 7807 problem-details response body.  Every 4xx/5xx
// produced by this subsystem serializes to this shape.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// problemSlugs maps error codes to the path segment of the problem type URI.
var problemSlugs = map[ErrorCode]string{
	CodeValidation:          "validation-error",
	CodeUnauthorized:        "not-authenticated",
	CodeNotFound:            "not-found",
	CodeUpstreamUnavailable: "upstream-unavailable",
	CodeDataSource:          "internal-error",
	CodeCache:               "internal-error",
	CodeInternal:            "internal-error",
}

// problemTitles maps error codes to the human-readable problem title.
var problemTitles = map[ErrorCode]string{
	CodeValidation:          "Validation Error",
	CodeUnauthorized:        "Not Authenticated",
	CodeNotFound:            "Not Found",
	CodeUpstreamUnavailable: "Upstream Unavailable",
	CodeDataSource:          "Internal Server Error",
	CodeCache:               "Internal Server Error",
	CodeInternal:            "Internal Server Error",
}

// ProblemFromError converts any error into a Problem.  Non-AppError values
// and server-side codes yield a generic internal-error problem so that
// internals never leak to callers; client-error codes carry the full
// message and detail text.
func ProblemFromError(err error) Problem {
	code := GetCode(err)
	status := HTTPStatusForCode(code)

	slug, ok := problemSlugs[code]
	if !ok {
		slug = "internal-error"
	}
	title, ok := problemTitles[code]
	if !ok {
		title = "Internal Server Error"
	}

	detail := "an unexpected error occurred"
	if IsClientError(code) {
		var ae *AppError
		if As(err, &ae) {
			detail = ae.Message
			if ae.Detail != "" {
				detail = ae.Message + ": " + ae.Detail
			}
		}
	}

	return Problem{
		Type:   ProblemTypeBase + slug,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// WriteProblem renders err as an RFC 7807 response on w.
func WriteProblem(w http.ResponseWriter, err error) {
	p := ProblemFromError(err)
	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
