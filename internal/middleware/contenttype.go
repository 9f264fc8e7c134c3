package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/benvon/clinic-edge/internal/request"
)

const (
	mediaTypeJSON = "application/json"
	mediaTypeForm = "application/x-www-form-urlencoded"
)

// bodyKindFor maps the request Content-Type to the parser that should handle it.
// The charset parameter is returned lower-cased, or "" when absent.
func bodyKindFor(r *http.Request) (request.BodyKind, string) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return request.BodyNone, ""
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return request.BodyNone, ""
	}
	charset := strings.ToLower(params["charset"])

	switch mediaType {
	case mediaTypeJSON:
		return request.BodyJSON, charset
	case mediaTypeForm:
		return request.BodyForm, charset
	default:
		return request.BodyNone, charset
	}
}

// hasBody reports whether the request declares a body.
func hasBody(r *http.Request) bool {
	return r.ContentLength > 0 || len(r.TransferEncoding) > 0
}
