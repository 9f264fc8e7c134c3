package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/benvon/clinic-edge/internal/apierror"
	"github.com/benvon/clinic-edge/internal/request"
)

var (
	// ErrMalformedJSON is returned when a JSON body cannot be decoded.
	ErrMalformedJSON = errors.New("malformed json body")
	// ErrBodyTooLarge is returned when a body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("request entity too large")
	// ErrUnsupportedCharset is returned for bodies declared in a charset other than utf-8.
	ErrUnsupportedCharset = errors.New("unsupported charset")
	// ErrMalformedForm is returned when a urlencoded body breaks the form limits.
	ErrMalformedForm = errors.New("malformed form body")
)

// BodyParser parses application/json and application/x-www-form-urlencoded
// bodies, attaches the result to the request context, and restores the raw
// bytes on r.Body. Parse failures go to the responder; other content types pass
// through untouched.
func BodyParser(rs *apierror.Responder, maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kind, charset := bodyKindFor(r)
			if kind == request.BodyNone || !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}
			if charset != "" && charset != "utf-8" {
				rs.Respond(w, r, fmt.Errorf("%w: %q", ErrUnsupportedCharset, charset))
				return
			}

			raw, err := readBody(w, r, maxBytes)
			if err != nil {
				rs.Respond(w, r, err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))

			if len(raw) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			body := &request.Body{Kind: kind, Raw: raw}
			switch kind {
			case request.BodyJSON:
				body.Value, err = parseStrictJSON(raw)
			case request.BodyForm:
				body.Value, err = parseForm(raw)
			}
			if err != nil {
				rs.Respond(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithBody(r.Context(), body)))
		})
	}
}

func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	if r.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxBytes)
	}
	defer r.Body.Close()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return raw, nil
}

// parseStrictJSON accepts only an object or array at the top level. Numbers are
// kept as json.Number so re-encoding does not change them.
func parseStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: only whitespace", ErrMalformedJSON)
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value must be an object or array", ErrMalformedJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrMalformedJSON)
	}
	return value, nil
}

func parseForm(raw []byte) (any, error) {
	values, err := request.ParseExtended(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedForm, err)
	}
	return values, nil
}
