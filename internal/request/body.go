package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// BodyKind identifies how a request body was parsed.
type BodyKind int

const (
	// BodyNone means no parser claimed the body.
	BodyNone BodyKind = iota
	// BodyJSON is an application/json body; Value is a map[string]any or []any.
	BodyJSON
	// BodyForm is an application/x-www-form-urlencoded body; Value is a map[string]any.
	BodyForm
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyForm:
		return "form"
	default:
		return "none"
	}
}

// Body is the parsed request body attached to the request context.
type Body struct {
	Kind  BodyKind
	Value any
	Raw   []byte
}

// ErrNoBody is returned by DecodeJSON when the request carried no JSON body.
var ErrNoBody = errors.New("request has no JSON body")

// WithBody returns a context with the parsed body attached.
func WithBody(ctx context.Context, body *Body) context.Context {
	return context.WithValue(ctx, bodyContextKey, body)
}

// BodyFromContext returns the parsed body, or nil if none was parsed.
func BodyFromContext(r *http.Request) *Body {
	b, _ := r.Context().Value(bodyContextKey).(*Body)
	return b
}

// JSONBody returns the parsed JSON value when the body was application/json.
func JSONBody(r *http.Request) (any, bool) {
	b := BodyFromContext(r)
	if b == nil || b.Kind != BodyJSON {
		return nil, false
	}
	return b.Value, true
}

// FormBody returns the parsed form when the body was application/x-www-form-urlencoded.
func FormBody(r *http.Request) (map[string]any, bool) {
	b := BodyFromContext(r)
	if b == nil || b.Kind != BodyForm {
		return nil, false
	}
	m, ok := b.Value.(map[string]any)
	return m, ok
}

// DecodeJSON decodes the already-parsed JSON body into v.
func DecodeJSON(r *http.Request, v any) error {
	b := BodyFromContext(r)
	if b == nil || b.Kind != BodyJSON {
		return ErrNoBody
	}
	dec := json.NewDecoder(bytes.NewReader(b.Raw))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}
