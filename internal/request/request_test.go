package request

import (
	"context"
	"errors"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		wantIP  string
	}{
		{"x-forwarded-for", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "", "1.2.3.4"},
		{"x-forwarded-for first", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8 "}, "", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "9.9.9.9"}, "", "9.9.9.9"},
		{"remote addr", nil, "10.0.0.1:12345", "10.0.0.1"},
		{"remote addr ipv6", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"x-real-ip with port", map[string]string{"X-Real-IP": "9.9.9.9:8080"}, "", "9.9.9.9"},
		{"x-forwarded-for bare ipv6", map[string]string{"X-Forwarded-For": "2001:db8::2"}, "", "2001:db8::2"},
		{"xff over xri", map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "9.9.9.9"}, "", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}
			got := ClientIP(r)
			if got != tt.wantIP {
				t.Errorf("ClientIP() = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestClientIP_SameHostDifferentPorts(t *testing.T) {
	t.Parallel()

	a := httptest.NewRequest("GET", "/", nil)
	a.RemoteAddr = "10.0.0.1:1111"
	b := httptest.NewRequest("GET", "/", nil)
	b.RemoteAddr = "10.0.0.1:2222"

	if ClientIP(a) != ClientIP(b) {
		t.Errorf("ClientIP differs by port: %q vs %q", ClientIP(a), ClientIP(b))
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	if got := IDFromContext(context.Background()); got != "" {
		t.Errorf("IDFromContext() = %q, want empty", got)
	}
	ctx := WithRequestID(context.Background(), "abc-123")
	if got := IDFromContext(ctx); got != "abc-123" {
		t.Errorf("IDFromContext() = %q, want abc-123", got)
	}
}

func TestCookies_NoneAttached(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("GET", "/", nil)
	got := Cookies(r)
	if got == nil || len(got) != 0 {
		t.Errorf("Cookies() = %v, want empty non-nil map", got)
	}
	if _, ok := Cookie(r, "session"); ok {
		t.Error("Cookie() reported a value on a request without cookies")
	}
}

func TestParseCookies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		header string
		want   map[string]any
	}{
		{"absent", "", map[string]any{}},
		{"single", "token=abc", map[string]any{"token": "abc"}},
		{"multiple", "a=1; b=2", map[string]any{"a": "1", "b": "2"}},
		{"percent decoded", "name=John%20Doe", map[string]any{"name": "John Doe"}},
		{"plus kept", "q=a+b", map[string]any{"q": "a+b"}},
		{"bad escape kept raw", "x=%zz", map[string]any{"x": "%zz"}},
		{"first wins", "a=1; a=2", map[string]any{"a": "1"}},
		{"json cookie", "prefs=j%3A%7B%22theme%22%3A%22dark%22%7D", map[string]any{"prefs": map[string]any{"theme": "dark"}}},
		{"broken json cookie", "prefs=j%3A%7Bnope", map[string]any{"prefs": "j:{nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Cookie", tt.header)
			}
			got := ParseCookies(r)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCookies(%q) = %#v, want %#v", tt.header, got, tt.want)
			}
		})
	}
}

func TestCookie(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(WithCookies(r.Context(), map[string]any{
		"session": "s1",
		"prefs":   map[string]any{"theme": "dark"},
	}))
	if v, ok := Cookie(r, "session"); !ok || v != "s1" {
		t.Errorf("Cookie(session) = %q, %v", v, ok)
	}
	if _, ok := Cookie(r, "prefs"); ok {
		t.Error("Cookie(prefs) should not report a JSON cookie as a string")
	}
}

func TestBodyAccessors(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", nil)
	if BodyFromContext(r) != nil {
		t.Fatal("expected no body on a fresh request")
	}
	if _, ok := JSONBody(r); ok {
		t.Error("JSONBody() reported a value on a fresh request")
	}
	if err := DecodeJSON(r, &struct{}{}); !errors.Is(err, ErrNoBody) {
		t.Errorf("DecodeJSON() error = %v, want ErrNoBody", err)
	}

	raw := []byte(`{"name":"Dr. Who","age":900}`)
	jr := r.WithContext(WithBody(r.Context(), &Body{Kind: BodyJSON, Value: map[string]any{"name": "Dr. Who"}, Raw: raw}))
	if v, ok := JSONBody(jr); !ok || v.(map[string]any)["name"] != "Dr. Who" {
		t.Errorf("JSONBody() = %v, %v", v, ok)
	}
	if _, ok := FormBody(jr); ok {
		t.Error("FormBody() reported a value for a JSON body")
	}
	var doc struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	if err := DecodeJSON(jr, &doc); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if doc.Name != "Dr. Who" || doc.Age != 900 {
		t.Errorf("DecodeJSON() = %+v", doc)
	}

	fr := r.WithContext(WithBody(r.Context(), &Body{Kind: BodyForm, Value: map[string]any{"a": "1"}}))
	if m, ok := FormBody(fr); !ok || m["a"] != "1" {
		t.Errorf("FormBody() = %v, %v", m, ok)
	}
}

func TestBodyKindString(t *testing.T) {
	t.Parallel()
	for kind, want := range map[BodyKind]string{BodyNone: "none", BodyJSON: "json", BodyForm: "form"} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}

func TestDecodeJSON_TypeMismatch(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("POST", "/", nil)
	r = r.WithContext(WithBody(r.Context(), &Body{Kind: BodyJSON, Raw: []byte(`{"age":"old"}`)}))
	var doc struct {
		Age int `json:"age"`
	}
	err := DecodeJSON(r, &doc)
	if err == nil || !strings.Contains(err.Error(), "decode json body") {
		t.Errorf("DecodeJSON() error = %v, want wrapped decode error", err)
	}
}
