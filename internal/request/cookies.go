package request

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// jsonCookiePrefix marks a cookie whose value is a JSON document.
const jsonCookiePrefix = "j:"

// ParseCookies parses the Cookie header into a name to value map. Values are
// percent-decoded; "j:" prefixed values are decoded as JSON. When a name repeats,
// the first occurrence wins.
func ParseCookies(r *http.Request) map[string]any {
	out := make(map[string]any)
	for _, c := range r.Cookies() {
		if _, exists := out[c.Name]; exists {
			continue
		}
		v := c.Value
		if strings.Contains(v, "%") {
			if decoded, err := url.PathUnescape(v); err == nil {
				v = decoded
			}
		}
		out[c.Name] = decodeJSONCookie(v)
	}
	return out
}

func decodeJSONCookie(v string) any {
	if !strings.HasPrefix(v, jsonCookiePrefix) {
		return v
	}
	var parsed any
	if err := json.Unmarshal([]byte(v[len(jsonCookiePrefix):]), &parsed); err != nil {
		return v
	}
	return parsed
}
