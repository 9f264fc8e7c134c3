package request

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultParameterLimit is the maximum number of key/value pairs accepted in a form body.
	DefaultParameterLimit = 1000
	// DefaultFormDepth is the maximum number of bracket segments in a form key.
	DefaultFormDepth = 32
	// minArrayLimit is the smallest index still treated as an array position.
	minArrayLimit = 100
)

var (
	// ErrTooManyParameters is returned when a form body exceeds the parameter limit.
	ErrTooManyParameters = errors.New("too many parameters")
	// ErrFormDepthExceeded is returned when a form key nests deeper than the depth limit.
	ErrFormDepthExceeded = errors.New("form key depth exceeded")

	bracketSegment = regexp.MustCompile(`\[[^\[\]]*\]`)
)

// FormOptions controls ParseExtendedWith.
type FormOptions struct {
	ParameterLimit int
	Depth          int
	// ArrayLimit is the largest bracket index kept as an array position; larger
	// indices become map keys. Zero means max(100, number of parameters).
	ArrayLimit int
}

// hole marks an unset position in an array built from explicit indices. Holes are
// removed before the result is returned.
type hole struct{}

// ParseExtended parses an application/x-www-form-urlencoded body into nested maps
// and slices using bracket notation:
//
//	a=1&a=2          -> {"a": ["1", "2"]}
//	user[name]=x     -> {"user": {"name": "x"}}
//	tags[]=a&tags[]=b -> {"tags": ["a", "b"]}
//	ids[1]=y&ids[0]=x -> {"ids": ["x", "y"]}
func ParseExtended(raw string) (map[string]any, error) {
	return ParseExtendedWith(raw, FormOptions{
		ParameterLimit: DefaultParameterLimit,
		Depth:          DefaultFormDepth,
	})
}

// ParseExtendedWith is ParseExtended with explicit limits.
func ParseExtendedWith(raw string, opts FormOptions) (map[string]any, error) {
	count := strings.Count(raw, "&") + 1
	if opts.ParameterLimit > 0 && count > opts.ParameterLimit {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyParameters, opts.ParameterLimit)
	}
	if opts.ArrayLimit <= 0 {
		opts.ArrayLimit = max(minArrayLimit, count)
	}

	keys, values := parseValues(raw)

	var result any = map[string]any{}
	for _, key := range keys {
		parsed, err := parseKey(key, values[key], opts)
		if err != nil {
			return nil, err
		}
		if parsed == nil {
			continue
		}
		result = mergeValues(result, parsed)
	}

	out, ok := compact(result).(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return out, nil
}

// parseValues splits raw into decoded keys, combining repeated keys into slices.
// Keys are returned in first-seen order.
func parseValues(raw string) ([]string, map[string]any) {
	var keys []string
	values := make(map[string]any)
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		var k, v string
		if i := strings.IndexByte(part, '='); i >= 0 {
			k, v = part[:i], part[i+1:]
		} else {
			k = part
		}
		k, v = decodeComponent(k), decodeComponent(v)
		if k == "" {
			continue
		}
		existing, ok := values[k]
		if !ok {
			keys = append(keys, k)
			values[k] = v
			continue
		}
		if arr, isArr := existing.([]any); isArr {
			values[k] = append(arr, v)
		} else {
			values[k] = []any{existing, v}
		}
	}
	return keys, values
}

func decodeComponent(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// parseKey splits key into its parent and bracket segments and builds the nested
// value for it.
func parseKey(key string, value any, opts FormOptions) (any, error) {
	if opts.Depth <= 0 {
		return map[string]any{key: value}, nil
	}

	var chain []string
	locs := bracketSegment.FindAllStringIndex(key, -1)

	parent := key
	if len(locs) > 0 {
		parent = key[:locs[0][0]]
	}
	if parent != "" {
		chain = append(chain, parent)
	}

	depth := 0
	for _, loc := range locs {
		if depth >= opts.Depth {
			return nil, fmt.Errorf("%w: limit is %d", ErrFormDepthExceeded, opts.Depth)
		}
		chain = append(chain, key[loc[0]:loc[1]])
		depth++
	}
	if len(chain) == 0 {
		return nil, nil
	}

	return buildChain(chain, value, opts), nil
}

func buildChain(chain []string, leaf any, opts FormOptions) any {
	for i := len(chain) - 1; i >= 0; i-- {
		root := chain[i]
		if root == "[]" {
			if arr, ok := leaf.([]any); ok {
				leaf = append([]any(nil), arr...)
			} else {
				leaf = []any{leaf}
			}
			continue
		}

		clean := root
		if strings.HasPrefix(root, "[") && strings.HasSuffix(root, "]") {
			clean = root[1 : len(root)-1]
		}
		if idx, err := strconv.Atoi(clean); err == nil && root != clean &&
			strconv.Itoa(idx) == clean && idx >= 0 && idx <= opts.ArrayLimit {
			arr := make([]any, idx+1)
			for j := range arr {
				arr[j] = hole{}
			}
			arr[idx] = leaf
			leaf = arr
			continue
		}
		leaf = map[string]any{clean: leaf}
	}
	return leaf
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func isHole(v any) bool {
	_, ok := v.(hole)
	return ok
}

// mergeValues folds source into target. Scalars merged into a slice are appended,
// scalars merged into a map become true-valued keys, and two scalars become a slice.
func mergeValues(target, source any) any {
	if s, ok := source.(string); ok && s == "" {
		return target
	}

	if !isContainer(source) {
		switch t := target.(type) {
		case []any:
			return append(t, source)
		case map[string]any:
			if s, ok := source.(string); ok {
				t[s] = true
			}
			return t
		default:
			return []any{target, source}
		}
	}

	if !isContainer(target) {
		if arr, ok := source.([]any); ok {
			return append([]any{target}, arr...)
		}
		return []any{target, source}
	}

	if tArr, ok := target.([]any); ok {
		if sArr, ok := source.([]any); ok {
			for i, item := range sArr {
				if isHole(item) {
					continue
				}
				if i < len(tArr) && !isHole(tArr[i]) {
					if isContainer(tArr[i]) && isContainer(item) {
						tArr[i] = mergeValues(tArr[i], item)
					} else {
						tArr = append(tArr, item)
					}
					continue
				}
				for len(tArr) <= i {
					tArr = append(tArr, hole{})
				}
				tArr[i] = item
			}
			return tArr
		}
	}

	tMap := toMap(target)
	for k, v := range toMap(source) {
		if existing, ok := tMap[k]; ok {
			tMap[k] = mergeValues(existing, v)
		} else {
			tMap[k] = v
		}
	}
	return tMap
}

func toMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		m := make(map[string]any, len(t))
		for i, item := range t {
			if !isHole(item) {
				m[strconv.Itoa(i)] = item
			}
		}
		return m
	}
	return map[string]any{}
}

// compact removes holes from every slice in v.
func compact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = compact(item)
		}
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if !isHole(item) {
				out = append(out, compact(item))
			}
		}
		return out
	}
	return v
}
