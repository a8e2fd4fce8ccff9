// Package sanitize redacts sensitive keys and parameters from headers,
// URIs, and nested dictionaries so they can be logged safely. Inputs are
// never mutated; sanitized copies are returned.
package sanitize

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type options struct {
	keys      map[string]struct{}
	redaction string
	recursive bool
}

// Option configures a sanitization call
type Option func(*options)

// WithSensitiveKeys replaces the default sensitive key list.
// Names are matched case-insensitively.
func WithSensitiveKeys(keys ...string) Option {
	return func(o *options) {
		o.keys = keySet(keys)
	}
}

// WithExtraKeys adds names to the effective sensitive key list without
// replacing the defaults
func WithExtraKeys(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			o.keys[strings.ToLower(k)] = struct{}{}
		}
	}
}

// WithRedaction sets the token substituted for redacted values
func WithRedaction(token string) Option {
	return func(o *options) {
		o.redaction = token
	}
}

// Recursive controls whether Dict descends into nested maps and
// lists of maps. Off by default.
func Recursive(enabled bool) Option {
	return func(o *options) {
		o.recursive = enabled
	}
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}
	return set
}

func buildOptions(defaults []string, opts []Option) *options {
	o := &options{
		keys:      keySet(defaults),
		redaction: DefaultRedaction,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) sensitive(key string) bool {
	_, ok := o.keys[strings.ToLower(key)]
	return ok
}

// Headers returns a copy of h with sensitive header values redacted.
// Key matching is case-insensitive; non-matching entries pass through
// unchanged.
func Headers(h map[string]string, opts ...Option) map[string]string {
	if h == nil {
		return nil
	}
	o := buildOptions(DefaultSensitiveKeys, opts)

	out := make(map[string]string, len(h))
	for k, v := range h {
		if o.sensitive(k) {
			out[k] = o.redaction
		} else {
			out[k] = v
		}
	}
	return out
}

// HTTPHeader returns a copy of h with sensitive header values redacted.
// Every value of a sensitive multi-value header is replaced.
func HTTPHeader(h http.Header, opts ...Option) http.Header {
	if h == nil {
		return nil
	}
	o := buildOptions(DefaultSensitiveKeys, opts)

	out := make(http.Header, len(h))
	for k, vs := range h {
		if o.sensitive(k) {
			out[k] = []string{o.redaction}
			continue
		}
		copied := make([]string, len(vs))
		copy(copied, vs)
		out[k] = copied
	}
	return out
}

// URI redacts sensitive query parameter values from a URI while
// preserving the scheme, host, path, fragment, and the original order
// of every parameter. A URI without a query string is returned
// unchanged. Repeated occurrences of a sensitive parameter are all
// redacted.
func URI(raw string, opts ...Option) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("sanitize: invalid URI: %w", err)
	}
	if u.RawQuery == "" {
		return raw, nil
	}

	o := buildOptions(DefaultSensitiveParams, opts)

	// url.Values would lose parameter order; walk the raw query instead.
	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		if pair == "" {
			continue
		}
		key := pair
		hasValue := false
		if idx := strings.IndexByte(pair, '='); idx >= 0 {
			key = pair[:idx]
			hasValue = true
		}
		decoded, derr := url.QueryUnescape(key)
		if derr != nil {
			decoded = key
		}
		if hasValue && o.sensitive(decoded) {
			pairs[i] = key + "=" + url.QueryEscape(o.redaction)
		}
	}
	u.RawQuery = strings.Join(pairs, "&")

	return u.String(), nil
}

// Dict returns a copy of m with sensitive key values redacted.
// With Recursive(true) it descends into nested maps and into slices
// whose elements are maps; other values pass through as-is.
func Dict(m map[string]interface{}, opts ...Option) map[string]interface{} {
	if m == nil {
		return nil
	}
	o := buildOptions(DefaultSensitiveKeys, opts)
	return sanitizeMap(m, o)
}

func sanitizeMap(m map[string]interface{}, o *options) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if o.sensitive(k) {
			out[k] = o.redaction
			continue
		}
		if o.recursive {
			out[k] = sanitizeValue(v, o)
		} else {
			out[k] = v
		}
	}
	return out
}

func sanitizeValue(v interface{}, o *options) interface{} {
	switch tv := v.(type) {
	case map[string]interface{}:
		return sanitizeMap(tv, o)
	case map[string]string:
		out := make(map[string]string, len(tv))
		for k, s := range tv {
			if o.sensitive(k) {
				out[k] = o.redaction
			} else {
				out[k] = s
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, item := range tv {
			out[i] = sanitizeValue(item, o)
		}
		return out
	case []map[string]interface{}:
		out := make([]map[string]interface{}, len(tv))
		for i, item := range tv {
			out[i] = sanitizeMap(item, o)
		}
		return out
	default:
		return v
	}
}
