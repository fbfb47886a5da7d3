package sanitize

import "strings"

// MaxDepth caps recursion when walking untrusted values. Subtrees below the
// cap are replaced with DepthSentinel instead of being processed.
const MaxDepth = 5

// DepthSentinel replaces subtrees deeper than MaxDepth.
const DepthSentinel = "[Max depth reached]"

// RedactedMarker replaces values whose key matches the sensitive deny-list.
const RedactedMarker = "[REDACTED]"

// sensitiveFields are key substrings that must never be logged.
var sensitiveFields = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"cookie",
	"creditcard",
	"cvv",
	"ssn",
	"apikey",
	"accesstoken",
	"refreshtoken",
}

// Clean recursively normalizes a decoded JSON value: strings have embedded
// NUL bytes stripped and surrounding whitespace trimmed, containers are
// rebuilt element-wise, other scalars pass through unchanged. Clean is
// idempotent for values within the depth cap.
func Clean(v any) any {
	return clean(v, 0)
}

func clean(v any, depth int) any {
	if depth > MaxDepth {
		return DepthSentinel
	}
	switch val := v.(type) {
	case string:
		return CleanString(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = clean(item, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = clean(item, depth+1)
		}
		return out
	default:
		return v
	}
}

// CleanString strips NUL bytes and trims surrounding whitespace.
func CleanString(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

// Redact walks a value the same way Clean does, replacing any map entry
// whose key contains a sensitive field name (case-insensitive) with
// RedactedMarker. Used before logging errors and request metadata.
func Redact(v any) any {
	return redact(v, 0)
}

func redact(v any, depth int) any {
	if depth > MaxDepth {
		return DepthSentinel
	}
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if IsSensitiveKey(k) {
				out[k] = RedactedMarker
				continue
			}
			out[k] = redact(item, depth+1)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if IsSensitiveKey(k) {
				out[k] = RedactedMarker
				continue
			}
			out[k] = item
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redact(item, depth+1)
		}
		return out
	default:
		return v
	}
}

// IsSensitiveKey reports whether a field name matches the deny-list by
// case-insensitive substring. Separators are ignored so that "api-key",
// "api_key" and "apiKey" all match.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	lower = strings.ReplaceAll(lower, "-", "")
	lower = strings.ReplaceAll(lower, "_", "")
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
