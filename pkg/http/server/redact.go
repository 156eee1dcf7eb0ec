package httpserver

import (
	"net/http"
	"strings"
)

const redacted = "[REDACTED]"

var sensitiveHeaders = map[string]struct{}{
	"Authorization": {},
	"Cookie":        {},
	"Set-Cookie":    {},
}

var sensitiveFields = map[string]struct{}{
	"password":     {},
	"accesstoken":  {},
	"refreshtoken": {},
}

func transformHeader(headers http.Header) map[string]any {
	header := make(map[string]any)
	for key, values := range headers {
		if _, ok := sensitiveHeaders[http.CanonicalHeaderKey(key)]; ok {
			header[key] = redacted
			continue
		}
		if len(values) == 1 {
			header[key] = headers.Get(key)
		} else {
			header[key] = values
		}
	}
	return header
}

// redactPayload walks a decoded JSON value and masks credential fields at any depth.
func redactPayload(payload any) any {
	switch value := payload.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, v := range value {
			if _, ok := sensitiveFields[strings.ToLower(k)]; ok {
				out[k] = redacted
				continue
			}
			out[k] = redactPayload(v)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, v := range value {
			out[i] = redactPayload(v)
		}
		return out
	default:
		return payload
	}
}
