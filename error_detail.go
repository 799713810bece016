package dwjdbc

import (
	"encoding/json"
	"io"
	"strings"
)

// maxErrorDetailBytes bounds how much of an error body is read while
// looking for a human-readable message.
const maxErrorDetailBytes = 64 * 1024

// extractErrorDetail makes a best-effort attempt to pull a human-readable
// message out of an error response body. It never fails: an absent body,
// an unknown content type or a malformed payload all degrade to "" so the
// original HTTP status failure is what the caller sees. The body, when
// present, is always closed.
func extractErrorDetail(body io.ReadCloser, contentType string) string {
	if body == nil {
		return ""
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxErrorDetailBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}

	switch contentType {
	case "application/json", "application/sparql-results+json":
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return ""
		}
		for _, key := range []string{"message", "error", "detail"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	case "text/plain":
		return strings.TrimSpace(string(raw))
	default:
		return ""
	}
}
