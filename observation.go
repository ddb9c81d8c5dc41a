package reagent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// truncationMarker terminates any observation that was cut to fit the
// observation limit.
const truncationMarker = "... [truncated]"

// FormatObservation renders a tool result for the scratchpad. Strings pass
// through untouched; everything else is JSON-encoded. Values that cannot be
// encoded degrade to their fmt representation rather than failing the run.
func FormatObservation(output any) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// TruncateText caps text at limit characters, replacing the tail with a
// truncation marker so the model knows data is missing. The returned text
// including the marker never exceeds limit. Idempotent: already-truncated
// text passes through unchanged, and a limit too small for the marker
// returns a plain hard cut.
func TruncateText(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	if strings.HasSuffix(text, truncationMarker) {
		return text
	}
	if limit <= len(truncationMarker) {
		return text[:limit]
	}
	return text[:limit-len(truncationMarker)] + truncationMarker
}
