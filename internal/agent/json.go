package agent

import (
	"encoding/json"
	"strings"
)

// extractJSON pulls the first JSON object out of model output that may be
// wrapped in markdown fences or surrounded by commentary. When no complete
// object decodes, the span from the first '{' to the last '}' is returned.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return strings.TrimSpace(text)
	}

	var obj json.RawMessage
	if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&obj); err == nil {
		return string(obj)
	}

	if end := strings.LastIndex(text, "}"); end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
