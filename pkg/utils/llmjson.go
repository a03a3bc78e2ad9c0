package utils

import "strings"

// ExtractJSON pulls a JSON object out of raw LLM output.
// Models sometimes wrap their JSON in markdown code fences or add prose
// around it, so we strip fences first and then scan for the outermost
// brace pair. Returns "" when no object can be located.
func ExtractJSON(response string) string {
	cleaned := StripMarkdownFences(response)

	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return cleaned[startIdx : endIdx+1]
}

// StripMarkdownFences removes a surrounding ```json ... ``` (or plain ```)
// block if present. Content outside the fence is discarded.
func StripMarkdownFences(raw string) string {
	raw = strings.TrimSpace(raw)

	if idx := strings.Index(raw, "```json"); idx != -1 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	if idx := strings.Index(raw, "```"); idx != -1 {
		rest := raw[idx+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	return raw
}
