package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result carries the parsed value or the synthesized fallback. Failed marks
// which one the caller got; Reason explains a fallback.
type Result[T any] struct {
	Value  T
	Failed bool
	Reason string
}

// JSON extracts and unmarshals the first JSON payload embedded in a model
// response. Models wrap payloads in prose and markdown fences, so the raw
// response is cleaned before unmarshalling.
func JSON[T any](response string) (T, error) {
	var value T

	payload := extractPayload(response)
	if payload == "" {
		return value, fmt.Errorf("no JSON found in response")
	}

	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return value, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	return value, nil
}

// JSONWithFallback never fails: when extraction or unmarshalling breaks, it
// synthesizes a value via the fallback constructor and records the reason.
func JSONWithFallback[T any](response string, fallback func(reason string) T) Result[T] {
	value, err := JSON[T](response)
	if err != nil {
		return Result[T]{
			Value:  fallback(err.Error()),
			Failed: true,
			Reason: err.Error(),
		}
	}
	return Result[T]{Value: value}
}

// extractPayload slices the outermost JSON object or array out of the
// response, dropping surrounding prose and markdown fences.
func extractPayload(response string) string {
	cleaned := stripFences(response)

	objStart := strings.Index(cleaned, "{")
	arrStart := strings.Index(cleaned, "[")

	// Prefer whichever opens first.
	if objStart == -1 && arrStart == -1 {
		return ""
	}
	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		end := strings.LastIndex(cleaned, "}")
		if end <= objStart {
			return ""
		}
		return cleaned[objStart : end+1]
	}

	end := strings.LastIndex(cleaned, "]")
	if end <= arrStart {
		return ""
	}
	return cleaned[arrStart : end+1]
}

func stripFences(response string) string {
	cleaned := strings.TrimSpace(response)
	if !strings.Contains(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.ReplaceAll(cleaned, "```json", "```")
	parts := strings.Split(cleaned, "```")
	// Fenced block content sits at the odd indices.
	for i := 1; i < len(parts); i += 2 {
		inner := strings.TrimSpace(parts[i])
		if strings.HasPrefix(inner, "{") || strings.HasPrefix(inner, "[") {
			return inner
		}
	}
	return cleaned
}
