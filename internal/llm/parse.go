package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var categoryPattern = regexp.MustCompile(`\{\s*"category"\s*:\s*"([A-Za-z]+)"\s*\}`)

// DecodeCategory reads the category field of a reply that is a JSON object.
// A missing or non-string field yields an empty string.
func DecodeCategory(text string) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return "", err
	}
	category, _ := obj["category"].(string)
	return category, nil
}

// ExtractCategory finds a {"category":"<word>"} object anywhere in free text
func ExtractCategory(text string) (string, bool) {
	m := categoryPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseCategory returns the raw category named in a model reply, or an empty
// string. The reply is decoded as JSON first and searched with a pattern only
// when decoding fails.
func ParseCategory(text string) string {
	text = strings.TrimSpace(text)

	category, err := DecodeCategory(text)
	if err == nil {
		return category
	}

	category, _ = ExtractCategory(text)
	return category
}
