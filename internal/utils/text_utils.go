package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// Lower lower-cases text for case-insensitive matching
func Lower(text string) string {
	return cases.Lower(language.Und).String(text)
}

// FirstChars returns at most n characters (runes) from the start of text
func FirstChars(text string, n int) string {
	if n < 0 {
		return text
	}
	if len(text) <= n {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}

// TruncateText truncates text to at most maxChars characters.
// A non-positive limit disables truncation.
func (tp *TextProcessor) TruncateText(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}

	truncated := FirstChars(text, maxChars)
	if len(truncated) < len(text) {
		tp.logger.Debug("Text truncated",
			zap.Int("original_size", utf8.RuneCountInString(text)),
			zap.Int("max_size", maxChars))
	}

	return truncated
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	// Drop invalid UTF-8 sequences
	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// ProcessText truncates and sanitizes text in one operation
func (tp *TextProcessor) ProcessText(text string, maxChars int) string {
	return tp.SanitizeUTF8(tp.TruncateText(text, maxChars))
}
