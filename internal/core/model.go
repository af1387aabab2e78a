package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Email represents an email message
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	Headers map[string][]string
}

// Fingerprint returns a stable digest of the fields that drive classification
func (e *Email) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(e.From))
	h.Write([]byte{0})
	h.Write([]byte(e.Subject))
	h.Write([]byte{0})
	h.Write([]byte(e.Body))
	return hex.EncodeToString(h.Sum(nil))
}

// Source identifies which stage of the pipeline produced a category
type Source string

const (
	SourceModel Source = "model"
	SourceRules Source = "rules"
	SourceCache Source = "cache"
)

// ClassificationResult represents the outcome of classifying one email
type ClassificationResult struct {
	Category   Category
	Source     Source
	ModelUsed  string
	Attempts   int
	Rule       *RuleMatch
	AnalyzedAt time.Time
}

// RuleMatch records which rule of the cascade decided the category
type RuleMatch struct {
	Category Category
	Rule     string
	Field    string
	Term     string
}

// CacheEntry is a model-derived category remembered for an email fingerprint
type CacheEntry struct {
	Key       string
	Category  Category
	ModelUsed string
	CreatedAt time.Time
	ExpiresAt time.Time
}
