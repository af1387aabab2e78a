package senderlist

import (
	"strings"

	"github.com/mikey/llm-mail-classifier/internal/utils"
	"go.uber.org/zap"
)

// List matches sender addresses against a set of address fragments
type List struct {
	terms  []string
	logger *zap.Logger
}

// New creates a new sender list. Terms are lower-cased, trimmed and
// de-duplicated; their order is kept.
func New(terms []string, logger *zap.Logger) *List {
	seen := make(map[string]struct{}, len(terms))
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		term = utils.Lower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		normalized = append(normalized, term)
	}

	return &List{
		terms:  normalized,
		logger: logger,
	}
}

// Match reports the first term contained in the sender, compared
// case-insensitively. The sender may include a display name.
func (l *List) Match(from string) (string, bool) {
	if len(l.terms) == 0 {
		return "", false
	}

	sender := utils.Lower(from)
	for _, term := range l.terms {
		if strings.Contains(sender, term) {
			if l.logger != nil {
				l.logger.Debug("Sender matched list",
					zap.String("term", term),
					zap.String("sender", from))
			}
			return term, true
		}
	}

	return "", false
}
