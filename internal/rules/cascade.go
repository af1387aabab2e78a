// Package rules implements the deterministic keyword cascade used when the
// model cannot classify an email.
package rules

import (
	"strings"

	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/senderlist"
	"github.com/mikey/llm-mail-classifier/internal/utils"
	"go.uber.org/zap"
)

// Field names reported in a RuleMatch
const (
	FieldSender  = "sender"
	FieldSubject = "subject"
	FieldBody    = "body"
)

// Body windows, in characters of the lower-cased body
const (
	wideBodyWindow   = 500
	narrowBodyWindow = 300
)

type field struct {
	name   string
	window int // leading body characters searched
}

var (
	subject    = field{name: FieldSubject}
	sender     = field{name: FieldSender}
	wideBody   = field{name: FieldBody, window: wideBodyWindow}
	narrowBody = field{name: FieldBody, window: narrowBodyWindow}
)

type rule struct {
	name     string
	category core.Category
	terms    []string
	fields   []field
}

// cascade is evaluated top to bottom; the blacklist check runs before all of it
var cascade = []rule{
	{name: "security", category: core.CategorySecurity, terms: securityTerms, fields: []field{subject, sender, wideBody}},
	{name: "opportunities", category: core.CategoryOpportunities, terms: opportunityTerms, fields: []field{subject, wideBody}},
	{name: "work", category: core.CategoryWork, terms: workTerms, fields: []field{subject, narrowBody}},
	{name: "personal", category: core.CategoryPersonal, terms: personalTerms, fields: []field{subject, narrowBody}},
	{name: "update", category: core.CategoryUpdate, terms: updateTerms, fields: []field{subject, narrowBody}},
	{name: "transaction", category: core.CategoryTransaction, terms: transactionTerms, fields: []field{subject, narrowBody}},
	{name: "promotion", category: core.CategoryPromotion, terms: promotionTerms, fields: []field{subject, sender, wideBody}},
}

// Cascade is the ordered rule-based classifier
type Cascade struct {
	blacklist *senderlist.List
	logger    *zap.Logger
}

// NewCascade creates a rule cascade. extraBlacklist is appended to the
// built-in sender blacklist.
func NewCascade(extraBlacklist []string, logger *zap.Logger) *Cascade {
	terms := make([]string, 0, len(Blacklist)+len(extraBlacklist))
	terms = append(terms, Blacklist...)
	terms = append(terms, extraBlacklist...)

	return &Cascade{
		blacklist: senderlist.New(terms, logger),
		logger:    logger,
	}
}

// envelope holds the lower-cased fields of one email
type envelope struct {
	sender  string
	subject string
	body    string
}

func (e *envelope) text(f field) string {
	switch f.name {
	case FieldSender:
		return e.sender
	case FieldSubject:
		return e.subject
	default:
		return utils.FirstChars(e.body, f.window)
	}
}

// Classify runs the cascade and returns the first matching rule.
// The result always carries a valid category.
func (c *Cascade) Classify(email *core.Email) core.RuleMatch {
	if term, ok := c.blacklist.Match(email.From); ok {
		c.logger.Debug("Blacklist sender match", zap.String("term", term))
		return core.RuleMatch{
			Category: core.CategoryPromotion,
			Rule:     "blacklist",
			Field:    FieldSender,
			Term:     term,
		}
	}

	env := &envelope{
		sender:  utils.Lower(email.From),
		subject: utils.Lower(email.Subject),
		body:    utils.Lower(email.Body),
	}

	for _, r := range cascade {
		if match, ok := r.evaluate(env); ok {
			c.logger.Debug("Keyword match",
				zap.String("rule", match.Rule),
				zap.String("field", match.Field),
				zap.String("term", match.Term))
			return match
		}
	}

	c.logger.Debug("No rule matched, using default category")
	return core.RuleMatch{Category: core.CategoryLowPriority, Rule: "default"}
}

func (r *rule) evaluate(env *envelope) (core.RuleMatch, bool) {
	texts := make([]string, len(r.fields))
	for i, f := range r.fields {
		texts[i] = env.text(f)
	}

	for _, term := range r.terms {
		for i, f := range r.fields {
			if strings.Contains(texts[i], term) {
				return core.RuleMatch{
					Category: r.category,
					Rule:     r.name,
					Field:    f.name,
					Term:     term,
				}, true
			}
		}
	}
	return core.RuleMatch{}, false
}
