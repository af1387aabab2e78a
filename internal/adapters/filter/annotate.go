package filter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/mikey/llm-mail-classifier/internal/core"
)

// HeaderNames are the headers written onto a classified message
type HeaderNames struct {
	Category string
	Source   string
}

// Annotate rewrites the header block of a raw message with the category and
// its source. With modifySubject the category prefix is prepended to the
// subject unless it is already there. The body is copied untouched.
func Annotate(raw []byte, result *core.ClassificationResult, names HeaderNames, modifySubject bool) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(raw))
	th, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}
	h := mail.Header{Header: message.Header{Header: th}}

	if names.Category != "" {
		h.Set(names.Category, result.Category.String())
	}
	if names.Source != "" {
		h.Set(names.Source, sourceValue(result))
	}

	if modifySubject {
		prefix := result.Category.Prefix()
		subject, err := h.Subject()
		if err != nil {
			subject = h.Get("Subject")
		}
		if !strings.HasPrefix(subject, prefix) {
			h.SetSubject(prefix + subject)
		}
	}

	var out bytes.Buffer
	if err := textproto.WriteHeader(&out, h.Header.Header); err != nil {
		return nil, fmt.Errorf("failed to write message header: %w", err)
	}
	if _, err := io.Copy(&out, br); err != nil {
		return nil, fmt.Errorf("failed to copy message body: %w", err)
	}
	return out.Bytes(), nil
}

// sourceValue describes which stage decided, e.g. "model; model=mistral:latest"
// or "rules; rule=security; field=subject; term=login"
func sourceValue(result *core.ClassificationResult) string {
	parts := []string{string(result.Source)}
	if result.ModelUsed != "" {
		parts = append(parts, "model="+result.ModelUsed)
	}
	if result.Rule != nil {
		parts = append(parts, "rule="+result.Rule.Rule)
		if result.Rule.Field != "" {
			parts = append(parts, "field="+result.Rule.Field)
		}
		if result.Rule.Term != "" {
			parts = append(parts, "term="+result.Rule.Term)
		}
	}
	return strings.Join(parts, "; ")
}
