// Package mailparse turns raw RFC 5322 messages into core.Email values.
package mailparse

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/llm-mail-classifier/internal/core"
)

// Envelope carries the SMTP envelope, used when headers are missing
type Envelope struct {
	From       string
	Recipients []string
}

// Parse reads a message and extracts the fields used for classification.
// From keeps the display name of the From header, falling back to the
// envelope sender. The body is the first text/plain part of a multipart
// message, or the whole decoded body of a single part message.
func Parse(r io.Reader, env Envelope) (*core.Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	defer mr.Close()

	email := &core.Email{
		Headers: mr.Header.Map(),
	}

	email.From, err = mr.Header.Text("From")
	if err != nil {
		email.From = mr.Header.Get("From")
	}
	if strings.TrimSpace(email.From) == "" {
		email.From = env.From
	}

	email.Subject, err = mr.Header.Subject()
	if err != nil {
		email.Subject = mr.Header.Get("Subject")
	}

	if addrs, err := mr.Header.AddressList("To"); err == nil {
		for _, addr := range addrs {
			email.To = append(email.To, addr.Address)
		}
	}
	if len(email.To) == 0 {
		email.To = env.Recipients
	}

	email.Body, err = plainText(mr)
	if err != nil {
		return nil, err
	}

	return email, nil
}

func plainText(mr *mail.Reader) (string, error) {
	mediaType, _, _ := mr.Header.ContentType()
	multipart := strings.HasPrefix(mediaType, "multipart/")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to read message part: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		if multipart && contentType != "text/plain" {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil && !message.IsUnknownCharset(err) {
			return "", fmt.Errorf("failed to read message body: %w", err)
		}
		return strings.ToValidUTF8(string(body), ""), nil
	}
}
