package ports

import (
	"context"

	"github.com/mikey/llm-mail-classifier/internal/core"
)

// EmailFilter defines the interface for front ends that receive mail
type EmailFilter interface {
	// ProcessEmail classifies an email and returns the result
	ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
