package filter

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/utils"
	"go.uber.org/zap"
)

// CliFilter implements a command-line interface for email classification
type CliFilter struct {
	service *core.ClassificationService
	logger  *zap.Logger
	out     io.Writer
	verbose bool
}

// NewCliFilter creates a new CLI filter writing its report to stdout
func NewCliFilter(service *core.ClassificationService, logger *zap.Logger, verbose bool) (*CliFilter, error) {
	return &CliFilter{
		service: service,
		logger:  logger,
		out:     os.Stdout,
		verbose: verbose,
	}, nil
}

// SetOutput redirects the report
func (f *CliFilter) SetOutput(w io.Writer) {
	f.out = w
}

// ProcessEmail classifies an email and displays the result
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.From))

	fmt.Fprintf(f.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(f.out, "From: %s\n", email.From)
	fmt.Fprintf(f.out, "To: %s\n", email.To)
	fmt.Fprintf(f.out, "Subject: %s\n", email.Subject)
	fmt.Fprintf(f.out, "Body length: %d bytes\n", len(email.Body))

	if f.verbose {
		preview := utils.FirstChars(email.Body, 500)
		if len(preview) < len(email.Body) {
			preview += "..."
		}
		fmt.Fprintf(f.out, "\nBody preview:\n%s\n", preview)
	}

	startTime := time.Now()
	result := f.service.ClassifyEmail(ctx, email)
	duration := time.Since(startTime)

	fmt.Fprintf(f.out, "\n=== Result ===\n")
	fmt.Fprintf(f.out, "Category: %s (%s)\n", result.Category, result.Category.Label())
	fmt.Fprintf(f.out, "Source: %s\n", result.Source)
	if result.ModelUsed != "" {
		fmt.Fprintf(f.out, "Model used: %s\n", result.ModelUsed)
	}
	if result.Attempts > 0 {
		fmt.Fprintf(f.out, "Attempts: %d\n", result.Attempts)
	}
	if result.Rule != nil {
		fmt.Fprintf(f.out, "Rule: %s\n", result.Rule.Rule)
		if result.Rule.Term != "" {
			fmt.Fprintf(f.out, "Matched: %q in %s\n", result.Rule.Term, result.Rule.Field)
		}
	}
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
