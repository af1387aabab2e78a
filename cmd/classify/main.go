package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mikey/llm-mail-classifier/internal/di"
	"github.com/mikey/llm-mail-classifier/internal/factory"
	"github.com/mikey/llm-mail-classifier/internal/mailparse"
	"github.com/mikey/llm-mail-classifier/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run classifies each message file in order, or a single message from stdin
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	emailFilter ports.EmailFilter,
	llmFactory *factory.LLMFactory,
) error {
	defer logger.Sync()
	defer func() {
		if err := llmFactory.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}()

	ctx := context.Background()

	if len(flags.Files) == 0 {
		logger.Info("Reading email from stdin")
		return classify(ctx, emailFilter, os.Stdin)
	}

	failed := 0
	for _, path := range flags.Files {
		logger.Info("Reading email from file", zap.String("file", path))
		if err := classifyFile(ctx, emailFilter, path); err != nil {
			logger.Error("Failed to classify email", zap.String("file", path), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d messages could not be read", failed, len(flags.Files))
	}
	return nil
}

func classifyFile(ctx context.Context, emailFilter ports.EmailFilter, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return classify(ctx, emailFilter, file)
}

func classify(ctx context.Context, emailFilter ports.EmailFilter, r io.Reader) error {
	email, err := mailparse.Parse(r, mailparse.Envelope{})
	if err != nil {
		return err
	}
	_, err = emailFilter.ProcessEmail(ctx, email)
	return err
}
