package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/prompt"
	"github.com/mikey/llm-mail-classifier/internal/retry"
	"github.com/mikey/llm-mail-classifier/internal/utils"
	"go.uber.org/zap/zaptest"
)

type reply struct {
	text string
	err  error
}

// fakeGenerator returns scripted replies; the last one repeats
type fakeGenerator struct {
	mu      sync.Mutex
	replies []reply
	calls   int
	prompts []string
	block   bool
}

func (g *fakeGenerator) Generate(ctx context.Context, p string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.prompts = append(g.prompts, p)
	i := g.calls - 1
	if i >= len(g.replies) {
		i = len(g.replies) - 1
	}
	r := g.replies[i]
	block := g.block
	g.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.text, r.err
}

func (g *fakeGenerator) ModelName() string { return "fake-model" }

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func testOptions() Options {
	return Options{
		Timeout: time.Second,
		Retry:   retry.Config{MaxRetries: 2, Delay: time.Millisecond},
	}
}

func newTestClient(t *testing.T, gen Generator, opts Options) *Client {
	logger := zaptest.NewLogger(t)
	builder := prompt.NewBuilder(0, utils.NewTextProcessor(logger))
	return NewClient(gen, builder, opts, logger)
}

var testEmail = &core.Email{
	From:    "Alice <alice@example.com>",
	Subject: "Team offsite agenda",
	Body:    "Agenda attached",
}

func TestClassifyEmail_Success(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{text: `{"category":"promotions"}`}}}
	c := newTestClient(t, gen, testOptions())

	result, err := c.ClassifyEmail(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Category != core.CategoryPromotion {
		t.Errorf("Expected normalized Promotion, got %s", result.Category)
	}
	if result.Source != core.SourceModel {
		t.Errorf("Expected source model, got %s", result.Source)
	}
	if result.ModelUsed != "fake-model" {
		t.Errorf("Expected model name, got %q", result.ModelUsed)
	}
	if result.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", result.Attempts)
	}
	if !strings.Contains(gen.prompts[0], "Subject: Team offsite agenda") {
		t.Error("Expected the prompt to carry the subject")
	}
}

func TestClassifyEmail_RetriesTransientErrors(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{
		{err: errors.New("connection refused")},
		{err: errors.New("connection reset")},
		{text: `{"category":"Work"}`},
	}}
	c := newTestClient(t, gen, testOptions())

	result, err := c.ClassifyEmail(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Category != core.CategoryWork {
		t.Errorf("Expected Work, got %s", result.Category)
	}
	if gen.callCount() != 3 || result.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d calls and %d attempts", gen.callCount(), result.Attempts)
	}
}

func TestClassifyEmail_Unavailable(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{err: errors.New("connection refused")}}}
	c := newTestClient(t, gen, testOptions())

	_, err := c.ClassifyEmail(context.Background(), testEmail)
	if !errors.Is(err, core.ErrModelUnavailable) {
		t.Fatalf("Expected ErrModelUnavailable, got %v", err)
	}
	if errors.Is(err, core.ErrInvalidOutput) {
		t.Error("Did not expect ErrInvalidOutput")
	}
	if gen.callCount() != 3 {
		t.Errorf("Expected 1 request plus 2 retries, got %d calls", gen.callCount())
	}
}

func TestClassifyEmail_InvalidOutputIsNotRetried(t *testing.T) {
	tests := []struct {
		name  string
		reply reply
	}{
		{name: "unparseable text", reply: reply{text: "I think this is work"}},
		{name: "unknown category", reply: reply{text: `{"category":"Spam"}`}},
		{name: "garbled envelope", reply: reply{err: fmt.Errorf("%w: bad envelope", core.ErrInvalidOutput)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{replies: []reply{tt.reply}}
			c := newTestClient(t, gen, testOptions())

			_, err := c.ClassifyEmail(context.Background(), testEmail)
			if !errors.Is(err, core.ErrInvalidOutput) {
				t.Fatalf("Expected ErrInvalidOutput, got %v", err)
			}
			if gen.callCount() != 1 {
				t.Errorf("Expected exactly 1 request, got %d", gen.callCount())
			}
		})
	}
}

func TestClassifyEmail_Timeout(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{}}, block: true}
	opts := testOptions()
	opts.Timeout = 20 * time.Millisecond
	opts.Retry.MaxRetries = 1
	c := newTestClient(t, gen, opts)

	start := time.Now()
	_, err := c.ClassifyEmail(context.Background(), testEmail)
	if !errors.Is(err, core.ErrModelUnavailable) {
		t.Fatalf("Expected ErrModelUnavailable, got %v", err)
	}
	if gen.callCount() != 2 {
		t.Errorf("Expected 2 timed out requests, got %d", gen.callCount())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Expected the per request timeout to bound the call, took %v", elapsed)
	}
}

func TestClassifyEmail_DefaultOptionsKeepFullRetryBudget(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{err: errors.New("connection refused")}}}
	opts := testOptions()
	opts.Breaker = DefaultOptions().Breaker
	c := newTestClient(t, gen, opts)

	for i := 1; i <= 3; i++ {
		before := gen.callCount()
		_, err := c.ClassifyEmail(context.Background(), testEmail)
		if !errors.Is(err, core.ErrModelUnavailable) {
			t.Fatalf("classification %d: expected ErrModelUnavailable, got %v", i, err)
		}
		if calls := gen.callCount() - before; calls != 3 {
			t.Errorf("classification %d: expected 3 backend calls, got %d", i, calls)
		}
	}
}

func TestClassifyEmail_BreakerCountsClassifications(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{err: errors.New("connection refused")}}}
	opts := testOptions()
	opts.Breaker = BreakerConfig{Enabled: true, MaxFailures: 2, OpenTimeout: time.Minute}
	c := newTestClient(t, gen, opts)

	// Two unavailable classifications, each with all 3 attempts
	for i := 0; i < 2; i++ {
		if _, err := c.ClassifyEmail(context.Background(), testEmail); !errors.Is(err, core.ErrModelUnavailable) {
			t.Fatalf("Expected ErrModelUnavailable, got %v", err)
		}
	}
	if gen.callCount() != 6 {
		t.Fatalf("Expected 6 backend calls before the breaker opens, got %d", gen.callCount())
	}

	_, err := c.ClassifyEmail(context.Background(), testEmail)
	if !errors.Is(err, core.ErrModelUnavailable) {
		t.Fatalf("Expected ErrModelUnavailable while open, got %v", err)
	}
	if gen.callCount() != 6 {
		t.Errorf("Expected the open breaker to skip the backend, got %d calls", gen.callCount())
	}
}

func TestClassifyEmail_InvalidOutputDoesNotTripBreaker(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{
		{text: "nonsense"},
		{text: "nonsense"},
		{text: `{"category":"Update"}`},
	}}
	opts := testOptions()
	opts.Breaker = BreakerConfig{Enabled: true, MaxFailures: 1, OpenTimeout: time.Minute}
	c := newTestClient(t, gen, opts)

	c.ClassifyEmail(context.Background(), testEmail)
	c.ClassifyEmail(context.Background(), testEmail)
	result, err := c.ClassifyEmail(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Category != core.CategoryUpdate {
		t.Errorf("Expected Update, got %s", result.Category)
	}
}
