package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/mikey/llm-mail-classifier/internal/core"
	"go.uber.org/zap"
)

// Generator sends prompts to the Ollama generate endpoint
type Generator struct {
	endpoint   string
	modelName  string
	httpClient *http.Client
	logger     *zap.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.StatusCode, e.Body)
}

// Endpoint returns the generate URL for a host and port
func Endpoint(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/api/generate"
}

// NewGenerator creates a new Ollama generator. A nil httpClient uses
// http.DefaultClient; per-request deadlines come from the context.
func NewGenerator(endpoint, modelName string, httpClient *http.Client, logger *zap.Logger) *Generator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Generator{
		endpoint:   endpoint,
		modelName:  modelName,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ModelName returns the configured model
func (g *Generator) ModelName() string {
	return g.modelName
}

// Generate requests a single non-streamed completion
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  g.modelName,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: undecodable ollama envelope: %v", core.ErrInvalidOutput, err)
	}

	g.logger.Debug("Ollama response received",
		zap.String("model", g.modelName),
		zap.Int("bytes", len(body)))

	return out.Response, nil
}
