package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"rxlens/internal/config"
	"rxlens/internal/extractor"
	"rxlens/internal/port"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"

	defaultConfidence = 0.88
)

func init() {
	extractor.RegisterProvider(providerName, func(cfg *config.ProviderConfig) (port.ModelExtractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.ModelExtractor using the Anthropic Messages API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a Claude-based prescription extractor.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	return newExtractor(cfg, apiURL)
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ProviderConfig, endpoint string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Name() string { return providerName }

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	out, err := e.extract(ctx, input)
	if err != nil {
		return nil, extractor.NewExtractionError(providerName, err)
	}
	return out, nil
}

func (e *Extractor) extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if err := checkContentType(input.ContentType); err != nil {
		return nil, err
	}
	start := time.Now()
	prompt := extractor.BuildPrompt(input.Prompts)
	encoded := base64.StdEncoding.EncodeToString(input.ImageBytes)

	reqBody := map[string]interface{}{
		"model":      e.model,
		"max_tokens": 4096,
		"system":     prompt,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": extractor.AnalysisInstruction,
					},
					{
						"type": "image",
						"source": map[string]interface{}{
							"type":       "base64",
							"media_type": input.ContentType,
							"data":       encoded,
						},
					},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extractor.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	var apiResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(apiResp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	rec, strict, err := extractor.DecodeRecord(apiResp.Content[0].Text)
	if errors.Is(err, extractor.ErrNoJSON) {
		// Claude sometimes answers in prose with no JSON at all; fall back
		// to a structurally-empty record instead of failing the attempt.
		log.Printf("claude.Extractor: no JSON in response, returning empty record")
		rec, strict = extractor.EmptyRecord(), true
	} else if err != nil {
		return nil, err
	}
	if !strict {
		log.Printf("claude.Extractor: response did not match schema, using best-effort coercion")
	}

	return &port.ExtractOutput{
		Record:           rec,
		ModelName:        providerName,
		Confidence:       defaultConfidence,
		ProcessingTimeMs: float64(time.Since(start)) / float64(time.Millisecond),
	}, nil
}

func checkContentType(contentType string) error {
	switch contentType {
	case "image/jpeg", "image/png":
		return nil
	}
	return fmt.Errorf("unsupported content type for extraction: %s", contentType)
}
