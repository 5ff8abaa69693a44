package gemini

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
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"

	defaultConfidence = 0.82
)

func init() {
	extractor.RegisterProvider(providerName, func(cfg *config.ProviderConfig) (port.ModelExtractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.ModelExtractor using Google's Gemini API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a Gemini-based prescription extractor.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	return newExtractor(cfg, "")
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ProviderConfig, endpoint string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
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
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"text": prompt + "\n\n" + extractor.AnalysisInstruction,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": input.ContentType,
							"data":      encoded,
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  4096,
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
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extractor.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	rec, strict, err := extractor.DecodeRecord(apiResp.Candidates[0].Content.Parts[0].Text)
	if errors.Is(err, extractor.ErrNoJSON) {
		log.Printf("gemini.Extractor: no JSON in response, returning empty record")
		rec, strict = extractor.EmptyRecord(), true
	} else if err != nil {
		return nil, err
	}
	if !strict {
		log.Printf("gemini.Extractor: response did not match schema, using best-effort coercion")
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
