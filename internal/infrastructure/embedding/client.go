package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pureskin/dupefinder/internal/domain"
)

const (
	defaultBatchSize = 32
	defaultTimeout   = 30 * time.Second
)

// Config holds the embedding service connection settings
type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	Dimension         int
	BatchSize         int
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client calls an OpenAI-compatible embedding endpoint and returns
// unit-length vectors for ingredient texts.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	dimension   int
	batchSize   int
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new embedding API client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		// Local embedding servers comfortably sustain a few requests per second
		cfg.RequestsPerSecond = 5
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		dimension:   cfg.Dimension,
		batchSize:   cfg.BatchSize,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 10), // burst of 10 requests
		logger:      logger,
	}
}

// Model returns the embedding model tag
func (c *Client) Model() string {
	return c.model
}

// Dimension returns the configured vector dimension
func (c *Client) Dimension() int {
	return c.dimension
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// EmbedOne encodes a single text
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", domain.ErrProviderUnavailable)
	}
	return vectors[0], nil
}

// EmbedBatch encodes texts in request batches and returns one unit-length
// vector per input, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		chunk, err := c.embedChunk(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, chunk...)
	}

	return vectors, nil
}

// embedChunk sends one embeddings request, retrying transient failures
func (c *Client) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody, err := json.Marshal(embedRequest{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/embeddings", c.baseURL)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL, reqBody)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("Embedding request failed")
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Retry on rate limiting and server errors
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			c.logger.Warn().Int("attempt", attempt).Int("status", resp.StatusCode).Msg("Embedding API error")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiResp embedResponse
			if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Error != nil {
				return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, apiResp.Error.Message)
			}
			return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
		}

		var apiResp embedResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if apiResp.Error != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, apiResp.Error.Message)
		}
		if len(apiResp.Data) != len(texts) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrProviderUnavailable, len(apiResp.Data), len(texts))
		}

		// Reassemble in input order; the API may return items out of order
		vectors := make([][]float32, len(texts))
		for _, item := range apiResp.Data {
			if item.Index < 0 || item.Index >= len(vectors) {
				return nil, fmt.Errorf("%w: invalid embedding index %d", domain.ErrProviderUnavailable, item.Index)
			}
			vectors[item.Index] = item.Embedding
		}

		for i, vec := range vectors {
			if vec == nil {
				return nil, fmt.Errorf("%w: missing embedding for input %d", domain.ErrProviderUnavailable, i)
			}
			if c.dimension > 0 && len(vec) != c.dimension {
				return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(vec), c.dimension)
			}
			normalizeL2(vec)
		}

		return vectors, nil
	}

	return nil, lastErr
}

// doRequest executes an HTTP POST request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "dupefinder/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	return resp, nil
}

// normalizeL2 scales a vector in place to unit length. Vectors from the
// ranking index must satisfy this regardless of what the server returns.
func normalizeL2(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
