// Package translit converts Latin-script text to Devanagari through a
// third-party input-tools API, with a local dictionary fallback when the
// service is unreachable.
package translit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultChunkSize = 50
	sentenceJoiner   = "। "
)

// Client calls the transliteration API. The zero value is not usable;
// construct with NewClient.
type Client struct {
	apiURL    string
	chunkSize int
	http      *http.Client
	logger    *zap.Logger
}

// Config controls the remote endpoint and chunking behaviour.
type Config struct {
	APIURL    string
	Timeout   time.Duration
	ChunkSize int
}

// NewClient builds a transliteration client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		apiURL:    cfg.APIURL,
		chunkSize: cfg.ChunkSize,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

// Translate converts a single chunk of text and propagates any failure to
// the caller. This is the interactive contract used by admin-side
// "translate" buttons, where the operator needs to see that the service
// is down.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if word, ok := Lookup(text); ok {
		return word, nil
	}
	return c.request(ctx, text)
}

// TranslateText converts arbitrary multi-sentence text. Input is split
// into chunks no longer than the configured limit, each chunk is
// translated independently, and failures degrade per chunk: first the
// static dictionary is consulted, then the original chunk is echoed
// unchanged. TranslateText never returns an error.
func (c *Client) TranslateText(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	chunks := splitChunks(text, c.chunkSize)
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := c.request(ctx, chunk)
		if err != nil {
			if word, ok := Lookup(chunk); ok {
				translated = word
			} else {
				c.logger.Debug("transliteration chunk failed, echoing input", zap.Error(err))
				translated = chunk
			}
		}
		out = append(out, translated)
	}
	if len(out) == 1 {
		return out[0]
	}
	return strings.Join(out, sentenceJoiner)
}

// request performs one input-tools call. The API answers with a nested
// JSON array: ["SUCCESS",[["input",["output",...],...]]].
func (c *Client) request(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("itc", "mr-t-i0-und")
	params.Set("num", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build translit request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call translit api: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translit api status %d", resp.StatusCode)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translit response: %w", err)
	}
	if len(payload) < 2 {
		return "", fmt.Errorf("translit response too short")
	}

	var status string
	if err := json.Unmarshal(payload[0], &status); err != nil || status != "SUCCESS" {
		return "", fmt.Errorf("translit api returned status %q", status)
	}

	var results [][]json.RawMessage
	if err := json.Unmarshal(payload[1], &results); err != nil {
		return "", fmt.Errorf("decode translit results: %w", err)
	}
	if len(results) == 0 || len(results[0]) < 2 {
		return "", fmt.Errorf("translit response missing candidates")
	}

	var candidates []string
	if err := json.Unmarshal(results[0][1], &candidates); err != nil {
		return "", fmt.Errorf("decode translit candidates: %w", err)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("translit response empty candidates")
	}

	return candidates[0], nil
}

// splitChunks breaks text into pieces no longer than limit runes,
// preferring word boundaries so the API sees whole words.
func splitChunks(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		if len([]rune(current))+1+len([]rune(word)) <= limit {
			current += " " + word
			continue
		}
		chunks = append(chunks, current)
		current = word
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
