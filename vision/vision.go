// Package vision implements the external vision transcription client: it
// sends an image with a fixed instruction prompt to a multimodal model and
// returns best-effort text. Any transport or service failure is reported as
// an error the caller treats as "unavailable"; the client never panics and
// never blocks past its deadline.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber is the contract the extraction pipeline consumes.
type Transcriber interface {
	Transcribe(ctx context.Context, image []byte) (string, error)
}

// instruction is the fixed prompt sent with every image. The model is asked
// for a verbatim transcription, not an interpretation.
const instruction = `Extract ALL text from this document image.
Include every heading, paragraph, list item, name, number and date you can read.
Return ONLY the extracted text, preserving the original structure.
If a passage is unclear, make your best guess and mark it with [?].`

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 1000
	defaultTimeout   = 60 * time.Second
)

// Client calls an OpenAI-compatible chat completion endpoint with vision
// support. The zero value is not usable; construct with New.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client, *openai.ClientConfig)

// WithModel overrides the vision model.
func WithModel(model string) Option {
	return func(c *Client, _ *openai.ClientConfig) { c.model = model }
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) Option {
	return func(c *Client, _ *openai.ClientConfig) { c.maxTokens = n }
}

// WithTimeout bounds each transcription call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client, _ *openai.ClientConfig) { c.timeout = d }
}

// WithBaseURL points the client at an alternative OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(_ *Client, cfg *openai.ClientConfig) { cfg.BaseURL = url }
}

// WithHTTPClient substitutes the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(_ *Client, cfg *openai.ClientConfig) { cfg.HTTPClient = hc }
}

// New constructs a vision client. The API key is required; everything else
// has defaults.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("vision: api key is required")
	}
	c := &Client{
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		timeout:   defaultTimeout,
	}
	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(c, &cfg)
	}
	c.api = openai.NewClientWithConfig(cfg)
	return c, nil
}

// Transcribe sends the image and returns the trimmed transcription. Image
// bytes must be an encoded PNG or JPEG.
func (c *Client) Transcribe(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("vision: empty image")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		http.DetectContentType(image),
		base64.StdEncoding.EncodeToString(image))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: instruction},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision: transcription request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("vision: response carried no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
