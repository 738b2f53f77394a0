// Package ai implements the captioning integration: a chat-completions call
// that drafts warm, sentimental journal prose from a photo or a rough text.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "gpt-4o"

// DefaultMaxTokens bounds a single caption.
const DefaultMaxTokens = 500

// ErrNoAPIKey is returned before any network I/O when no credential is
// configured.
var ErrNoAPIKey = errors.New("ai: captioning API key is not configured")

const imageSystemPrompt = "You are a warm, sentimental assistant helping a family " +
	"record their memories. Look at the photo and express the feelings and memories " +
	"of that moment beautifully and tenderly, emphasizing family, love, and precious " +
	"moments, in an emotional style."

const textSystemPrompt = "You are a warm, sentimental assistant helping a family " +
	"record their memories. Take what the user wrote and polish it into something " +
	"more emotional and beautiful, emphasizing family, love, and precious moments."

// Client calls an OpenAI-compatible chat-completions endpoint.
// There is no retry, no cancellation beyond ctx, and no timeout override
// beyond the transport defaults; a second concurrent call is the caller's
// problem to suppress.
type Client struct {
	oa        openai.Client
	model     string
	baseURL   string
	maxTokens int64
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the completion model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint
// (Azure, a local model, a test server).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithMaxTokens overrides the caption length bound.
func WithMaxTokens(n int64) Option {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// New creates a captioning client. An empty apiKey fails immediately with
// ErrNoAPIKey: credential presence gates availability, and the check must
// happen before any network I/O.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}

	c := &Client{model: DefaultModel, maxTokens: DefaultMaxTokens}
	for _, opt := range opts {
		opt(c)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(c.baseURL))
	}
	c.oa = openai.NewClient(reqOpts...)
	return c, nil
}

// CaptionImage drafts journal prose from an inlined image payload. image is
// either a full data URL or bare base64 JPEG content.
func (c *Client) CaptionImage(ctx context.Context, image, title string) (string, error) {
	imageURL := image
	if !strings.HasPrefix(imageURL, "data:") {
		imageURL = "data:image/jpeg;base64," + imageURL
	}

	instruction := "Look at this photo and write a warm, emotional memory entry about it, " +
		"two to three paragraphs long."
	if title != "" {
		instruction = fmt.Sprintf("The title of this photo is %q. ", title) + instruction
	}

	return c.complete(ctx, imageSystemPrompt, []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(instruction),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: imageURL,
		}),
	})
}

// PolishText rewrites user-supplied text into journal prose.
func (c *Client) PolishText(ctx context.Context, text, title string) (string, error) {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "Title: %q\n\n", title)
	}
	fmt.Fprintf(&sb, "Content: %q\n\n", text)
	sb.WriteString("Polish the above into a warmer, more emotional memory entry, " +
		"two to three paragraphs long.")

	return c.complete(ctx, textSystemPrompt, []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(sb.String()),
	})
}

func (c *Client) complete(ctx context.Context, system string, parts []openai.ChatCompletionContentPartUnionParam) (string, error) {
	resp, err := c.oa.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(parts),
		},
		MaxTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		// Transport and HTTP errors surface verbatim; callers display them.
		return "", fmt.Errorf("ai: caption request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("ai: caption request returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured completion model.
func (c *Client) Model() string {
	return c.model
}
