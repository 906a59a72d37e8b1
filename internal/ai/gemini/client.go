// Package gemini implements the model interfaces and the agent model
// client on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/nbnam/cv-agent/internal/logger"
	"github.com/nbnam/cv-agent/internal/utils"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3
)

var wait = utils.WaitFor

// modelCaller is the slice of the GenAI SDK the client depends on.
// genai.Client.Models satisfies it.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client talks to the Gemini API with retries on temporary failures.
type Client struct {
	models     modelCaller
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewClient creates a Client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		models:     client.Models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithFields(log, logger.ModelFields("gemini", model)...),
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// GenerateText sends the prompt under an optional system instruction
// and returns the textual response.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}
	return c.generate(ctx, genai.Text(prompt), configWithSystem(system))
}

// AnalyzeImage answers the prompt about the given image.
func (c *Client) AnalyzeImage(ctx context.Context, prompt, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data must not be empty")
	}
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		},
	}}
	return c.generate(ctx, contents, nil)
}

// Transcribe converts recorded audio into plain text.
func (c *Client) Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio data must not be empty")
	}
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: "Transcribe this recording verbatim. Return only the spoken words."},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
		},
	}}
	return c.generate(ctx, contents, nil)
}

func (c *Client) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	resp, err := c.call(ctx, contents, config)
	if err != nil {
		return "", err
	}

	output := collectText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

func (c *Client) call(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !temporary(err) || attempt == c.maxRetries {
			break
		}

		delay := time.Duration(attempt) * 2 * time.Second
		c.logger.Warn("temporary gemini failure, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if waitErr := wait(ctx, delay); waitErr != nil {
			return nil, waitErr
		}
	}

	return nil, fmt.Errorf("generate content: %w", lastErr)
}

// temporary reports whether the error is worth retrying: server-side
// failures and rate limiting.
func temporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
}

func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

func configWithSystem(system string) *genai.GenerateContentConfig {
	system = strings.TrimSpace(system)
	if system == "" {
		return nil
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}
}
