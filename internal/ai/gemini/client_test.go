package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeCall struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	queue   []fakeCall
	calls   int
	configs []*genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.configs = append(f.configs, config)
	if f.calls >= len(f.queue) {
		return nil, errors.New("unexpected call")
	}
	call := f.queue[f.calls]
	f.calls++
	return call.resp, call.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestClient(models *fakeModels, maxRetries int) *Client {
	return &Client{
		models:     models,
		model:      "gemini-test",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func TestGenerateTextRetriesOnTemporaryError(t *testing.T) {
	originalWait := wait
	wait = func(context.Context, time.Duration) error { return nil }
	defer func() { wait = originalWait }()

	models := &fakeModels{queue: []fakeCall{
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
		{resp: textResponse("retry ok")},
	}}
	c := newTestClient(models, 2)

	output, err := c.GenerateText(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}

	for _, config := range models.configs {
		if config == nil || config.SystemInstruction == nil {
			t.Fatal("expected system instruction to be set")
		}
		if got := config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
	}
}

func TestGenerateTextStopsAfterRetriesExhausted(t *testing.T) {
	originalWait := wait
	wait = func(context.Context, time.Duration) error { return nil }
	defer func() { wait = originalWait }()

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models := &fakeModels{queue: []fakeCall{{err: tempErr}, {err: tempErr}}}
	c := newTestClient(models, 2)

	if _, err := c.GenerateText(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
}

func TestGenerateTextDoesNotRetryClientErrors(t *testing.T) {
	models := &fakeModels{queue: []fakeCall{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
	}}
	c := newTestClient(models, 3)

	if _, err := c.GenerateText(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for client failure")
	}
	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestGenerateTextStopsBackoffWhenContextCancelled(t *testing.T) {
	models := &fakeModels{queue: []fakeCall{
		{err: genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}},
		{resp: textResponse("never reached")},
	}}
	c := newTestClient(models, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GenerateText(ctx, "sys", "msg")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if models.calls != 1 {
		t.Fatalf("expected a single attempt before the backoff aborted, got %d", models.calls)
	}
}

func TestGenerateTextRejectsEmptyPrompt(t *testing.T) {
	c := newTestClient(&fakeModels{}, 1)
	if _, err := c.GenerateText(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestGenerateTextEmptyResponse(t *testing.T) {
	models := &fakeModels{queue: []fakeCall{{resp: &genai.GenerateContentResponse{}}}}
	c := newTestClient(models, 1)

	if _, err := c.GenerateText(context.Background(), "", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestAnalyzeImageRequiresData(t *testing.T) {
	c := newTestClient(&fakeModels{}, 1)
	if _, err := c.AnalyzeImage(context.Background(), "describe", "image/png", nil); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestTranscribeRequiresAudio(t *testing.T) {
	c := newTestClient(&fakeModels{}, 1)
	if _, err := c.Transcribe(context.Background(), "audio/wav", nil); err == nil {
		t.Fatal("expected error for empty audio")
	}
}

func TestCollectTextJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: " first "}, {Text: ""}}}},
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "second"}}}},
		},
	}
	if got := collectText(resp); got != "first\nsecond" {
		t.Fatalf("collectText = %q", got)
	}
}
