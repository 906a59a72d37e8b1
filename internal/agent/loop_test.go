package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/nbnam/cv-agent/internal/session"
)

// scriptedModel replays a fixed sequence of turns and records the
// transcripts it was shown.
type scriptedModel struct {
	turns       []*Turn
	err         error
	calls       int
	transcripts [][]Message
}

func (m *scriptedModel) Converse(_ context.Context, _ string, msgs []Message, _ []*Descriptor) (*Turn, error) {
	m.transcripts = append(m.transcripts, append([]Message(nil), msgs...))
	if m.err != nil {
		return nil, m.err
	}
	if m.calls >= len(m.turns) {
		return &Turn{Text: "done"}, nil
	}
	turn := m.turns[m.calls]
	m.calls++
	return turn, nil
}

func echoRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	err := reg.Register(&Descriptor{
		Name:        "echo",
		Description: "echoes its input",
		Parameters:  []Parameter{{Name: "value", Description: "value to echo"}},
		Handler: func(_ context.Context, params map[string]string, _ *session.Context) (string, error) {
			return "echo: " + params["value"], nil
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func TestRunReturnsPlainAnswer(t *testing.T) {
	model := &scriptedModel{turns: []*Turn{{Text: "final answer"}}}
	a := New(model, echoRegistry(t), "system", 0, zaptest.NewLogger(t))

	got, err := a.Run(context.Background(), session.NewContext(), nil, "hello")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "final answer" {
		t.Errorf("answer = %q", got)
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}

func TestRunExecutesRequestsInOrder(t *testing.T) {
	model := &scriptedModel{turns: []*Turn{
		{
			Text: "let me check",
			Requests: []InvocationRequest{
				{Name: "echo", Arguments: MappingArguments(map[string]string{"value": "first"}), CorrelationID: "c1"},
				{Name: "echo", Arguments: MappingArguments(map[string]string{"value": "second"}), CorrelationID: "c2"},
			},
		},
		{Text: "done"},
	}}
	a := New(model, echoRegistry(t), "system", 0, zaptest.NewLogger(t))

	if _, err := a.Run(context.Background(), session.NewContext(), nil, "go"); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Second transcript: user, assistant with requests, one result per
	// request in request order.
	if len(model.transcripts) != 2 {
		t.Fatalf("transcripts = %d, want 2", len(model.transcripts))
	}
	second := model.transcripts[1]
	if len(second) != 4 {
		t.Fatalf("second transcript length = %d, want 4", len(second))
	}
	if second[1].Role != RoleAssistant || len(second[1].Requests) != 2 {
		t.Errorf("assistant message = %+v", second[1])
	}
	for i, want := range []struct{ text, id string }{
		{"echo: first", "c1"},
		{"echo: second", "c2"},
	} {
		msg := second[2+i]
		if msg.Role != RoleCapabilityResult || msg.Name != "echo" {
			t.Errorf("result %d = %+v", i, msg)
		}
		if msg.Text != want.text || msg.CorrelationID != want.id {
			t.Errorf("result %d = %q (%s), want %q (%s)", i, msg.Text, msg.CorrelationID, want.text, want.id)
		}
	}
}

func TestRunUnknownCapability(t *testing.T) {
	model := &scriptedModel{turns: []*Turn{
		{Requests: []InvocationRequest{{Name: "nope"}}},
		{Text: "recovered"},
	}}
	a := New(model, echoRegistry(t), "system", 0, zaptest.NewLogger(t))

	got, err := a.Run(context.Background(), session.NewContext(), nil, "go")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "recovered" {
		t.Errorf("answer = %q", got)
	}

	result := model.transcripts[1][2]
	want := `ERROR: capability "nope" not found`
	if result.Text != want {
		t.Errorf("result = %q, want %q", result.Text, want)
	}
}

func TestRunHandlerErrorBecomesMarker(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&Descriptor{
		Name: "broken",
		Handler: func(_ context.Context, _ map[string]string, _ *session.Context) (string, error) {
			return "", errors.New("backend offline")
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	model := &scriptedModel{turns: []*Turn{
		{Requests: []InvocationRequest{{Name: "broken"}}},
		{Text: "ok"},
	}}
	a := New(model, reg, "system", 0, zaptest.NewLogger(t))

	if _, err := a.Run(context.Background(), session.NewContext(), nil, "go"); err != nil {
		t.Fatalf("run: %v", err)
	}

	result := model.transcripts[1][2]
	if result.Text != "ERROR: backend offline" {
		t.Errorf("result = %q", result.Text)
	}
}

func TestRunTurnBudget(t *testing.T) {
	looping := make([]*Turn, 0, DefaultMaxTurns)
	for i := 0; i < DefaultMaxTurns; i++ {
		looping = append(looping, &Turn{
			Requests: []InvocationRequest{{Name: "echo", Arguments: ScalarArguments(fmt.Sprint(i))}},
		})
	}
	model := &scriptedModel{turns: looping}
	a := New(model, echoRegistry(t), "system", 3, zaptest.NewLogger(t))

	_, err := a.Run(context.Background(), session.NewContext(), nil, "go")
	if !errors.Is(err, ErrTurnBudget) {
		t.Fatalf("err = %v, want ErrTurnBudget", err)
	}
	if model.calls != 3 {
		t.Errorf("model calls = %d, want 3", model.calls)
	}
}

func TestRunModelError(t *testing.T) {
	model := &scriptedModel{err: errors.New("provider down")}
	a := New(model, echoRegistry(t), "system", 0, zaptest.NewLogger(t))

	if _, err := a.Run(context.Background(), session.NewContext(), nil, "go"); err == nil {
		t.Fatal("expected error from failing model")
	}
}

func TestRunPriorHistoryIsNormalized(t *testing.T) {
	model := &scriptedModel{turns: []*Turn{{Text: "ok"}}}
	a := New(model, echoRegistry(t), "system", 0, zaptest.NewLogger(t))

	history := []any{
		map[string]any{"role": "human", "content": "earlier question"},
		map[string]any{"role": "ai", "content": "earlier answer"},
	}
	if _, err := a.Run(context.Background(), session.NewContext(), history, "now"); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := model.transcripts[0]
	if len(got) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(got))
	}
	if got[0].Role != RoleUser || got[0].Text != "earlier question" {
		t.Errorf("first message = %+v", got[0])
	}
	if got[1].Role != RoleAssistant || got[1].Text != "earlier answer" {
		t.Errorf("second message = %+v", got[1])
	}
	if got[2].Role != RoleUser || got[2].Text != "now" {
		t.Errorf("third message = %+v", got[2])
	}
}
