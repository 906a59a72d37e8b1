// Package assistant exposes the user-facing operations: CV analysis,
// chat, job search, improvement suggestions and layout review. Every
// operation loads the session context, runs the agent and persists the
// updated context.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/agent"
	"github.com/nbnam/cv-agent/internal/logger"
	"github.com/nbnam/cv-agent/internal/session"
)

const defaultHistoryWindow = 6

// Result is the outcome of one operation. Output carries either the
// agent's answer or a user-facing failure message.
type Result struct {
	Success bool   `json:"success"`
	Output  string `json:"result"`
}

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	ExtractFile(ctx context.Context, path string) (string, error)
}

// Assistant binds one agent and one session store. It is safe for
// concurrent use; operations on the same session are serialized.
type Assistant struct {
	store         session.Store
	agent         *agent.Agent
	extractor     TextExtractor
	historyWindow int
	logger        *zap.Logger

	locks sync.Map // session id -> *sync.Mutex
}

// New returns an Assistant over the given agent and store. The agent
// is built once and shared across all sessions and operations.
func New(store session.Store, ag *agent.Agent, extractor TextExtractor, historyWindow int, log *zap.Logger) *Assistant {
	if historyWindow < 1 {
		historyWindow = defaultHistoryWindow
	}
	return &Assistant{
		store:         store,
		agent:         ag,
		extractor:     extractor,
		historyWindow: historyWindow,
		logger:        log,
	}
}

// Analyze runs the full CV-against-JD analysis. Inputs marked as files
// are extracted first; otherwise they are taken as raw text.
func (a *Assistant) Analyze(ctx context.Context, sessionID, cvInput, jdInput string, cvIsFile, jdIsFile bool) (Result, error) {
	cvText, err := a.resolveInput(ctx, cvInput, cvIsFile)
	if err != nil {
		return Result{Output: fmt.Sprintf("Could not read the CV: %v", err)}, nil
	}
	jdText, err := a.resolveInput(ctx, jdInput, jdIsFile)
	if err != nil {
		return Result{Output: fmt.Sprintf("Could not read the job description: %v", err)}, nil
	}

	prompt := fmt.Sprintf(analyzePromptTemplate, cvText, jdText)
	return a.run(ctx, sessionID, prompt, nil)
}

// Chat answers one free-form message with the stored texts and the
// recent exchange window as context. Successful exchanges are appended
// to the session history.
func (a *Assistant) Chat(ctx context.Context, sessionID, message string) (Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Result{Output: "Please enter a message."}, nil
	}

	return a.runWith(ctx, sessionID, func(conv *session.Context) string {
		return chatPrompt(conv, a.historyWindow, message)
	}, func(conv *session.Context, output string) {
		conv.AppendExchange(message, output)
	})
}

// FindJobs searches online job postings matching the stored CV.
func (a *Assistant) FindJobs(ctx context.Context, sessionID string) (Result, error) {
	return a.requireCV(ctx, sessionID, func(conv *session.Context) string {
		return findJobsPrompt(conv)
	})
}

// SuggestImprovements rewrites the stored CV with concrete suggestions.
func (a *Assistant) SuggestImprovements(ctx context.Context, sessionID string) (Result, error) {
	return a.requireCV(ctx, sessionID, func(*session.Context) string {
		return improvePromptTemplate
	})
}

// AnalyzeLayout assesses the visual layout of a CV image or PDF file.
func (a *Assistant) AnalyzeLayout(ctx context.Context, sessionID, filePath string) (Result, error) {
	return a.run(ctx, sessionID, fmt.Sprintf(layoutPromptTemplate, filePath), nil)
}

// DescribeImprovedLayout describes a better layout for the stored CV.
func (a *Assistant) DescribeImprovedLayout(ctx context.Context, sessionID string) (Result, error) {
	return a.requireCV(ctx, sessionID, func(*session.Context) string {
		return describeLayoutPrompt
	})
}

// SessionStatus reports what the session currently holds.
func (a *Assistant) SessionStatus(ctx context.Context, sessionID string) (Result, error) {
	conv, err := a.store.Load(sessionID)
	if err != nil {
		return Result{}, fmt.Errorf("load session: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s\n", sessionID)
	fmt.Fprintf(&b, "CV stored: %v\n", conv.HasCV())
	fmt.Fprintf(&b, "JD stored: %v\n", conv.HasJD())
	fmt.Fprintf(&b, "History entries: %d\n", len(conv.ChatHistory))
	return Result{Success: true, Output: b.String()}, nil
}

// ClearSession drops all stored state for the session.
func (a *Assistant) ClearSession(ctx context.Context, sessionID string) (Result, error) {
	if err := a.store.Delete(sessionID); err != nil {
		return Result{}, fmt.Errorf("delete session: %w", err)
	}
	return Result{Success: true, Output: "Session cleared."}, nil
}

func (a *Assistant) resolveInput(ctx context.Context, input string, isFile bool) (string, error) {
	if !isFile {
		return input, nil
	}
	if a.extractor == nil {
		return "", fmt.Errorf("file extraction is not configured")
	}
	return a.extractor.ExtractFile(ctx, input)
}

// requireCV runs an operation that only makes sense with a stored CV.
func (a *Assistant) requireCV(ctx context.Context, sessionID string, buildPrompt func(*session.Context) string) (Result, error) {
	return a.runWith(ctx, sessionID, func(conv *session.Context) string {
		if !conv.HasCV() {
			return ""
		}
		return buildPrompt(conv)
	}, nil)
}

func (a *Assistant) run(ctx context.Context, sessionID, prompt string, onSuccess func(*session.Context, string)) (Result, error) {
	return a.runWith(ctx, sessionID, func(*session.Context) string { return prompt }, onSuccess)
}

// runWith is the shared operation skeleton: lock the session, load its
// context, run the agent and save the context back on success. An
// empty prompt from buildPrompt means the session lacks a stored CV.
func (a *Assistant) runWith(ctx context.Context, sessionID string, buildPrompt func(*session.Context) string, onSuccess func(*session.Context, string)) (Result, error) {
	mu := a.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	conv, err := a.store.Load(sessionID)
	if err != nil {
		return Result{}, fmt.Errorf("load session: %w", err)
	}

	prompt := buildPrompt(conv)
	if prompt == "" {
		return Result{Output: "No CV stored for this session yet. Analyze a CV first."}, nil
	}

	log := logger.WithSession(a.logger, sessionID)

	output, err := a.agent.Run(ctx, conv, nil, prompt)
	if err != nil {
		log.Error("agent run failed", zap.Error(err))
		return Result{Output: fmt.Sprintf("The assistant could not complete the request: %v", err)}, nil
	}

	if onSuccess != nil {
		onSuccess(conv, output)
	}
	// Store failures are the one class never masked: losing session
	// continuity must reach the caller.
	if err := a.store.Save(sessionID, conv); err != nil {
		log.Error("session save failed", zap.Error(err))
		return Result{}, fmt.Errorf("save session: %w", err)
	}

	return Result{Success: true, Output: output}, nil
}

func (a *Assistant) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := a.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
