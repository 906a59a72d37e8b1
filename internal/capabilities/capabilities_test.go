package capabilities

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/nbnam/cv-agent/internal/agent"
	"github.com/nbnam/cv-agent/internal/session"
)

type stubGenerator struct {
	output string
	err    error
	prompt string
}

func (s *stubGenerator) GenerateText(_ context.Context, _, prompt string) (string, error) {
	s.prompt = prompt
	return s.output, s.err
}

type stubSearcher struct {
	output string
	err    error
	query  string
}

func (s *stubSearcher) SearchJobs(_ context.Context, query string) (string, error) {
	s.query = query
	return s.output, s.err
}

func testDeps(t *testing.T, gen *stubGenerator) Deps {
	t.Helper()
	if gen == nil {
		gen = &stubGenerator{}
	}
	return Deps{
		Generator: gen,
		Searcher:  &stubSearcher{},
		Logger:    zaptest.NewLogger(t),
	}
}

func storedContext(cv, jd string) *session.Context {
	conv := session.NewContext()
	conv.SetCVText(cv)
	conv.SetJDText(jd)
	return conv
}

func TestNewRegistryRegistersAllCapabilities(t *testing.T) {
	reg, err := NewRegistry(testDeps(t, nil))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if reg.Len() != 11 {
		t.Errorf("registry size = %d, want 11", reg.Len())
	}

	for _, name := range []string{
		"extract-text-from-file", "clean-raw-text", "store-cv-text",
		"store-jd-text", "compute-match-score", "analyze-skills",
		"suggest-jobs-from-cv", "search-jobs-online", "suggest-cv-rewrite",
		"analyze-cv-layout-image", "describe-improved-cv-layout",
	} {
		if _, ok := reg.Resolve(name); !ok {
			t.Errorf("capability %s not registered", name)
		}
	}
}

func TestStoreCVText(t *testing.T) {
	deps := testDeps(t, nil)
	conv := session.NewContext()

	out, err := deps.storeCVText(context.Background(), map[string]string{"cv_text": "  Go developer  "}, conv)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if out != "SUCCESS: stored CV text (12 characters)" {
		t.Errorf("output = %q", out)
	}
	if conv.CVText != "Go developer" {
		t.Errorf("cv text = %q", conv.CVText)
	}

	if _, err := deps.storeCVText(context.Background(), map[string]string{"cv_text": "   "}, conv); err == nil {
		t.Error("expected error for blank cv text")
	}
}

func TestComputeMatchScore(t *testing.T) {
	cases := []struct {
		name   string
		output string
		err    error
		want   string
	}{
		{"plain number", "0.75", nil, "0.75"},
		{"number in prose", "The match score is 0.8132 overall.", nil, "0.8132"},
		{"clamped above one", "7.5", nil, "1"},
		{"rounded to four decimals", "0.123456", nil, "0.1235"},
		{"no number falls back", "cannot assess", nil, DefaultScore},
		{"model failure falls back", "", errors.New("backend down"), DefaultScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := testDeps(t, &stubGenerator{output: tc.output, err: tc.err})
			conv := storedContext("Python developer, 3 years, Django", "Seeking Python developer, Django required")

			got, err := deps.computeMatchScore(context.Background(), nil, conv)
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if got != tc.want {
				t.Errorf("score = %q, want %q", got, tc.want)
			}

			value, parseErr := strconv.ParseFloat(got, 64)
			if parseErr != nil || value < 0 || value > 1 {
				t.Errorf("score %q not a float in [0,1]", got)
			}
		})
	}
}

func TestComputeMatchScoreRequiresBothTexts(t *testing.T) {
	deps := testDeps(t, &stubGenerator{output: "0.9"})

	cases := []*session.Context{
		session.NewContext(),
		storedContext("only cv", ""),
		storedContext("", "only jd"),
	}
	for _, conv := range cases {
		if _, err := deps.computeMatchScore(context.Background(), nil, conv); err == nil {
			t.Error("expected error with missing text")
		}
	}
}

func TestAnalyzeSkillsParsesJSON(t *testing.T) {
	deps := testDeps(t, &stubGenerator{output: "```json\n" + `{
		"cv_skills": ["Python", "Django"],
		"jd_skills": ["Python", "Django", "Kubernetes"],
		"matched_skills": ["Python", "Django"],
		"missing_skills": ["Kubernetes"]
	}` + "\n```"})
	conv := storedContext("Python developer, Django", "Python, Django, Kubernetes")

	got, err := deps.analyzeSkills(context.Background(), nil, conv)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	want := "cv_skills: Python, Django ||| jd_skills: Python, Django, Kubernetes ||| matched_skills: Python, Django ||| missing_skills: Kubernetes"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestAnalyzeSkillsFallsBackToRawContent(t *testing.T) {
	deps := testDeps(t, &stubGenerator{output: "The candidate covers most requirements."})
	conv := storedContext("cv", "jd")

	got, err := deps.analyzeSkills(context.Background(), nil, conv)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got != "The candidate covers most requirements." {
		t.Errorf("output = %q", got)
	}
}

func TestSuggestJobsFromCV(t *testing.T) {
	deps := testDeps(t, nil)

	if _, err := deps.suggestJobsFromCV(context.Background(), nil, session.NewContext()); err == nil {
		t.Error("expected error without a stored cv")
	}

	conv := storedContext("Go engineer with five years of backend work", "")
	got, err := deps.suggestJobsFromCV(context.Background(), nil, conv)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !strings.HasPrefix(got, "CV_CONTENT_FOR_ANALYSIS:\n") {
		t.Errorf("output = %q", got)
	}
	if !strings.Contains(got, "Go engineer") {
		t.Errorf("output missing cv content: %q", got)
	}
}

func TestSearchJobsOnline(t *testing.T) {
	searcher := &stubSearcher{output: "- Title: Backend Engineer"}
	deps := testDeps(t, nil)
	deps.Searcher = searcher

	got, err := deps.searchJobsOnline(context.Background(), map[string]string{"search_query": "golang hanoi"}, session.NewContext())
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got != "- Title: Backend Engineer" || searcher.query != "golang hanoi" {
		t.Errorf("output = %q, query = %q", got, searcher.query)
	}
}

func TestCleanRawText(t *testing.T) {
	deps := testDeps(t, nil)
	got, err := deps.cleanRawText(context.Background(), map[string]string{"raw_text": "  messy \r\n\r\n\r\n text  "}, nil)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if got != "messy\n\ntext" {
		t.Errorf("output = %q", got)
	}
}

func TestRegistryThroughAgentLoop(t *testing.T) {
	reg, err := NewRegistry(testDeps(t, &stubGenerator{output: "0.8"}))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	desc, ok := reg.Resolve("store-cv-text")
	if !ok {
		t.Fatal("store-cv-text missing")
	}

	// Scalar arguments bind to the single declared parameter.
	args := agent.ScalarArguments("Go developer")
	params := args.Coerce(desc.Parameters)
	conv := session.NewContext()
	if _, err := desc.Handler(context.Background(), params, conv); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if conv.CVText != "Go developer" {
		t.Errorf("cv text = %q", conv.CVText)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
