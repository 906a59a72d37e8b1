// Package capabilities builds the fixed registry the agent exposes to
// the model.
//
// Conversation context access per capability:
//
//	store-cv-text, store-jd-text            write cv_text / jd_text
//	compute-match-score, analyze-skills     read cv_text and jd_text
//	suggest-jobs-from-cv, suggest-cv-rewrite,
//	describe-improved-cv-layout             read cv_text (rewrite also jd_text)
//	extract-text-from-file, clean-raw-text,
//	search-jobs-online, analyze-cv-layout-image  do not touch the context
package capabilities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/agent"
	"github.com/nbnam/cv-agent/internal/ai"
	"github.com/nbnam/cv-agent/internal/extract"
	"github.com/nbnam/cv-agent/internal/session"
	"github.com/nbnam/cv-agent/internal/utils"
)

// DefaultScore is returned by compute-match-score when the model call
// or its output parsing fails.
const DefaultScore = "0.5"

// skillsSeparator joins the four skill categories into the flat string
// the model parses back out.
const skillsSeparator = " ||| "

// JobSearcher finds job postings for a query.
type JobSearcher interface {
	SearchJobs(ctx context.Context, query string) (string, error)
}

// TextExtractor reads a CV file into plain text.
type TextExtractor interface {
	ExtractFile(ctx context.Context, path string) (string, error)
}

// Deps are the external services the capability handlers call out to.
type Deps struct {
	Generator ai.Generator
	Vision    ai.Vision
	Searcher  JobSearcher
	Extractor TextExtractor
	Logger    *zap.Logger
}

// placeholder is the single unused parameter carried by operations
// that take no real input, since every invocation must bind at least
// one argument slot.
var placeholder = []agent.Parameter{{Name: "dummy", Description: "ignored, pass any string"}}

// NewRegistry registers the full capability set. Registration fails
// only on a configuration error such as a duplicate name.
func NewRegistry(deps Deps) (*agent.Registry, error) {
	reg := agent.NewRegistry()
	descriptors := []*agent.Descriptor{
		{
			Name:        "extract-text-from-file",
			Description: "Extracts text from a CV or JD file (PDF, DOCX, TXT, or image).",
			Parameters:  []agent.Parameter{{Name: "file_path", Description: "path to the file"}},
			Handler:     deps.extractTextFromFile,
		},
		{
			Name:        "clean-raw-text",
			Description: "Cleans raw pasted text: normalizes whitespace and line breaks.",
			Parameters:  []agent.Parameter{{Name: "raw_text", Description: "the raw text to clean"}},
			Handler:     deps.cleanRawText,
		},
		{
			Name:        "store-cv-text",
			Description: "Stores the extracted CV text in the session for later analysis.",
			Parameters:  []agent.Parameter{{Name: "cv_text", Description: "the CV text to store"}},
			Handler:     deps.storeCVText,
		},
		{
			Name:        "store-jd-text",
			Description: "Stores the extracted job description text in the session.",
			Parameters:  []agent.Parameter{{Name: "jd_text", Description: "the JD text to store"}},
			Handler:     deps.storeJDText,
		},
		{
			Name:        "compute-match-score",
			Description: "Scores how well the stored CV matches the stored JD, from 0.0 to 1.0.",
			Parameters:  placeholder,
			Handler:     deps.computeMatchScore,
		},
		{
			Name:        "analyze-skills",
			Description: "Compares skills in the stored CV against the stored JD.",
			Parameters:  placeholder,
			Handler:     deps.analyzeSkills,
		},
		{
			Name:        "suggest-jobs-from-cv",
			Description: "Returns the stored CV content so suitable roles can be suggested from it.",
			Parameters:  placeholder,
			Handler:     deps.suggestJobsFromCV,
		},
		{
			Name:        "search-jobs-online",
			Description: "Searches the web for current job postings matching a query.",
			Parameters:  []agent.Parameter{{Name: "search_query", Description: "the search query, e.g. role plus skills plus location"}},
			Handler:     deps.searchJobsOnline,
		},
		{
			Name:        "suggest-cv-rewrite",
			Description: "Analyzes the stored CV and proposes a fully rewritten version.",
			Parameters:  placeholder,
			Handler:     deps.suggestCVRewrite,
		},
		{
			Name:        "analyze-cv-layout-image",
			Description: "Reviews the visual layout of a CV from an image or PDF file.",
			Parameters:  []agent.Parameter{{Name: "file_path", Description: "path to the CV image or PDF"}},
			Handler:     deps.analyzeCVLayoutImage,
		},
		{
			Name:        "describe-improved-cv-layout",
			Description: "Describes a redesigned professional layout for the stored CV.",
			Parameters:  placeholder,
			Handler:     deps.describeImprovedCVLayout,
		},
	}

	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

var errNoTexts = errors.New("CV or JD text is not stored yet, store both first")
var errNoCV = errors.New("no CV stored yet, analyze a CV first")

func (d Deps) extractTextFromFile(ctx context.Context, params map[string]string, _ *session.Context) (string, error) {
	path := strings.TrimSpace(params["file_path"])
	if path == "" {
		return "", errors.New("file_path is required")
	}
	return d.Extractor.ExtractFile(ctx, path)
}

func (d Deps) cleanRawText(_ context.Context, params map[string]string, _ *session.Context) (string, error) {
	return extract.Clean(params["raw_text"]), nil
}

func (d Deps) storeCVText(_ context.Context, params map[string]string, conv *session.Context) (string, error) {
	conv.SetCVText(params["cv_text"])
	if !conv.HasCV() {
		return "", errors.New("cv_text must not be empty")
	}
	return fmt.Sprintf("SUCCESS: stored CV text (%d characters)", utf8.RuneCountInString(conv.CVText)), nil
}

func (d Deps) storeJDText(_ context.Context, params map[string]string, conv *session.Context) (string, error) {
	conv.SetJDText(params["jd_text"])
	if !conv.HasJD() {
		return "", errors.New("jd_text must not be empty")
	}
	return fmt.Sprintf("SUCCESS: stored JD text (%d characters)", utf8.RuneCountInString(conv.JDText)), nil
}

var scorePattern = regexp.MustCompile(`(\d+\.?\d*)`)

func (d Deps) computeMatchScore(ctx context.Context, _ map[string]string, conv *session.Context) (string, error) {
	if !conv.HasCV() || !conv.HasJD() {
		return "", errNoTexts
	}

	raw, err := d.Generator.GenerateText(ctx, "", matchScorePrompt(conv.CVText, conv.JDText))
	if err != nil {
		d.Logger.Warn("match score generation failed, using default", zap.Error(err))
		return DefaultScore, nil
	}

	match := scorePattern.FindString(strings.TrimSpace(raw))
	if match == "" {
		d.Logger.Warn("no score in model output, using default",
			zap.String("output", utils.TruncateForLog(raw, 200)))
		return DefaultScore, nil
	}

	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return DefaultScore, nil
	}
	score = math.Min(math.Max(score, 0.0), 1.0)
	score = math.Round(score*10000) / 10000

	return strconv.FormatFloat(score, 'f', -1, 64), nil
}

type skillsReport struct {
	CVSkills      []string `json:"cv_skills"`
	JDSkills      []string `json:"jd_skills"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

func (d Deps) analyzeSkills(ctx context.Context, _ map[string]string, conv *session.Context) (string, error) {
	if !conv.HasCV() || !conv.HasJD() {
		return "", errNoTexts
	}

	raw, err := d.Generator.GenerateText(ctx, "", skillsPrompt(conv.CVText, conv.JDText))
	if err != nil {
		return "", err
	}

	cleaned := stripCodeFence(raw)
	report, ok := parseSkillsReport(cleaned)
	if !ok {
		// The model sometimes answers in prose, let it read its own
		// words back.
		return cleaned, nil
	}

	parts := []string{
		"cv_skills: " + strings.Join(report.CVSkills, ", "),
		"jd_skills: " + strings.Join(report.JDSkills, ", "),
		"matched_skills: " + strings.Join(report.MatchedSkills, ", "),
		"missing_skills: " + strings.Join(report.MissingSkills, ", "),
	}
	return strings.Join(parts, skillsSeparator), nil
}

func (d Deps) suggestJobsFromCV(_ context.Context, _ map[string]string, conv *session.Context) (string, error) {
	if !conv.HasCV() {
		return "", errNoCV
	}
	return "CV_CONTENT_FOR_ANALYSIS:\n" + utils.Head(conv.CVText, 2000), nil
}

func (d Deps) searchJobsOnline(ctx context.Context, params map[string]string, _ *session.Context) (string, error) {
	if d.Searcher == nil {
		return "", errors.New("online job search is not configured")
	}
	return d.Searcher.SearchJobs(ctx, params["search_query"])
}

func (d Deps) suggestCVRewrite(ctx context.Context, _ map[string]string, conv *session.Context) (string, error) {
	if !conv.HasCV() {
		return "", errNoCV
	}
	return d.Generator.GenerateText(ctx, "", rewritePrompt(conv.CVText, conv.JDText))
}

func (d Deps) analyzeCVLayoutImage(ctx context.Context, params map[string]string, _ *session.Context) (string, error) {
	path := strings.TrimSpace(params["file_path"])
	if path == "" {
		return "", errors.New("file_path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	mimeType := extract.MIMETypeForExt(strings.ToLower(filepath.Ext(path)))
	return d.Vision.AnalyzeImage(ctx, layoutAnalysisPrompt, mimeType, data)
}

func (d Deps) describeImprovedCVLayout(ctx context.Context, _ map[string]string, conv *session.Context) (string, error) {
	if !conv.HasCV() {
		return "", errNoCV
	}
	return d.Generator.GenerateText(ctx, "", improvedLayoutPrompt(conv.CVText))
}

func parseSkillsReport(cleaned string) (*skillsReport, bool) {
	report := &skillsReport{}
	if err := json.Unmarshal([]byte(cleaned), report); err != nil {
		return nil, false
	}
	return report, true
}

// stripCodeFence removes a surrounding markdown code fence when the
// model wraps its JSON in one.
func stripCodeFence(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
