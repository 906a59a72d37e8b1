package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "embed"

	"github.com/mitchellh/mapstructure"

	"github.com/nbnam/cv-agent/internal/ai"
	"github.com/nbnam/cv-agent/internal/utils"
)

//go:embed questions_prompt.md
var questionsPromptTemplate string

//go:embed frame_prompt.md
var framePromptTemplate string

//go:embed voice_prompt.md
var voicePromptTemplate string

//go:embed answer_prompt.md
var answerPromptTemplate string

//go:embed behavioral_prompt.md
var behavioralPromptTemplate string

// ModelEvaluator implements Evaluator on top of the model services.
type ModelEvaluator struct {
	generator   ai.Generator
	vision      ai.Vision
	transcriber ai.Transcriber
}

// NewModelEvaluator returns a model-backed evaluator.
func NewModelEvaluator(generator ai.Generator, vision ai.Vision, transcriber ai.Transcriber) *ModelEvaluator {
	return &ModelEvaluator{generator: generator, vision: vision, transcriber: transcriber}
}

func (m *ModelEvaluator) GenerateQuestions(ctx context.Context, cvText, jdText string, n int) ([]Question, error) {
	prompt := fillPrompt(questionsPromptTemplate, map[string]string{
		"{{NUM_QUESTIONS}}": strconv.Itoa(n),
		"{{CV_TEXT}}":       utils.Head(cvText, 4000),
		"{{JD_TEXT}}":       utils.Head(jdText, 2000),
	})
	raw, err := m.generator.GenerateText(ctx, "", prompt)
	if err != nil {
		return nil, err
	}

	var questions []Question
	if err := decodeModelJSON(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, errors.New("model returned no questions")
	}

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = fmt.Sprintf("q-%d", i+1)
		}
		if questions[i].TimeLimitSeconds <= 0 {
			questions[i].TimeLimitSeconds = 180
		}
	}
	return questions, nil
}

func (m *ModelEvaluator) AnalyzeFrame(ctx context.Context, frame []byte) (*FrameAnalysis, error) {
	raw, err := m.vision.AnalyzeImage(ctx, framePromptTemplate, "image/jpeg", frame)
	if err != nil {
		return nil, err
	}
	analysis := &FrameAnalysis{}
	if err := decodeModelJSON(raw, analysis); err != nil {
		return nil, fmt.Errorf("decode frame analysis: %w", err)
	}
	return analysis, nil
}

func (m *ModelEvaluator) Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error) {
	return m.transcriber.Transcribe(ctx, mimeType, audio)
}

func (m *ModelEvaluator) AnalyzeVoice(ctx context.Context, transcript string) (*VoiceAnalysis, error) {
	prompt := fillPrompt(voicePromptTemplate, map[string]string{
		"{{TRANSCRIPT}}": utils.Head(transcript, 4000),
	})
	raw, err := m.generator.GenerateText(ctx, "", prompt)
	if err != nil {
		return nil, err
	}
	analysis := &VoiceAnalysis{}
	if err := decodeModelJSON(raw, analysis); err != nil {
		return nil, fmt.Errorf("decode voice analysis: %w", err)
	}
	return analysis, nil
}

func (m *ModelEvaluator) EvaluateAnswer(ctx context.Context, question Question, transcript string) (*AnswerEvaluation, error) {
	prompt := fillPrompt(answerPromptTemplate, map[string]string{
		"{{CATEGORY}}":     string(question.Category),
		"{{DIFFICULTY}}":   string(question.Difficulty),
		"{{QUESTION}}":     question.Prompt,
		"{{KEYWORDS}}":     strings.Join(question.ExpectedKeywords, ", "),
		"{{IDEAL_POINTS}}": strings.Join(question.IdealAnswerPoints, "; "),
		"{{ANSWER}}":       utils.Head(transcript, 4000),
	})
	raw, err := m.generator.GenerateText(ctx, "", prompt)
	if err != nil {
		return nil, err
	}
	eval := &AnswerEvaluation{}
	if err := decodeModelJSON(raw, eval); err != nil {
		return nil, fmt.Errorf("decode answer evaluation: %w", err)
	}
	return eval, nil
}

func (m *ModelEvaluator) AssessBehavioral(ctx context.Context, answers []Answer) (*BehavioralAssessment, error) {
	var record strings.Builder
	for i, ans := range answers {
		fmt.Fprintf(&record, "Answer %d (question %s): score %.1f", i+1, ans.QuestionID, ans.Evaluation.Score)
		if ans.Frame != nil {
			fmt.Fprintf(&record, ", confidence %.1f", ans.Frame.ConfidenceScore)
		}
		if ans.Voice != nil {
			fmt.Fprintf(&record, ", clarity %.1f, %d filler words", ans.Voice.ClarityScore, ans.Voice.FillerWords)
		}
		fmt.Fprintf(&record, "\n  transcript: %s\n", utils.Head(ans.Transcript, 400))
	}

	prompt := fillPrompt(behavioralPromptTemplate, map[string]string{
		"{{ANSWER_RECORD}}": record.String(),
	})
	raw, err := m.generator.GenerateText(ctx, "", prompt)
	if err != nil {
		return nil, err
	}
	assessment := &BehavioralAssessment{}
	if err := decodeModelJSON(raw, assessment); err != nil {
		return nil, fmt.Errorf("decode behavioral assessment: %w", err)
	}
	return assessment, nil
}

func fillPrompt(template string, values map[string]string) string {
	for placeholder, value := range values {
		template = strings.ReplaceAll(template, placeholder, value)
	}
	return template
}

// decodeModelJSON parses model output into out, tolerating a markdown
// code fence and loosely typed fields (numbers as strings and the
// like).
func decodeModelJSON(raw string, out any) error {
	cleaned := stripCodeFence(raw)

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(payload)
}

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
