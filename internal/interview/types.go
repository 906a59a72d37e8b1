// Package interview runs a mock interview: model-generated questions,
// multimodal per-answer scoring and an aggregate assessment with a
// hiring recommendation.
package interview

import "time"

type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryBehavioral  Category = "behavioral"
	CategorySituational Category = "situational"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one interview question with its scoring guidance.
type Question struct {
	ID                string     `json:"id"`
	Prompt            string     `json:"question"`
	PromptEN          string     `json:"question_en"`
	Category          Category   `json:"category"`
	Difficulty        Difficulty `json:"difficulty"`
	ExpectedKeywords  []string   `json:"expected_keywords"`
	IdealAnswerPoints []string   `json:"ideal_answer_points"`
	TimeLimitSeconds  int        `json:"time_limit_seconds"`
}

// AnswerInput is the raw material of one submitted answer. Any subset
// of the fields may be present.
type AnswerInput struct {
	VideoFrames   [][]byte
	Audio         []byte
	AudioMIMEType string
	Text          string
}

// FrameAnalysis scores the candidate's on-camera presence from a
// single video frame.
type FrameAnalysis struct {
	ProfessionalismScore float64 `json:"professionalism_score"`
	ConfidenceScore      float64 `json:"confidence_score"`
	Note                 string  `json:"note"`
}

// VoiceAnalysis scores delivery qualities derived from the answer
// transcript.
type VoiceAnalysis struct {
	ClarityScore float64 `json:"clarity_score"`
	PaceScore    float64 `json:"pace_score"`
	FillerWords  int     `json:"filler_words"`
	ContentScore float64 `json:"content_score"`
	Note         string  `json:"note"`
}

// AnswerEvaluation scores one answer against the question's expected
// keywords and ideal points. Scores run 0 to 10.
type AnswerEvaluation struct {
	Score        float64  `json:"score"`
	KeywordsHit  []string `json:"keywords_hit"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Note         string   `json:"note"`
}

// Answer is one completed question slot.
type Answer struct {
	QuestionID       string
	Transcript       string
	TranscriptSource TranscriptSource
	Frame            *FrameAnalysis
	Voice            *VoiceAnalysis
	Evaluation       AnswerEvaluation
	SubmittedAt      time.Time
}

// TranscriptSource records where an answer transcript came from.
type TranscriptSource string

const (
	TranscriptFromText  TranscriptSource = "text"
	TranscriptFromAudio TranscriptSource = "audio"
	TranscriptNone      TranscriptSource = "none"
)

// BehavioralAssessment is the aggregate assessment over a whole
// session. Scores run 0 to 10.
type BehavioralAssessment struct {
	OverallScore       float64 `json:"overall_score"`
	CommunicationScore float64 `json:"communication_score"`
	ConfidenceScore    float64 `json:"confidence_score"`
	Summary            string  `json:"summary"`
}

// Recommendation is the final hiring band.
type Recommendation string

const (
	Recommend    Recommendation = "Recommend"
	Consider     Recommendation = "Consider"
	NotRecommend Recommendation = "Not Recommend"
)

// RecommendationFor classifies an aggregate behavioral score into the
// fixed hiring bands. Thresholds are inclusive.
func RecommendationFor(score float64) Recommendation {
	switch {
	case score >= 7.5:
		return Recommend
	case score >= 5.0:
		return Consider
	default:
		return NotRecommend
	}
}
