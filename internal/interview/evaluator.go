package interview

import "context"

// Evaluator is the model-backed scoring surface of an interview. Every
// method has a static default the session substitutes on failure, so
// implementations only need to report errors, not recover from them.
type Evaluator interface {
	GenerateQuestions(ctx context.Context, cvText, jdText string, n int) ([]Question, error)
	AnalyzeFrame(ctx context.Context, frame []byte) (*FrameAnalysis, error)
	Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error)
	AnalyzeVoice(ctx context.Context, transcript string) (*VoiceAnalysis, error)
	EvaluateAnswer(ctx context.Context, question Question, transcript string) (*AnswerEvaluation, error)
	AssessBehavioral(ctx context.Context, answers []Answer) (*BehavioralAssessment, error)
}
