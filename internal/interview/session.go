package interview

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/logger"
)

// minAudioBytes is the smallest recording worth transcribing; shorter
// blobs are treated as silence.
const minAudioBytes = 1000

// ErrNoMoreQuestions is returned by SubmitAnswer once every question
// slot has been consumed.
var ErrNoMoreQuestions = errors.New("no more questions")

// Session is one mock interview. It is a sequential state machine:
// Start, then SubmitAnswer once per question, then Finish. It is not
// safe for concurrent use.
type Session struct {
	ID        string
	CVText    string
	JDText    string
	Questions []Question
	Answers   []Answer
	Current   int
	StartedAt time.Time
	EndedAt   time.Time

	evaluator Evaluator
	logger    *zap.Logger
	now       func() time.Time
}

// Start generates the question list. Generation is best effort: any
// failure falls back to the built-in question set, never fails the
// session.
func (s *Session) Start(ctx context.Context, numQuestions int) {
	s.StartedAt = s.now()

	questions, err := s.evaluator.GenerateQuestions(ctx, s.CVText, s.JDText, numQuestions)
	if err != nil || len(questions) == 0 {
		s.logger.Warn("question generation failed, using fallback set",
			zap.String(logger.FieldSession, s.ID), zap.Error(err))
		questions = fallbackQuestions(numQuestions)
	} else if len(questions) > numQuestions {
		questions = questions[:numQuestions]
	}

	s.Questions = questions
	s.Current = 0
	s.logger.Info("interview started",
		zap.String(logger.FieldSession, s.ID),
		zap.Int("questions", len(s.Questions)),
	)
}

// CurrentQuestion returns the question at the current index. ok is
// false once the interview has run out of questions.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Current >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Current], true
}

// SubmitAnswer records one answer for the current question and
// advances the index by exactly one. Every evaluation sub-call is best
// effort: failures record the neutral default instead of surfacing, so
// a single corrupted step can never stall the interview.
func (s *Session) SubmitAnswer(ctx context.Context, input AnswerInput) (*Answer, error) {
	question, ok := s.CurrentQuestion()
	if !ok {
		return nil, ErrNoMoreQuestions
	}

	answer := Answer{
		QuestionID:  question.ID,
		SubmittedAt: s.now(),
	}

	answer.Transcript, answer.TranscriptSource = s.resolveTranscript(ctx, input)

	if len(input.VideoFrames) > 0 {
		// Only the first frame is analyzed to bound model cost.
		frame, err := s.evaluator.AnalyzeFrame(ctx, input.VideoFrames[0])
		if err != nil {
			s.logger.Warn("frame analysis failed",
				zap.String(logger.FieldSession, s.ID), zap.Error(err))
			frame = defaultFrameAnalysis()
		}
		answer.Frame = frame
	}

	if answer.Transcript != "" {
		voice, err := s.evaluator.AnalyzeVoice(ctx, answer.Transcript)
		if err != nil {
			s.logger.Warn("voice analysis failed",
				zap.String(logger.FieldSession, s.ID), zap.Error(err))
			voice = defaultVoiceAnalysis()
		}
		answer.Voice = voice

		eval, err := s.evaluator.EvaluateAnswer(ctx, question, answer.Transcript)
		if err != nil {
			s.logger.Warn("answer evaluation failed",
				zap.String(logger.FieldSession, s.ID), zap.Error(err))
			answer.Evaluation = defaultAnswerEvaluation()
		} else {
			answer.Evaluation = *eval
		}
	} else {
		answer.Evaluation = defaultAnswerEvaluation()
	}

	s.Answers = append(s.Answers, answer)
	s.Current++

	s.logger.Debug("answer recorded",
		zap.String(logger.FieldSession, s.ID),
		zap.String("question_id", question.ID),
		zap.String("transcript_source", string(answer.TranscriptSource)),
		zap.Float64("score", answer.Evaluation.Score),
	)
	return &s.Answers[len(s.Answers)-1], nil
}

// resolveTranscript applies the strict priority order: direct text,
// then audio above the size threshold, then nothing.
func (s *Session) resolveTranscript(ctx context.Context, input AnswerInput) (string, TranscriptSource) {
	if text := strings.TrimSpace(input.Text); text != "" {
		return text, TranscriptFromText
	}

	if len(input.Audio) > minAudioBytes {
		mimeType := input.AudioMIMEType
		if mimeType == "" {
			mimeType = "audio/wav"
		}
		transcript, err := s.evaluator.Transcribe(ctx, mimeType, input.Audio)
		if err != nil {
			s.logger.Warn("transcription failed",
				zap.String(logger.FieldSession, s.ID), zap.Error(err))
			return "", TranscriptNone
		}
		if transcript = strings.TrimSpace(transcript); transcript != "" {
			return transcript, TranscriptFromAudio
		}
	}

	return "", TranscriptNone
}

// Finish computes the aggregate assessment and the hiring
// recommendation. It only recomputes from already-stored evaluations,
// so calling it again without new answers yields the same result.
func (s *Session) Finish(ctx context.Context) *Result {
	if s.EndedAt.IsZero() {
		s.EndedAt = s.now()
	}

	assessment, err := s.evaluator.AssessBehavioral(ctx, s.Answers)
	if err != nil || assessment == nil {
		s.logger.Warn("behavioral assessment failed, using defaults",
			zap.String(logger.FieldSession, s.ID), zap.Error(err))
		assessment = defaultBehavioralAssessment()
	}

	// The band comes from the computed aggregate, never from any label
	// the model may volunteer.
	return &Result{
		SessionID:          s.ID,
		StartedAt:          s.StartedAt,
		EndedAt:            s.EndedAt,
		QuestionCount:      len(s.Questions),
		AnsweredCount:      len(s.Answers),
		AverageAnswerScore: meanAnswerScore(s.Answers),
		Behavioral:         *assessment,
		Recommendation:     RecommendationFor(assessment.OverallScore),
	}
}

// meanAnswerScore averages the recorded answer scores, defaulting an
// empty set to the neutral midpoint.
func meanAnswerScore(answers []Answer) float64 {
	if len(answers) == 0 {
		return neutralScore
	}
	var sum float64
	for _, ans := range answers {
		sum += ans.Evaluation.Score
	}
	return sum / float64(len(answers))
}
