package interview

import "fmt"

// neutralScore is the midpoint used whenever a model-backed evaluation
// is unavailable, so a session always completes with usable numbers.
const neutralScore = 5.0

func defaultFrameAnalysis() *FrameAnalysis {
	return &FrameAnalysis{
		ProfessionalismScore: neutralScore,
		ConfidenceScore:      neutralScore,
		Note:                 "Frame analysis unavailable, neutral scores assumed.",
	}
}

func defaultVoiceAnalysis() *VoiceAnalysis {
	return &VoiceAnalysis{
		ClarityScore: neutralScore,
		PaceScore:    neutralScore,
		FillerWords:  0,
		ContentScore: neutralScore,
		Note:         "Voice analysis unavailable, neutral scores assumed.",
	}
}

func defaultAnswerEvaluation() AnswerEvaluation {
	return AnswerEvaluation{
		Score: neutralScore,
		Note:  "No transcript could be evaluated, neutral score assumed.",
	}
}

func defaultBehavioralAssessment() *BehavioralAssessment {
	return &BehavioralAssessment{
		OverallScore:       neutralScore,
		CommunicationScore: neutralScore,
		ConfidenceScore:    neutralScore,
		Summary:            "Behavioral assessment unavailable, neutral scores assumed.",
	}
}

// fallbackQuestionSet is used when question generation fails, so an
// interview can always start.
var fallbackQuestionSet = []Question{
	{
		Prompt:            "Walk me through a recent project you are proud of. What was your role and what did you build?",
		PromptEN:          "Walk me through a recent project you are proud of. What was your role and what did you build?",
		Category:          CategoryTechnical,
		Difficulty:        DifficultyEasy,
		ExpectedKeywords:  []string{"project", "role", "built", "result"},
		IdealAnswerPoints: []string{"describes concrete scope", "names own contribution", "mentions outcome"},
		TimeLimitSeconds:  180,
	},
	{
		Prompt:            "Which technologies from your CV do you know best, and how have you used them in practice?",
		PromptEN:          "Which technologies from your CV do you know best, and how have you used them in practice?",
		Category:          CategoryTechnical,
		Difficulty:        DifficultyEasy,
		ExpectedKeywords:  []string{"experience", "production", "practice"},
		IdealAnswerPoints: []string{"names specific technologies", "gives usage examples"},
		TimeLimitSeconds:  180,
	},
	{
		Prompt:            "Describe a hard technical problem you debugged. How did you narrow it down?",
		PromptEN:          "Describe a hard technical problem you debugged. How did you narrow it down?",
		Category:          CategoryTechnical,
		Difficulty:        DifficultyMedium,
		ExpectedKeywords:  []string{"debug", "root cause", "hypothesis", "fix"},
		IdealAnswerPoints: []string{"systematic narrowing", "verification of the fix"},
		TimeLimitSeconds:  240,
	},
	{
		Prompt:            "Tell me about a time you disagreed with a teammate. How was it resolved?",
		PromptEN:          "Tell me about a time you disagreed with a teammate. How was it resolved?",
		Category:          CategoryBehavioral,
		Difficulty:        DifficultyMedium,
		ExpectedKeywords:  []string{"disagreement", "listen", "resolve", "team"},
		IdealAnswerPoints: []string{"shows perspective taking", "constructive resolution"},
		TimeLimitSeconds:  180,
	},
	{
		Prompt:            "Your most important deadline is at risk because of a dependency on another team. What do you do?",
		PromptEN:          "Your most important deadline is at risk because of a dependency on another team. What do you do?",
		Category:          CategorySituational,
		Difficulty:        DifficultyHard,
		ExpectedKeywords:  []string{"communicate", "prioritize", "escalate", "plan"},
		IdealAnswerPoints: []string{"early communication", "mitigation options", "stakeholder management"},
		TimeLimitSeconds:  240,
	},
}

// fallbackQuestions returns up to n built-in questions with fresh ids.
func fallbackQuestions(n int) []Question {
	if n < 1 || n > len(fallbackQuestionSet) {
		n = len(fallbackQuestionSet)
	}
	out := make([]Question, n)
	copy(out, fallbackQuestionSet[:n])
	for i := range out {
		out[i].ID = fmt.Sprintf("fallback-%d", i+1)
	}
	return out
}
