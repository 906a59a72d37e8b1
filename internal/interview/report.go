package interview

import (
	"fmt"
	"strings"
	"time"
)

// Result is the finished interview: counts, scores and the hiring
// band.
type Result struct {
	SessionID          string               `json:"session_id"`
	StartedAt          time.Time            `json:"started_at"`
	EndedAt            time.Time            `json:"ended_at"`
	QuestionCount      int                  `json:"question_count"`
	AnsweredCount      int                  `json:"answered_count"`
	AverageAnswerScore float64              `json:"average_answer_score"`
	Behavioral         BehavioralAssessment `json:"behavioral"`
	Recommendation     Recommendation       `json:"recommendation"`
}

// Render formats the result as a readable report.
func (r *Result) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Interview Report (session %s)\n", r.SessionID)
	fmt.Fprintf(&b, "Duration: %s (%d of %d questions answered)\n\n",
		r.EndedAt.Sub(r.StartedAt).Round(time.Second), r.AnsweredCount, r.QuestionCount)

	fmt.Fprintf(&b, "Average answer score:  %.2f / 10\n", r.AverageAnswerScore)
	fmt.Fprintf(&b, "Behavioral overall:    %.2f / 10\n", r.Behavioral.OverallScore)
	fmt.Fprintf(&b, "Communication:         %.2f / 10\n", r.Behavioral.CommunicationScore)
	fmt.Fprintf(&b, "Confidence:            %.2f / 10\n\n", r.Behavioral.ConfidenceScore)

	fmt.Fprintf(&b, "Recommendation: %s\n", r.Recommendation)
	if summary := strings.TrimSpace(r.Behavioral.Summary); summary != "" {
		fmt.Fprintf(&b, "\n%s\n", summary)
	}
	return b.String()
}
