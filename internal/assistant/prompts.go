package assistant

import (
	"fmt"
	"strings"

	"github.com/nbnam/cv-agent/internal/session"
	"github.com/nbnam/cv-agent/internal/utils"
)

// SystemPrompt frames every agent run. The capability names referenced
// here must match the registered capability set.
const SystemPrompt = `You are an expert recruitment assistant. You analyze CVs against job descriptions, suggest improvements and help candidates find matching jobs.

You have capabilities (tools) available. Use them instead of guessing:
- always store CV and JD texts with store-cv-text and store-jd-text before scoring or analyzing skills
- compute-match-score and analyze-skills only work after both texts are stored
- when asked to search for jobs online, call search-jobs-online with a concrete query

Be concise and concrete. Answer in English. When a capability returns a result beginning with "ERROR:", explain the problem to the user instead of retrying blindly.`

const analyzePromptTemplate = `Analyze the candidate's CV against the job description below. Work step by step:

1. Store the CV text with store-cv-text and the JD text with store-jd-text.
2. Compute the match score with compute-match-score.
3. Analyze the skill overlap with analyze-skills.
4. Suggest suitable job directions with suggest-jobs-from-cv.

Then write a report with these sections:
- Match Score (the number, with a one-line interpretation)
- Matched Skills
- Missing Skills
- Suggested Directions
- Next Steps (2-3 concrete recommendations)

CV TEXT:
%s

JOB DESCRIPTION TEXT:
%s`

const findJobsPromptTemplate = `Find current job postings matching this candidate. First derive a short, concrete search query from the CV (job title plus 2-3 key skills), then call search-jobs-online with it. Present the results as a list and add one sentence per posting on why it fits.

CV TEXT:
%s`

const improvePromptTemplate = `Suggest improvements for this candidate's CV. Call suggest-cv-rewrite and present its output. Answer in English.`

const layoutPromptTemplate = `Assess the visual layout of the candidate's CV. Call analyze-cv-layout-image with file_path %q and present the assessment table with a short summary.`

const describeLayoutPrompt = `Describe an improved layout for the stored CV. Call describe-improved-cv-layout and present its output.`

// chatPrompt builds the contextual prompt for a free-form chat turn:
// stored texts, the recent exchange window, then the new message.
func chatPrompt(conv *session.Context, window int, message string) string {
	var b strings.Builder

	if conv.HasCV() {
		fmt.Fprintf(&b, "STORED CV:\n%s\n\n", utils.Head(conv.CVText, 3000))
	}
	if conv.HasJD() {
		fmt.Fprintf(&b, "STORED JD:\n%s\n\n", utils.Head(conv.JDText, 3000))
	}
	if recent := conv.RecentHistory(window); len(recent) > 0 {
		fmt.Fprintf(&b, "RECENT CONVERSATION:\n%s\n\n", strings.Join(recent, "\n"))
	}

	fmt.Fprintf(&b, "USER MESSAGE:\n%s", message)
	return b.String()
}

func findJobsPrompt(conv *session.Context) string {
	prompt := fmt.Sprintf(findJobsPromptTemplate, utils.Head(conv.CVText, 4000))
	if conv.HasJD() {
		prompt += fmt.Sprintf("\n\nTARGET JD:\n%s", utils.Head(conv.JDText, 2000))
	}
	return prompt
}
