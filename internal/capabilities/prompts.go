package capabilities

import (
	"strings"

	_ "embed"

	"github.com/nbnam/cv-agent/internal/utils"
)

//go:embed match_score_prompt.md
var matchScorePromptTemplate string

//go:embed skills_prompt.md
var skillsPromptTemplate string

//go:embed rewrite_prompt.md
var rewritePromptTemplate string

//go:embed layout_analysis_prompt.md
var layoutAnalysisPrompt string

//go:embed improved_layout_prompt.md
var improvedLayoutPromptTemplate string

func matchScorePrompt(cvText, jdText string) string {
	return fillPrompt(matchScorePromptTemplate, map[string]string{
		"{{CV_TEXT}}": utils.Head(cvText, 3000),
		"{{JD_TEXT}}": utils.Head(jdText, 2000),
	})
}

func skillsPrompt(cvText, jdText string) string {
	return fillPrompt(skillsPromptTemplate, map[string]string{
		"{{CV_TEXT}}": utils.Head(cvText, 6000),
		"{{JD_TEXT}}": utils.Head(jdText, 6000),
	})
}

func rewritePrompt(cvText, jdText string) string {
	jdBlock := ""
	if strings.TrimSpace(jdText) != "" {
		jdBlock = "\nTARGET JD:\n" + utils.Head(jdText, 2000)
	}
	return fillPrompt(rewritePromptTemplate, map[string]string{
		"{{CV_TEXT}}":  utils.Head(cvText, 3500),
		"{{JD_BLOCK}}": jdBlock,
	})
}

func improvedLayoutPrompt(cvText string) string {
	return fillPrompt(improvedLayoutPromptTemplate, map[string]string{
		"{{CV_TEXT}}": utils.Head(cvText, 3000),
	})
}

func fillPrompt(template string, values map[string]string) string {
	for placeholder, value := range values {
		template = strings.ReplaceAll(template, placeholder, value)
	}
	return template
}
