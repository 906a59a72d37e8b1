// Package session holds per-session conversation state and its
// persistence. A Context carries the CV text, the job description text
// and a rolling chat history for one session id; a Store persists
// contexts across process restarts.
package session

import (
	"fmt"
	"strings"
)

// Context is the mutable state of a single session. It is not safe for
// concurrent use; callers serialize access per session id.
type Context struct {
	CVText      string   `json:"cv_text"`
	JDText      string   `json:"jd_text"`
	ChatHistory []string `json:"chat_history"`
}

// NewContext returns an empty session context.
func NewContext() *Context {
	return &Context{}
}

// SetCVText stores the CV text, trimmed of surrounding whitespace.
func (c *Context) SetCVText(text string) {
	c.CVText = strings.TrimSpace(text)
}

// SetJDText stores the job description text, trimmed of surrounding
// whitespace.
func (c *Context) SetJDText(text string) {
	c.JDText = strings.TrimSpace(text)
}

// HasCV reports whether a non-empty CV text is stored.
func (c *Context) HasCV() bool {
	return strings.TrimSpace(c.CVText) != ""
}

// HasJD reports whether a non-empty job description text is stored.
func (c *Context) HasJD() bool {
	return strings.TrimSpace(c.JDText) != ""
}

// AppendExchange records one user/assistant exchange in the chat
// history.
func (c *Context) AppendExchange(userText, assistantText string) {
	c.ChatHistory = append(c.ChatHistory,
		fmt.Sprintf("User: %s", userText),
		fmt.Sprintf("AI: %s", assistantText),
	)
}

// RecentHistory returns the last n history entries, oldest first. It
// returns nil when the history is empty or n is not positive.
func (c *Context) RecentHistory(n int) []string {
	if n <= 0 || len(c.ChatHistory) == 0 {
		return nil
	}
	if len(c.ChatHistory) <= n {
		return c.ChatHistory
	}
	return c.ChatHistory[len(c.ChatHistory)-n:]
}

// Clear resets the context to its empty state.
func (c *Context) Clear() {
	c.CVText = ""
	c.JDText = ""
	c.ChatHistory = nil
}
