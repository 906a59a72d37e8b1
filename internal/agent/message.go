// Package agent implements a capability-calling conversation loop on
// top of a pluggable model client. The model proposes capability
// invocations, the loop executes them against a session context and
// feeds the results back until the model answers in plain text.
package agent

// Role identifies who produced a message.
type Role string

const (
	RoleSystem           Role = "system"
	RoleUser             Role = "user"
	RoleAssistant        Role = "assistant"
	RoleCapabilityResult Role = "capability_result"
)

// InvocationRequest is one capability call proposed by the model.
type InvocationRequest struct {
	// Name is the capability the model wants to invoke.
	Name string
	// Arguments carries the payload the model supplied, in whatever
	// shape it arrived.
	Arguments Arguments
	// CorrelationID ties a later result back to this request. It may
	// be empty when the provider does not assign call ids.
	CorrelationID string
}

// Message is one entry of a conversation transcript.
type Message struct {
	Role Role
	Text string

	// Requests holds the capability invocations attached to an
	// assistant message.
	Requests []InvocationRequest

	// Name and CorrelationID are set on capability result messages:
	// the capability that produced the output and the id of the
	// request it answers.
	Name          string
	CorrelationID string
}

// System returns a system message.
func System(text string) Message {
	return Message{Role: RoleSystem, Text: text}
}

// User returns a user message.
func User(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// Assistant returns an assistant message with optional capability
// requests.
func Assistant(text string, requests ...InvocationRequest) Message {
	return Message{Role: RoleAssistant, Text: text, Requests: requests}
}

// CapabilityResult returns the outcome of one capability invocation.
func CapabilityResult(name, output, correlationID string) Message {
	return Message{
		Role:          RoleCapabilityResult,
		Text:          output,
		Name:          name,
		CorrelationID: correlationID,
	}
}
