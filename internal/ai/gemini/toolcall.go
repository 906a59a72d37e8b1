package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/nbnam/cv-agent/internal/agent"
)

// Converse implements agent.ModelClient. The transcript is translated
// into GenAI contents, capability descriptors into function
// declarations, and any function calls in the response back into
// invocation requests.
func (c *Client) Converse(ctx context.Context, system string, msgs []agent.Message, capabilities []*agent.Descriptor) (*agent.Turn, error) {
	contents, extraSystem := buildContents(msgs)
	if len(contents) == 0 {
		return nil, errors.New("conversation must not be empty")
	}

	config := configWithSystem(joinSystem(system, extraSystem))
	if len(capabilities) > 0 {
		if config == nil {
			config = &genai.GenerateContentConfig{}
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations(capabilities)}}
	}

	resp, err := c.call(ctx, contents, config)
	if err != nil {
		return nil, err
	}

	return parseTurn(resp), nil
}

// buildContents maps the transcript to GenAI contents. System messages
// embedded in the transcript can not ride along as contents, so they
// are lifted out for the system instruction.
func buildContents(msgs []agent.Message) ([]*genai.Content, []string) {
	var (
		contents    []*genai.Content
		extraSystem []string
	)
	for _, msg := range msgs {
		switch msg.Role {
		case agent.RoleSystem:
			if text := strings.TrimSpace(msg.Text); text != "" {
				extraSystem = append(extraSystem, text)
			}
		case agent.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Text}},
			})
		case agent.RoleAssistant:
			var parts []*genai.Part
			if msg.Text != "" {
				parts = append(parts, &genai.Part{Text: msg.Text})
			}
			for _, req := range msg.Requests {
				fc := &genai.FunctionCall{ID: req.CorrelationID, Name: req.Name}
				if m, ok := req.Arguments.Any().(map[string]any); ok {
					fc.Args = m
				}
				parts = append(parts, &genai.Part{FunctionCall: fc})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case agent.RoleCapabilityResult:
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       msg.CorrelationID,
						Name:     msg.Name,
						Response: map[string]any{"output": msg.Text},
					},
				}},
			})
		}
	}
	return contents, extraSystem
}

func declarations(capabilities []*agent.Descriptor) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(capabilities))
	for _, capability := range capabilities {
		properties := make(map[string]*genai.Schema, len(capability.Parameters))
		required := make([]string, 0, len(capability.Parameters))
		for _, p := range capability.Parameters {
			properties[p.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: p.Description,
			}
			required = append(required, p.Name)
		}

		decl := &genai.FunctionDeclaration{
			Name:        capability.Name,
			Description: capability.Description,
		}
		if len(properties) > 0 {
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

func parseTurn(resp *genai.GenerateContentResponse) *agent.Turn {
	turn := &agent.Turn{Text: collectText(resp)}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.FunctionCall == nil {
				continue
			}
			fc := part.FunctionCall
			turn.Requests = append(turn.Requests, agent.InvocationRequest{
				Name:          fc.Name,
				Arguments:     argumentsFromCall(fc),
				CorrelationID: fc.ID,
			})
		}
	}
	return turn
}

func argumentsFromCall(fc *genai.FunctionCall) agent.Arguments {
	if fc.Args == nil {
		return agent.NoArguments()
	}
	return agent.ArgumentsFrom(fc.Args)
}

func joinSystem(system string, extra []string) string {
	parts := make([]string, 0, len(extra)+1)
	if system = strings.TrimSpace(system); system != "" {
		parts = append(parts, system)
	}
	parts = append(parts, extra...)
	return strings.Join(parts, "\n\n")
}
