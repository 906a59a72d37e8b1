package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/logger"
	"github.com/nbnam/cv-agent/internal/session"
)

// ErrorPrefix marks a capability result that reports a failure instead
// of an output. The model sees the marker and can react to it.
const ErrorPrefix = "ERROR:"

// DefaultMaxTurns bounds how many model round trips a single Run may
// take before giving up.
const DefaultMaxTurns = 16

// ErrTurnBudget is returned when the model keeps requesting
// capabilities past the turn limit without producing a final answer.
var ErrTurnBudget = errors.New("turn budget exhausted")

// Turn is one model response: its text plus any capability
// invocations it wants executed.
type Turn struct {
	Text     string
	Requests []InvocationRequest
}

// ModelClient produces one conversational turn from the transcript so
// far and the capabilities on offer.
type ModelClient interface {
	Converse(ctx context.Context, system string, msgs []Message, capabilities []*Descriptor) (*Turn, error)
}

// Agent runs the capability-calling loop.
type Agent struct {
	model    ModelClient
	registry *Registry
	system   string
	maxTurns int
	logger   *zap.Logger
}

// New returns an agent over the given model and registry. maxTurns
// values below one fall back to DefaultMaxTurns.
func New(model ModelClient, registry *Registry, system string, maxTurns int, log *zap.Logger) *Agent {
	if maxTurns < 1 {
		maxTurns = DefaultMaxTurns
	}
	return &Agent{
		model:    model,
		registry: registry,
		system:   system,
		maxTurns: maxTurns,
		logger:   log,
	}
}

// Run drives the loop for one user input on top of an optional prior
// transcript. Each model turn is appended to the transcript before its
// requests execute, so every result message follows the assistant
// message that asked for it. Requests run sequentially in the order
// the model proposed them, and a failing capability feeds an error
// marker back to the model rather than aborting the run. Run returns
// the model's first text-only answer.
func (a *Agent) Run(ctx context.Context, conv *session.Context, history []any, input string) (string, error) {
	msgs := Normalize(history)
	msgs = append(msgs, User(input))

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.model.Converse(ctx, a.system, msgs, a.registry.Descriptors())
		if err != nil {
			return "", fmt.Errorf("model turn %d: %w", turn+1, err)
		}

		if len(resp.Requests) == 0 {
			return resp.Text, nil
		}

		msgs = append(msgs, Assistant(resp.Text, resp.Requests...))
		for _, req := range resp.Requests {
			output := a.execute(ctx, conv, req)
			msgs = append(msgs, CapabilityResult(req.Name, output, req.CorrelationID))
		}
	}

	return "", fmt.Errorf("%w after %d turns", ErrTurnBudget, a.maxTurns)
}

func (a *Agent) execute(ctx context.Context, conv *session.Context, req InvocationRequest) string {
	desc, ok := a.registry.Resolve(req.Name)
	if !ok {
		a.logger.Warn("unknown capability requested", zap.String(logger.FieldCapability, req.Name))
		return fmt.Sprintf("%s capability %q not found", ErrorPrefix, req.Name)
	}

	params := req.Arguments.Coerce(desc.Parameters)
	a.logger.Debug("invoking capability",
		zap.String(logger.FieldCapability, req.Name),
		zap.Int("params", len(params)),
	)

	output, err := desc.Handler(ctx, params, conv)
	if err != nil {
		a.logger.Warn("capability failed",
			zap.String(logger.FieldCapability, req.Name),
			zap.Error(err),
		)
		return fmt.Sprintf("%s %s", ErrorPrefix, err.Error())
	}
	return output
}
