package workflowcmd

import (
	"fmt"

	"github.com/goliatone/go-cms-workflow/internal/commands"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// Dispatcher subscribes workflow handlers to go-command's process-wide
// dispatcher so callers can use dispatcher.Dispatch with workflow messages.
type Dispatcher struct {
	// MaxRetries is forwarded to the go-command runner for every subscription.
	MaxRetries int
}

var _ commands.CommandDispatcher = Dispatcher{}

// RegisterCommand subscribes a handler built by this package.
func (d Dispatcher) RegisterCommand(handler any) (commands.CommandSubscription, error) {
	switch h := handler.(type) {
	case *TransitionItemHandler:
		return dispatcher.SubscribeCommand(h, runner.WithMaxRetries(d.MaxRetries)), nil
	case *BulkWorkflowHandler:
		return dispatcher.SubscribeCommand(h, runner.WithMaxRetries(d.MaxRetries)), nil
	default:
		return nil, fmt.Errorf("workflowcmd: unsupported handler %T", handler)
	}
}
