package workflowcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-workflow/internal/commands"
	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	textCodeCycleDetected  = "WORKFLOW_CYCLE_DETECTED"
	textCodeNoLegalTrigger = "WORKFLOW_NO_LEGAL_TRIGGER"
	textCodeFolderNotFound = "WORKFLOW_FOLDER_NOT_FOUND"
	textCodeWalkerMissing  = "WORKFLOW_WALKER_NOT_CONFIGURED"
)

// ErrWalkerNotConfigured is returned when no walker handles the requested kind.
var ErrWalkerNotConfigured = errors.New("workflowcmd: no walker configured for kind")

// ItemTransitioner is the single item engine consumed by TransitionItemHandler.
type ItemTransitioner interface {
	Transition(ctx context.Context, itemID uuid.UUID, requested string) (*workflow.TransitionResult, error)
}

// TreeWalker is the bulk walker consumed by BulkWorkflowHandler.
type TreeWalker interface {
	Kind() interfaces.ItemKind
	Walk(ctx context.Context, outcome workflow.Outcome, path string) (int, error)
}

// TransitionObserver receives the result of a successful transition.
type TransitionObserver func(ctx context.Context, msg TransitionItemCommand, result *workflow.TransitionResult)

// WalkObserver receives the number of items a successful walk processed.
type WalkObserver func(ctx context.Context, msg BulkWorkflowCommand, processed int)

// TransitionItemHandler runs TransitionItemCommand through the shared handler.
type TransitionItemHandler struct {
	inner *commands.Handler[TransitionItemCommand]
}

// NewTransitionItemHandler wires the handler to the transitioner.
func NewTransitionItemHandler(transitioner ItemTransitioner, logger interfaces.Logger, observer TransitionObserver, opts ...commands.HandlerOption[TransitionItemCommand]) *TransitionItemHandler {
	exec := func(ctx context.Context, msg TransitionItemCommand) error {
		result, err := transitioner.Transition(ctx, msg.ItemID, msg.TargetState)
		if err != nil {
			return mapWorkflowError(err)
		}
		if observer != nil {
			observer(ctx, msg, result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[TransitionItemCommand]{
		commands.WithLogger[TransitionItemCommand](logger),
		commands.WithOperation[TransitionItemCommand]("workflow.transition_item"),
		commands.WithMessageFields(func(msg TransitionItemCommand) map[string]any {
			return map[string]any{
				"item_id":      msg.ItemID,
				"target_state": msg.TargetState,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TransitionItemHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TransitionItemCommand].
func (h *TransitionItemHandler) Execute(ctx context.Context, msg TransitionItemCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BulkWorkflowHandler runs BulkWorkflowCommand against the walker for the
// requested kind.
type BulkWorkflowHandler struct {
	inner *commands.Handler[BulkWorkflowCommand]
}

// NewBulkWorkflowHandler wires the handler to one walker per item kind.
func NewBulkWorkflowHandler(walkers []TreeWalker, logger interfaces.Logger, observer WalkObserver, opts ...commands.HandlerOption[BulkWorkflowCommand]) *BulkWorkflowHandler {
	byKind := make(map[interfaces.ItemKind]TreeWalker, len(walkers))
	for _, walker := range walkers {
		if walker != nil {
			byKind[walker.Kind()] = walker
		}
	}

	exec := func(ctx context.Context, msg BulkWorkflowCommand) error {
		outcome, err := workflow.ParseOutcome(msg.Outcome)
		if err != nil {
			return err
		}
		kind, _ := parseKind(msg.Kind)
		walker, ok := byKind[kind]
		if !ok {
			return goerrors.Wrap(fmt.Errorf("%w: %s", ErrWalkerNotConfigured, kind), goerrors.CategoryCommand, "bulk workflow walker missing").
				WithTextCode(textCodeWalkerMissing)
		}
		processed, err := walker.Walk(ctx, outcome, msg.Path)
		if err != nil {
			return mapWorkflowError(err)
		}
		if observer != nil {
			observer(ctx, msg, processed)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BulkWorkflowCommand]{
		commands.WithLogger[BulkWorkflowCommand](logger),
		commands.WithOperation[BulkWorkflowCommand]("workflow.bulk"),
		commands.WithMessageFields(func(msg BulkWorkflowCommand) map[string]any {
			return map[string]any{
				"path":    msg.Path,
				"outcome": msg.Outcome,
				"kind":    msg.Kind,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BulkWorkflowHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BulkWorkflowCommand].
func (h *BulkWorkflowHandler) Execute(ctx context.Context, msg BulkWorkflowCommand) error {
	return h.inner.Execute(ctx, msg)
}

func mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrCycleDetected):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow transition cycle detected").
			WithTextCode(textCodeCycleDetected)
	case errors.Is(err, workflow.ErrNoLegalTrigger):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow has no legal trigger toward target").
			WithTextCode(textCodeNoLegalTrigger)
	case errors.Is(err, workflow.ErrFolderNotFound):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow folder not found").
			WithTextCode(textCodeFolderNotFound)
	default:
		return err
	}
}
