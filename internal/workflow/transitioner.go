package workflow

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

// Transitioner drives a single item toward a requested state by repeatedly
// firing the most preferred legal trigger. It never sees the workflow graph;
// each hop only observes what is legal right now.
type Transitioner struct {
	items         interfaces.WorkflowItemService
	priorities    PriorityTable
	canonicalizer domain.Canonicalizer
	logger        interfaces.Logger
}

// TransitionerOption configures a Transitioner.
type TransitionerOption func(*Transitioner)

// WithPriorityTable swaps the trigger preferences.
func WithPriorityTable(table PriorityTable) TransitionerOption {
	return func(t *Transitioner) {
		t.priorities = table
	}
}

// WithCanonicalizer swaps the approved-state set used to compare states.
func WithCanonicalizer(c domain.Canonicalizer) TransitionerOption {
	return func(t *Transitioner) {
		t.canonicalizer = c
	}
}

// WithLogger injects the logger used for hop tracing.
func WithLogger(logger interfaces.Logger) TransitionerOption {
	return func(t *Transitioner) {
		if logger == nil {
			logger = logging.NoOp()
		}
		t.logger = logger
	}
}

// NewTransitioner builds a transitioner over the item service.
func NewTransitioner(items interfaces.WorkflowItemService, opts ...TransitionerOption) *Transitioner {
	t := &Transitioner{
		items:         items,
		priorities:    DefaultPriorityTable(),
		canonicalizer: domain.NewCanonicalizer(),
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// TransitionResult summarises one TransitionTo call.
type TransitionResult struct {
	ItemID    uuid.UUID
	Requested string
	FromState string
	ToState   string
	Fired     []domain.Trigger
	Visited   []string
}

// Hops is the number of triggers fired.
func (r *TransitionResult) Hops() int {
	return len(r.Fired)
}

// TransitionTo moves the item until its state shares a category with the
// requested state and returns the final state name.
func (t *Transitioner) TransitionTo(ctx context.Context, itemID uuid.UUID, requested string) (string, error) {
	result, err := t.Transition(ctx, itemID, requested)
	if err != nil {
		return "", err
	}
	return result.ToState, nil
}

// Transition is TransitionTo with the path taken.
func (t *Transitioner) Transition(ctx context.Context, itemID uuid.UUID, requested string) (*TransitionResult, error) {
	if itemID == uuid.Nil {
		return nil, ErrNilItemID
	}

	logger := logging.WithItem(t.logger, itemID)
	result := &TransitionResult{
		ItemID:    itemID,
		Requested: requested,
	}
	if err := t.hop(ctx, logger, result); err != nil {
		logger.Error("workflow.transition.failed", "requested", requested, "hops", result.Hops(), "error", err)
		return nil, err
	}

	logger.Info("workflow.transition.completed",
		"requested", requested,
		"from", result.FromState,
		"to", result.ToState,
		"hops", result.Hops(),
	)
	return result, nil
}

// hop runs one query-then-fire cycle and recurses until the target category
// is reached. result.Visited is the cycle log for this call only.
func (t *Transitioner) hop(ctx context.Context, logger interfaces.Logger, result *TransitionResult) error {
	snapshot, err := t.items.Snapshot(ctx, result.ItemID)
	if err != nil {
		return fmt.Errorf("workflow: snapshot item %s: %w", result.ItemID, err)
	}
	if len(result.Visited) == 0 {
		result.FromState = snapshot.CurrentState
	}

	current := t.canonicalizer.Canonicalize(snapshot.CurrentState)
	target := t.canonicalizer.Canonicalize(result.Requested)
	if current == target {
		result.ToState = snapshot.CurrentState
		return nil
	}

	for _, seen := range result.Visited {
		if domain.SameState(seen, snapshot.CurrentState) {
			return &CycleDetectedError{
				ItemID:    result.ItemID,
				Requested: result.Requested,
				Current:   snapshot.CurrentState,
				Visited:   cloneStrings(result.Visited),
			}
		}
	}
	result.Visited = append(result.Visited, snapshot.CurrentState)

	candidates := t.priorities.TriggersFor(target)
	chosen, trigger, ok := selectTrigger(candidates, snapshot.AvailableTriggers)
	if !ok {
		return &NoLegalTriggerError{
			ItemID:     result.ItemID,
			Requested:  result.Requested,
			Current:    snapshot.CurrentState,
			Candidates: candidates,
			Available:  cloneStrings(snapshot.AvailableTriggers),
			Visited:    cloneStrings(result.Visited),
		}
	}

	logger.Debug("workflow.transition.hop",
		"state", snapshot.CurrentState,
		"category", string(current),
		"target", string(target),
		"trigger", trigger,
	)
	if err := t.items.FireTrigger(ctx, result.ItemID, trigger); err != nil {
		return fmt.Errorf("workflow: fire %s on item %s: %w", trigger, result.ItemID, err)
	}
	result.Fired = append(result.Fired, chosen)

	return t.hop(ctx, logger, result)
}

// selectTrigger returns the available name matching the first candidate that
// is legal. The collaborator's own spelling is returned so it can be fired as-is.
func selectTrigger(candidates []domain.Trigger, available []string) (domain.Trigger, string, bool) {
	for _, candidate := range candidates {
		for _, name := range available {
			if candidate.Matches(name) {
				return candidate, name, true
			}
		}
	}
	return "", "", false
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
