package simple

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

const (
	// EntityTypePage identifies page items.
	EntityTypePage = "page"
	// EntityTypeAsset identifies asset items.
	EntityTypeAsset = "asset"
)

const statePublishing = "Publishing"

var (
	// ErrUnknownEntityType indicates no workflow definition exists for the requested entity.
	ErrUnknownEntityType = errors.New("workflow: entity type not registered")
	// ErrInvalidTransition indicates the requested trigger is not legal from the current state.
	ErrInvalidTransition = errors.New("workflow: transition not allowed")
	// ErrUnknownState indicates the supplied state is not part of the definition.
	ErrUnknownState = errors.New("workflow: state not declared")
	// ErrEntityTypeRequired indicates a definition without an entity type.
	ErrEntityTypeRequired = errors.New("workflow: entity type required")
)

// Engine is an in-memory state machine keyed by entity type. It holds no
// per-item state; callers pass the current state in and persist the result.
type Engine struct {
	mu          sync.RWMutex
	definitions map[string]*workflowDefinition
}

// Option configures the engine.
type Option func(*Engine) error

// WithDefinitions registers the supplied definitions over the defaults.
func WithDefinitions(definitions ...interfaces.WorkflowDefinition) Option {
	return func(e *Engine) error {
		for i, definition := range definitions {
			if err := e.RegisterWorkflow(context.Background(), definition); err != nil {
				return fmt.Errorf("definition %d: %w", i, err)
			}
		}
		return nil
	}
}

// New constructs an engine seeded with the default page and asset workflows.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{
		definitions: make(map[string]*workflowDefinition),
	}

	defaults := WithDefinitions(DefaultPageWorkflow(), DefaultAssetWorkflow())
	for _, opt := range append([]Option{defaults}, opts...) {
		if opt == nil {
			continue
		}
		if err := opt(engine); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// MustNew is New for definitions known to be valid.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// RegisterWorkflow installs a workflow definition for its entity type.
func (e *Engine) RegisterWorkflow(_ context.Context, definition interfaces.WorkflowDefinition) error {
	key := normalizeEntityType(definition.EntityType)
	if key == "" {
		return ErrEntityTypeRequired
	}
	compiled := compileDefinition(definition)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.definitions[key] = compiled
	return nil
}

// InitialState returns the state new items of the entity type start in.
func (e *Engine) InitialState(entityType string) (interfaces.WorkflowState, error) {
	definition, err := e.definitionFor(entityType)
	if err != nil {
		return "", err
	}
	return definition.definition.InitialState, nil
}

// AvailableTransitions returns the transitions leaving the supplied state, in
// declaration order.
func (e *Engine) AvailableTransitions(_ context.Context, entityType string, state interfaces.WorkflowState) ([]interfaces.WorkflowTransition, error) {
	definition, err := e.definitionFor(entityType)
	if err != nil {
		return nil, err
	}
	canonical, err := definition.resolveState(state)
	if err != nil {
		return nil, err
	}
	transitions := definition.transitionsByState[workflow.StateKey(string(canonical))]
	result := make([]interfaces.WorkflowTransition, len(transitions))
	copy(result, transitions)
	return result, nil
}

// AvailableTriggers lists the trigger names legal from the supplied state.
func (e *Engine) AvailableTriggers(ctx context.Context, entityType string, state interfaces.WorkflowState) ([]string, error) {
	transitions, err := e.AvailableTransitions(ctx, entityType, state)
	if err != nil {
		return nil, err
	}
	triggers := make([]string, len(transitions))
	for i, transition := range transitions {
		triggers[i] = transition.Name
	}
	return triggers, nil
}

// Fire applies the named trigger and returns the resulting state.
func (e *Engine) Fire(_ context.Context, entityType string, state interfaces.WorkflowState, trigger string) (interfaces.WorkflowState, error) {
	definition, err := e.definitionFor(entityType)
	if err != nil {
		return "", err
	}
	canonical, err := definition.resolveState(state)
	if err != nil {
		return "", err
	}
	transition, ok := definition.transitions[workflow.TransitionKey(trigger, canonical)]
	if !ok {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, canonical)
	}
	return transition.To, nil
}

func (e *Engine) definitionFor(entityType string) (*workflowDefinition, error) {
	e.mu.RLock()
	definition, ok := e.definitions[normalizeEntityType(entityType)]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityType, entityType)
	}
	return definition, nil
}

type workflowDefinition struct {
	definition         interfaces.WorkflowDefinition
	states             map[string]interfaces.WorkflowState
	transitions        map[string]interfaces.WorkflowTransition
	transitionsByState map[string][]interfaces.WorkflowTransition
}

func compileDefinition(definition interfaces.WorkflowDefinition) *workflowDefinition {
	compiled := &workflowDefinition{
		definition:         definition,
		states:             make(map[string]interfaces.WorkflowState, len(definition.States)),
		transitions:        make(map[string]interfaces.WorkflowTransition),
		transitionsByState: make(map[string][]interfaces.WorkflowTransition),
	}
	for _, state := range definition.States {
		compiled.states[workflow.StateKey(string(state.Name))] = state.Name
	}
	for _, transition := range definition.Transitions {
		key := workflow.TransitionKey(transition.Name, transition.From)
		compiled.transitions[key] = transition
		fromKey := workflow.StateKey(string(transition.From))
		compiled.transitionsByState[fromKey] = append(compiled.transitionsByState[fromKey], transition)
	}
	return compiled
}

// resolveState maps a stored state onto its declared spelling. An empty state
// resolves to the initial state.
func (d *workflowDefinition) resolveState(state interfaces.WorkflowState) (interfaces.WorkflowState, error) {
	if strings.TrimSpace(string(state)) == "" {
		return d.definition.InitialState, nil
	}
	declared, ok := d.states[workflow.StateKey(string(state))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownState, state)
	}
	return declared, nil
}

func normalizeEntityType(entityType string) string {
	return strings.ToLower(strings.TrimSpace(entityType))
}

func state(name string) interfaces.WorkflowState {
	return interfaces.WorkflowState(name)
}

func transition(trigger domain.Trigger, from, to string) interfaces.WorkflowTransition {
	return interfaces.WorkflowTransition{Name: string(trigger), From: state(from), To: state(to)}
}

// DefaultPageWorkflow is the editorial workflow pages start with.
func DefaultPageWorkflow() interfaces.WorkflowDefinition {
	return interfaces.WorkflowDefinition{
		EntityType:   EntityTypePage,
		InitialState: state(domain.StateDraft),
		States: []interfaces.WorkflowStateDefinition{
			{Name: state(domain.StateDraft), Description: "Draft content awaiting submission"},
			{Name: state(domain.StateReview), Description: "Under editorial review"},
			{Name: state(domain.StatePending), Description: "Approved and waiting to go live"},
			{Name: state(domain.StateLive), Description: "Published and visible"},
			{Name: state(domain.StateQuickEdit), Description: "Live content open for in-place edits"},
			{Name: state(domain.StateArchive), Description: "Archived and hidden", Terminal: true},
		},
		Transitions: []interfaces.WorkflowTransition{
			transition(domain.TriggerSubmit, domain.StateDraft, domain.StateReview),
			transition(domain.TriggerArchive, domain.StateDraft, domain.StateArchive),
			transition(domain.TriggerApprove, domain.StateReview, domain.StatePending),
			transition(domain.TriggerReject, domain.StateReview, domain.StateDraft),
			{Name: statePublishing, From: state(domain.StatePending), To: state(domain.StateLive)},
			transition(domain.TriggerEdit, domain.StatePending, domain.StateQuickEdit),
			transition(domain.TriggerResubmit, domain.StatePending, domain.StateDraft),
			transition(domain.TriggerArchive, domain.StatePending, domain.StateArchive),
			transition(domain.TriggerEdit, domain.StateLive, domain.StateQuickEdit),
			transition(domain.TriggerResubmit, domain.StateLive, domain.StateDraft),
			transition(domain.TriggerArchive, domain.StateLive, domain.StateArchive),
			transition(domain.TriggerApprove, domain.StateQuickEdit, domain.StateLive),
			transition(domain.TriggerResubmit, domain.StateQuickEdit, domain.StateDraft),
			transition(domain.TriggerEdit, domain.StateArchive, domain.StateQuickEdit),
		},
	}
}

// DefaultAssetWorkflow is a shorter workflow without the pending stage.
func DefaultAssetWorkflow() interfaces.WorkflowDefinition {
	return interfaces.WorkflowDefinition{
		EntityType:   EntityTypeAsset,
		InitialState: state(domain.StateDraft),
		States: []interfaces.WorkflowStateDefinition{
			{Name: state(domain.StateDraft), Description: "Uploaded, not yet reviewed"},
			{Name: state(domain.StateReview), Description: "Awaiting approval"},
			{Name: state(domain.StateLive), Description: "Available to pages"},
			{Name: state(domain.StateQuickEdit), Description: "Metadata being edited"},
			{Name: state(domain.StateArchive), Description: "Withdrawn", Terminal: true},
		},
		Transitions: []interfaces.WorkflowTransition{
			transition(domain.TriggerSubmit, domain.StateDraft, domain.StateReview),
			transition(domain.TriggerApprove, domain.StateDraft, domain.StateLive),
			transition(domain.TriggerArchive, domain.StateDraft, domain.StateArchive),
			transition(domain.TriggerApprove, domain.StateReview, domain.StateLive),
			transition(domain.TriggerReject, domain.StateReview, domain.StateDraft),
			transition(domain.TriggerEdit, domain.StateLive, domain.StateQuickEdit),
			transition(domain.TriggerResubmit, domain.StateLive, domain.StateDraft),
			transition(domain.TriggerArchive, domain.StateLive, domain.StateArchive),
			transition(domain.TriggerApprove, domain.StateQuickEdit, domain.StateLive),
			transition(domain.TriggerSubmit, domain.StateQuickEdit, domain.StateReview),
			transition(domain.TriggerResubmit, domain.StateQuickEdit, domain.StateDraft),
			transition(domain.TriggerEdit, domain.StateArchive, domain.StateQuickEdit),
		},
	}
}
