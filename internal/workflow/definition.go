package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/runtimeconfig"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

var (
	// ErrDefinitionEntityRequired indicates the workflow definition lacks an entity identifier.
	ErrDefinitionEntityRequired = errors.New("workflow: definition entity required")
	// ErrDefinitionStatesRequired indicates the workflow definition does not declare any states.
	ErrDefinitionStatesRequired = errors.New("workflow: definition requires at least one state")
	// ErrStateNameRequired indicates a workflow state is missing its name.
	ErrStateNameRequired = errors.New("workflow: state name required")
	// ErrDuplicateState indicates duplicate workflow state names were declared.
	ErrDuplicateState = errors.New("workflow: duplicate state")
	// ErrDuplicateDefinition indicates multiple definitions were provided for the same entity.
	ErrDuplicateDefinition = errors.New("workflow: duplicate entity definition")
	// ErrTransitionNameRequired indicates a transition lacks a trigger name.
	ErrTransitionNameRequired = errors.New("workflow: transition name required")
	// ErrTransitionStateUnknown indicates a transition references a state that was not declared.
	ErrTransitionStateUnknown = errors.New("workflow: transition references unknown state")
	// ErrDuplicateTransition indicates the same trigger is declared multiple times for a state.
	ErrDuplicateTransition = errors.New("workflow: duplicate transition for state")
	// ErrInitialStateInvalid indicates the supplied initial state flag is inconsistent or unknown.
	ErrInitialStateInvalid = errors.New("workflow: invalid initial state")
)

// CompileDefinitionConfigs converts configured workflows into runtime definitions.
// State names keep the designer's spelling; lookups elsewhere are case-insensitive.
func CompileDefinitionConfigs(configs []runtimeconfig.WorkflowDefinitionConfig) ([]interfaces.WorkflowDefinition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	definitions := make([]interfaces.WorkflowDefinition, 0, len(configs))
	seenEntities := make(map[string]struct{}, len(configs))

	for _, cfg := range configs {
		definition, err := compileDefinitionConfig(cfg)
		if err != nil {
			return nil, err
		}

		if _, exists := seenEntities[definition.EntityType]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDefinition, definition.EntityType)
		}
		seenEntities[definition.EntityType] = struct{}{}
		definitions = append(definitions, definition)
	}

	return definitions, nil
}

func compileDefinitionConfig(cfg runtimeconfig.WorkflowDefinitionConfig) (interfaces.WorkflowDefinition, error) {
	entity := strings.TrimSpace(cfg.Entity)
	if entity == "" {
		return interfaces.WorkflowDefinition{}, ErrDefinitionEntityRequired
	}

	if len(cfg.States) == 0 {
		return interfaces.WorkflowDefinition{}, fmt.Errorf("%w: %s", ErrDefinitionStatesRequired, entity)
	}

	stateMap, stateDefs, initialState, err := compileStates(cfg.States)
	if err != nil {
		return interfaces.WorkflowDefinition{}, err
	}

	transitions, err := compileTransitions(cfg.Transitions, stateMap)
	if err != nil {
		return interfaces.WorkflowDefinition{}, err
	}

	return interfaces.WorkflowDefinition{
		EntityType:   strings.ToLower(entity),
		InitialState: initialState,
		States:       stateDefs,
		Transitions:  transitions,
	}, nil
}

func compileStates(configs []runtimeconfig.WorkflowStateConfig) (map[string]interfaces.WorkflowState, []interfaces.WorkflowStateDefinition, interfaces.WorkflowState, error) {
	result := make(map[string]interfaces.WorkflowState, len(configs))
	ordered := make([]interfaces.WorkflowStateDefinition, 0, len(configs))
	var initial interfaces.WorkflowState
	var initialDeclared bool

	for idx, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, nil, "", fmt.Errorf("%w at index %d", ErrStateNameRequired, idx)
		}
		key := StateKey(name)
		if _, exists := result[key]; exists {
			return nil, nil, "", fmt.Errorf("%w: %s", ErrDuplicateState, name)
		}
		state := interfaces.WorkflowState(name)
		if cfg.Initial {
			if initialDeclared {
				return nil, nil, "", ErrInitialStateInvalid
			}
			initial = state
			initialDeclared = true
		}
		result[key] = state
		ordered = append(ordered, interfaces.WorkflowStateDefinition{
			Name:        state,
			Description: strings.TrimSpace(cfg.Description),
			Terminal:    cfg.Terminal,
		})
	}

	if !initialDeclared {
		initial = ordered[0].Name
	}

	return result, ordered, initial, nil
}

func compileTransitions(configs []runtimeconfig.WorkflowTransitionConfig, states map[string]interfaces.WorkflowState) ([]interfaces.WorkflowTransition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	result := make([]interfaces.WorkflowTransition, 0, len(configs))
	seen := make(map[string]struct{}, len(configs))

	for idx, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, fmt.Errorf("%w at index %d", ErrTransitionNameRequired, idx)
		}

		from, ok := states[StateKey(cfg.From)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, cfg.From)
		}
		to, ok := states[StateKey(cfg.To)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, cfg.To)
		}

		key := TransitionKey(name, from)
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: %s from %s", ErrDuplicateTransition, name, from)
		}
		seen[key] = struct{}{}

		result = append(result, interfaces.WorkflowTransition{
			Name:        name,
			Description: strings.TrimSpace(cfg.Description),
			From:        from,
			To:          to,
		})
	}

	return result, nil
}

// StateKey is the case-insensitive lookup key for a state name.
func StateKey(state string) string {
	return strings.ToLower(strings.TrimSpace(state))
}

// TransitionKey identifies a trigger leaving a state.
func TransitionKey(name string, from interfaces.WorkflowState) string {
	return strings.ToLower(strings.TrimSpace(name)) + "::" + StateKey(string(from))
}
