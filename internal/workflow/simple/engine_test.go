package simple_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/internal/workflow/simple"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/goliatone/go-cms-workflow/pkg/testsupport"
	"github.com/google/uuid"
)

type triggerFixture struct {
	EntityType   string               `json:"entity_type"`
	InitialState string               `json:"initial_state"`
	Steps        []triggerFixtureStep `json:"steps"`
}

type triggerFixtureStep struct {
	Trigger   string `json:"trigger"`
	WantState string `json:"want_state"`
}

func TestEngine_DefaultPageWorkflowFixture(t *testing.T) {
	ctx := context.Background()
	engine := simple.MustNew()

	data, err := testsupport.LoadFixture(filepath.Join("testdata", "page_transitions.json"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	var fixture triggerFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	current := interfaces.WorkflowState(fixture.InitialState)
	for idx, step := range fixture.Steps {
		next, err := engine.Fire(ctx, fixture.EntityType, current, step.Trigger)
		if err != nil {
			t.Fatalf("step %d (%s from %q): %v", idx, step.Trigger, current, err)
		}
		if string(next) != step.WantState {
			t.Fatalf("step %d: expected %s, got %s", idx, step.WantState, next)
		}
		current = next
	}
}

func TestEngine_AvailableTriggersGolden(t *testing.T) {
	ctx := context.Background()
	engine := simple.MustNew()

	var want map[string][]string
	if err := testsupport.LoadGolden(filepath.Join("testdata", "page_available.golden.json"), &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}

	for state, triggers := range want {
		got, err := engine.AvailableTriggers(ctx, simple.EntityTypePage, interfaces.WorkflowState(state))
		if err != nil {
			t.Fatalf("available triggers for %s: %v", state, err)
		}
		if !reflect.DeepEqual(got, triggers) {
			t.Fatalf("available triggers for %s\n got: %v\nwant: %v", state, got, triggers)
		}
	}
}

func TestEngine_StateLookupIgnoresCase(t *testing.T) {
	engine := simple.MustNew()
	next, err := engine.Fire(context.Background(), "PAGE", "review", "approve")
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if next != "Pending" {
		t.Fatalf("expected declared spelling Pending, got %s", next)
	}
}

func TestEngine_Errors(t *testing.T) {
	ctx := context.Background()
	engine := simple.MustNew()

	if _, err := engine.Fire(ctx, "video", "Draft", "Submit"); !errors.Is(err, simple.ErrUnknownEntityType) {
		t.Fatalf("expected ErrUnknownEntityType, got %v", err)
	}
	if _, err := engine.Fire(ctx, simple.EntityTypePage, "Draft", "Approve"); !errors.Is(err, simple.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := engine.AvailableTriggers(ctx, simple.EntityTypePage, "Translation"); !errors.Is(err, simple.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if err := engine.RegisterWorkflow(ctx, interfaces.WorkflowDefinition{}); err == nil {
		t.Fatalf("expected missing entity type to be rejected")
	}
}

func TestEngine_NewRejectsDefinitionWithoutEntityType(t *testing.T) {
	engine, err := simple.New(simple.WithDefinitions(interfaces.WorkflowDefinition{
		InitialState: "Draft",
		States:       []interfaces.WorkflowStateDefinition{{Name: "Draft"}},
	}))
	if !errors.Is(err, simple.ErrEntityTypeRequired) {
		t.Fatalf("expected ErrEntityTypeRequired, got %v", err)
	}
	if engine != nil {
		t.Fatalf("expected no engine, got %+v", engine)
	}
}

func TestEngine_RegisterWorkflowReplacesDefault(t *testing.T) {
	ctx := context.Background()
	engine := simple.MustNew(simple.WithDefinitions(interfaces.WorkflowDefinition{
		EntityType:   "page",
		InitialState: "Draft",
		States: []interfaces.WorkflowStateDefinition{
			{Name: "Draft"},
			{Name: "Translation"},
			{Name: "Live"},
		},
		Transitions: []interfaces.WorkflowTransition{
			{Name: "Translate", From: "Draft", To: "Translation"},
			{Name: "Approve", From: "Translation", To: "Live"},
		},
	}))

	initial, err := engine.InitialState(simple.EntityTypePage)
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}
	triggers, err := engine.AvailableTriggers(ctx, simple.EntityTypePage, initial)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if !reflect.DeepEqual(triggers, []string{"Translate"}) {
		t.Fatalf("expected custom workflow triggers, got %v", triggers)
	}
}

// engineItems tracks per-item state on top of the stateless engine.
type engineItems struct {
	engine *simple.Engine
	entity string
	states map[uuid.UUID]interfaces.WorkflowState
}

func (e *engineItems) Snapshot(ctx context.Context, id uuid.UUID) (interfaces.TransitionSnapshot, error) {
	current := e.states[id]
	triggers, err := e.engine.AvailableTriggers(ctx, e.entity, current)
	if err != nil {
		return interfaces.TransitionSnapshot{}, err
	}
	return interfaces.TransitionSnapshot{ItemID: id, CurrentState: string(current), AvailableTriggers: triggers}, nil
}

func (e *engineItems) FireTrigger(ctx context.Context, id uuid.UUID, trigger string) error {
	next, err := e.engine.Fire(ctx, e.entity, e.states[id], trigger)
	if err != nil {
		return err
	}
	e.states[id] = next
	return nil
}

func TestDefaultWorkflowsReachEveryCategory(t *testing.T) {
	ctx := context.Background()
	engine := simple.MustNew()

	starts := map[string][]string{
		simple.EntityTypePage:  {"Draft", "Review", "Pending", "Live", "QuickEdit"},
		simple.EntityTypeAsset: {"Draft", "Review", "Live", "QuickEdit"},
	}
	targets := []string{"Live", "QuickEdit", "Draft", "Archive", "Review"}

	for entity, states := range starts {
		for _, start := range states {
			for _, target := range targets {
				items := &engineItems{engine: engine, entity: entity, states: map[uuid.UUID]interfaces.WorkflowState{}}
				id := uuid.New()
				items.states[id] = interfaces.WorkflowState(start)

				if _, err := workflow.NewTransitioner(items).TransitionTo(ctx, id, target); err != nil {
					t.Fatalf("%s: %s -> %s: %v", entity, start, target, err)
				}
			}
		}
	}
}
