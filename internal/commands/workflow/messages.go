package workflowcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	transitionItemMessageType = "cms.workflow.transition"
	bulkWorkflowMessageType   = "cms.workflow.bulk"
)

// TransitionItemCommand moves one item toward TargetState using the trigger
// priority table.
type TransitionItemCommand struct {
	ItemID      uuid.UUID `json:"item_id"`
	TargetState string    `json:"target_state"`
}

// Type implements command.Message.
func (TransitionItemCommand) Type() string { return transitionItemMessageType }

// Validate ensures the item and target are present.
func (m TransitionItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("cms.workflow.transition.item_id_required", "item_id is required")
	}
	if strings.TrimSpace(m.TargetState) == "" {
		errs["target_state"] = validation.NewError("cms.workflow.transition.target_state_required", "target_state is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkWorkflowCommand applies Outcome to every non-archived item of Kind
// below the folder at Path.
type BulkWorkflowCommand struct {
	// Path is the folder to start from. "/" walks the whole tree.
	Path string `json:"path"`
	// Outcome is one of approve, archive or review ("submit" is accepted for review).
	Outcome string `json:"outcome"`
	// Kind selects page or asset items. Defaults to page.
	Kind string `json:"kind,omitempty"`
}

// Type implements command.Message.
func (BulkWorkflowCommand) Type() string { return bulkWorkflowMessageType }

// Validate checks the path, outcome and kind before the walk starts.
func (m BulkWorkflowCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("cms.workflow.bulk.path_required", "path is required")
			}
			return nil
		})),
		validation.Field(&m.Outcome, validation.By(func(value any) error {
			if _, err := workflow.ParseOutcome(value.(string)); err != nil {
				return validation.NewError("cms.workflow.bulk.outcome_invalid", "outcome must be approve, archive or review")
			}
			return nil
		})),
		validation.Field(&m.Kind, validation.By(func(value any) error {
			if _, ok := parseKind(value.(string)); !ok {
				return validation.NewError("cms.workflow.bulk.kind_invalid", "kind must be page or asset")
			}
			return nil
		})),
	)
}

func parseKind(raw string) (interfaces.ItemKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(interfaces.ItemKindPage):
		return interfaces.ItemKindPage, true
	case string(interfaces.ItemKindAsset):
		return interfaces.ItemKindAsset, true
	default:
		return "", false
	}
}
