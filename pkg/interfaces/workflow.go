package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// WorkflowState is a state name as configured by a workflow designer.
type WorkflowState string

// TransitionSnapshot is the workflow status of an item at one point in time.
// It is only valid until the next trigger fires against the item.
type TransitionSnapshot struct {
	ItemID            uuid.UUID
	CurrentState      string
	AvailableTriggers []string
}

// WorkflowStateReader reports the current state of an item together with the
// triggers that are legal from it right now.
type WorkflowStateReader interface {
	Snapshot(ctx context.Context, itemID uuid.UUID) (TransitionSnapshot, error)
}

// TriggerFirer fires a named trigger against an item. Implementations must
// fail when the trigger is not legal from the item's current state.
type TriggerFirer interface {
	FireTrigger(ctx context.Context, itemID uuid.UUID, trigger string) error
}

// WorkflowItemService is the collaborator consumed by the single item engine.
type WorkflowItemService interface {
	WorkflowStateReader
	TriggerFirer
}

// CheckoutService releases outstanding checkouts before bulk work.
type CheckoutService interface {
	IsCheckedOutToCurrentUser(ctx context.Context, itemID uuid.UUID) (bool, error)
	CheckIn(ctx context.Context, itemID uuid.UUID) error
}

// ItemKind classifies a node found while listing a folder.
type ItemKind string

const (
	ItemKindFolder ItemKind = "folder"
	ItemKindPage   ItemKind = "page"
	ItemKindAsset  ItemKind = "asset"
	ItemKindOther  ItemKind = "other"
)

// FolderHandle identifies a resolved folder.
type FolderHandle struct {
	ID   uuid.UUID
	Path string
}

// FolderChild is one immediate child of a folder.
type FolderChild struct {
	ID       uuid.UUID
	Kind     ItemKind
	Path     string
	Archived bool
}

// FolderResolver turns a folder path into a handle.
type FolderResolver interface {
	ResolveFolder(ctx context.Context, path string) (FolderHandle, error)
}

// FolderLister enumerates the immediate children of a folder in a stable order.
type FolderLister interface {
	ListChildren(ctx context.Context, folder FolderHandle) ([]FolderChild, error)
}

// BulkTransitioner moves a batch of items toward one coarse outcome.
type BulkTransitioner interface {
	TransitionToPending(ctx context.Context, itemIDs []uuid.UUID) error
	TransitionToArchive(ctx context.Context, itemIDs []uuid.UUID) error
	TransitionToReview(ctx context.Context, itemIDs []uuid.UUID) error
}

// ContentTree is the full collaborator set consumed by the folder walker.
type ContentTree interface {
	FolderResolver
	FolderLister
	CheckoutService
}

// WorkflowDefinition describes a state machine for a specific entity type.
type WorkflowDefinition struct {
	EntityType   string
	InitialState WorkflowState
	States       []WorkflowStateDefinition
	Transitions  []WorkflowTransition
}

// WorkflowStateDefinition documents a workflow state.
type WorkflowStateDefinition struct {
	Name        WorkflowState
	Description string
	Terminal    bool
}

// WorkflowTransition declares a trigger that moves an item between two states.
type WorkflowTransition struct {
	Name        string
	Description string
	From        WorkflowState
	To          WorkflowState
}
