package cmsworkflow

import (
	"context"

	workflowcmd "github.com/goliatone/go-cms-workflow/internal/commands/workflow"
	"github.com/goliatone/go-cms-workflow/internal/di"
	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/goliatone/go-cms-workflow/internal/folders"
	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

// FolderService exports the content tree service.
type FolderService = folders.Service

// Folder and Item export the content tree records.
type (
	Folder = folders.Folder
	Item   = folders.Item
)

// CreateFolderRequest and CreateItemRequest export the content tree inputs.
type (
	CreateFolderRequest = folders.CreateFolderRequest
	CreateItemRequest   = folders.CreateItemRequest
)

// StateCategory exports the coarse state categories.
type StateCategory = domain.StateCategory

// TransitionResult exports the single item transition summary.
type TransitionResult = workflow.TransitionResult

// Outcome exports the bulk walk outcomes.
type Outcome = workflow.Outcome

// ItemKind exports the content tree node kinds.
type ItemKind = interfaces.ItemKind

// Command messages and handlers.
type (
	TransitionItemCommand = workflowcmd.TransitionItemCommand
	BulkWorkflowCommand   = workflowcmd.BulkWorkflowCommand
	CommandHandlers       = workflowcmd.HandlerSet
)

const (
	ItemKindPage  = interfaces.ItemKindPage
	ItemKindAsset = interfaces.ItemKindAsset
	ItemKindOther = interfaces.ItemKindOther

	OutcomeApprove = workflow.OutcomeApprove
	OutcomeArchive = workflow.OutcomeArchive
	OutcomeReview  = workflow.OutcomeReview
)

var (
	ErrCycleDetected  = workflow.ErrCycleDetected
	ErrNoLegalTrigger = workflow.ErrNoLegalTrigger
	ErrFolderNotFound = workflow.ErrFolderNotFound
	ErrUnknownOutcome = workflow.ErrUnknownOutcome
)

// Option customises module assembly.
type Option = di.Option

var (
	WithBunDB           = di.WithBunDB
	WithCache           = di.WithCache
	WithLoggerProvider  = di.WithLoggerProvider
	WithClock           = di.WithClock
	WithCommandRegistry = di.WithCommandRegistry
	WithCommandOptions  = di.WithCommandOptions
)

// Module is the top level workflow runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a workflow module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Folders returns the content tree service.
func (m *Module) Folders() *FolderService {
	return m.container.FolderService()
}

// Canonicalize maps a state name onto its category using the configured
// approved states.
func (m *Module) Canonicalize(state string) StateCategory {
	return m.container.Canonicalizer().Canonicalize(state)
}

// TransitionTo drives one item toward target and returns its final state.
func (m *Module) TransitionTo(ctx context.Context, itemID uuid.UUID, target string) (string, error) {
	return m.container.Transitioner().TransitionTo(ctx, itemID, target)
}

// Transition is TransitionTo with the fired triggers and visited states.
func (m *Module) Transition(ctx context.Context, itemID uuid.UUID, target string) (*TransitionResult, error) {
	return m.container.Transitioner().Transition(ctx, itemID, target)
}

// Walk applies outcome to every non-archived item of kind below path and
// returns the number of items processed.
func (m *Module) Walk(ctx context.Context, kind ItemKind, outcome, path string) (int, error) {
	parsed, err := workflow.ParseOutcome(outcome)
	if err != nil {
		return 0, err
	}
	walker := m.container.Walker(kind)
	if walker == nil {
		return 0, workflowcmd.ErrWalkerNotConfigured
	}
	return walker.Walk(ctx, parsed, path)
}

// Commands returns the workflow command handlers.
func (m *Module) Commands() *CommandHandlers {
	return m.container.Commands()
}

// SubscribeCommands attaches the command handlers to go-command's
// dispatcher. The returned func detaches them.
func (m *Module) SubscribeCommands(maxRetries int) (func(), error) {
	subs, err := workflowcmd.SubscribeWorkflowCommands(workflowcmd.Dispatcher{MaxRetries: maxRetries}, m.container.Commands())
	if err != nil {
		return nil, err
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}, nil
}
