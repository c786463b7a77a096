package folders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// RootPath addresses the top of the tree. It holds folders only.
const RootPath = "/"

// StateMachine answers which triggers are legal and applies them. Items carry
// their own state; the machine is keyed by item kind.
type StateMachine interface {
	InitialState(entityType string) (interfaces.WorkflowState, error)
	AvailableTriggers(ctx context.Context, entityType string, state interfaces.WorkflowState) ([]string, error)
	Fire(ctx context.Context, entityType string, state interfaces.WorkflowState, trigger string) (interfaces.WorkflowState, error)
}

// CreateFolderRequest captures the fields required to add a folder.
type CreateFolderRequest struct {
	ParentPath string
	Name       string
}

// CreateItemRequest captures the fields required to add an item. An empty
// State starts the item in its workflow's initial state.
type CreateItemRequest struct {
	FolderPath string
	Kind       interfaces.ItemKind
	Title      string
	State      string
}

// Service is the content tree the workflow engine operates on. It satisfies
// interfaces.WorkflowItemService and interfaces.ContentTree.
type Service struct {
	folders       FolderRepository
	items         ItemRepository
	machine       StateMachine
	canonicalizer domain.Canonicalizer
	actor         uuid.UUID
	now           func() time.Time
	logger        interfaces.Logger
}

var (
	_ interfaces.WorkflowItemService = (*Service)(nil)
	_ interfaces.ContentTree         = (*Service)(nil)
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*Service)

// WithActor sets the user treated as "current" for checkout queries.
func WithActor(actor uuid.UUID) ServiceOption {
	return func(s *Service) {
		s.actor = actor
	}
}

// WithCanonicalizer sets the approved-state set used to flag archived items.
func WithCanonicalizer(c domain.Canonicalizer) ServiceOption {
	return func(s *Service) {
		s.canonicalizer = c
	}
}

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger injects the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the repositories and state machine.
func NewService(folders FolderRepository, items ItemRepository, machine StateMachine, opts ...ServiceOption) *Service {
	s := &Service{
		folders:       folders,
		items:         items,
		machine:       machine,
		canonicalizer: domain.NewCanonicalizer(),
		now:           time.Now,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Actor returns the configured current user.
func (s *Service) Actor() uuid.UUID {
	return s.actor
}

// CreateFolder adds a folder below ParentPath.
func (s *Service) CreateFolder(ctx context.Context, req CreateFolderRequest) (*Folder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}
	folderSlug, err := slug.Normalize(name)
	if err != nil || folderSlug == "" {
		return nil, fmt.Errorf("%w: %q", ErrFolderNameInvalid, name)
	}

	parent, err := s.ResolveFolder(ctx, req.ParentPath)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Folder{
		ID:        uuid.New(),
		Name:      name,
		Slug:      folderSlug,
		Path:      joinPath(parent.Path, folderSlug),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parent.ID != uuid.Nil {
		parentID := parent.ID
		record.ParentID = &parentID
	}

	created, err := s.folders.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("folders.folder.created", "folder_path", created.Path)
	return created, nil
}

// CreateItem adds a page, asset or other item to a folder.
func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	switch req.Kind {
	case interfaces.ItemKindPage, interfaces.ItemKindAsset, interfaces.ItemKindOther:
	default:
		return nil, fmt.Errorf("%w: %q", ErrItemKindInvalid, req.Kind)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrItemTitleRequired
	}
	itemSlug, err := slug.Normalize(title)
	if err != nil {
		return nil, fmt.Errorf("folders: normalize item title %q: %w", title, err)
	}

	folder, err := s.ResolveFolder(ctx, req.FolderPath)
	if err != nil {
		return nil, err
	}
	if folder.ID == uuid.Nil {
		return nil, fmt.Errorf("folders: items cannot live at %s", RootPath)
	}

	state := strings.TrimSpace(req.State)
	if state == "" {
		initial, err := s.machine.InitialState(string(req.Kind))
		if err != nil {
			return nil, err
		}
		state = string(initial)
	}

	now := s.now().UTC()
	created, err := s.items.Create(ctx, &Item{
		ID:        uuid.New(),
		FolderID:  folder.ID,
		Kind:      string(req.Kind),
		Title:     title,
		Slug:      itemSlug,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	logging.WithItem(s.logger, created.ID).Debug("folders.item.created", "folder_path", folder.Path, "state", created.State)
	return created, nil
}

// Item fetches an item by id.
func (s *Service) Item(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.items.GetByID(ctx, id)
}

// CheckOut locks the item for the user. Re-checking out to the same user is a no-op.
func (s *Service) CheckOut(ctx context.Context, id, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUserRequired
	}
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.CheckedOutBy != nil {
		if *item.CheckedOutBy == userID {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrItemCheckedOut, id)
	}
	item.CheckedOutBy = &userID
	item.UpdatedAt = s.now().UTC()
	_, err = s.items.Update(ctx, item)
	return err
}

// IsCheckedOutToCurrentUser reports whether the configured actor holds the item.
func (s *Service) IsCheckedOutToCurrentUser(ctx context.Context, id uuid.UUID) (bool, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if s.actor == uuid.Nil || item.CheckedOutBy == nil {
		return false, nil
	}
	return *item.CheckedOutBy == s.actor, nil
}

// CheckIn releases the item's checkout.
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.CheckedOutBy == nil {
		return nil
	}
	item.CheckedOutBy = nil
	item.UpdatedAt = s.now().UTC()
	if _, err := s.items.Update(ctx, item); err != nil {
		return err
	}
	logging.WithItem(s.logger, id).Debug("folders.item.checked_in")
	return nil
}

// Snapshot reads the item's state and asks the state machine what is legal now.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (interfaces.TransitionSnapshot, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return interfaces.TransitionSnapshot{}, err
	}
	triggers, err := s.machine.AvailableTriggers(ctx, item.Kind, interfaces.WorkflowState(item.State))
	if err != nil {
		return interfaces.TransitionSnapshot{}, err
	}
	return interfaces.TransitionSnapshot{
		ItemID:            item.ID,
		CurrentState:      item.State,
		AvailableTriggers: triggers,
	}, nil
}

// FireTrigger applies the trigger and persists the resulting state.
func (s *Service) FireTrigger(ctx context.Context, id uuid.UUID, trigger string) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	next, err := s.machine.Fire(ctx, item.Kind, interfaces.WorkflowState(item.State), trigger)
	if err != nil {
		return err
	}
	from := item.State
	item.State = string(next)
	item.UpdatedAt = s.now().UTC()
	if _, err := s.items.Update(ctx, item); err != nil {
		return err
	}
	logging.WithItem(s.logger, id).Debug("folders.item.state_changed", "trigger", trigger, "from", from, "to", item.State)
	return nil
}

// ResolveFolder normalizes each path segment with go-slug and looks the
// folder up. The empty path and "/" resolve to the root handle.
func (s *Service) ResolveFolder(ctx context.Context, path string) (interfaces.FolderHandle, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return interfaces.FolderHandle{}, err
	}
	if normalized == RootPath {
		return interfaces.FolderHandle{Path: RootPath}, nil
	}
	folder, err := s.folders.GetByPath(ctx, normalized)
	if err != nil {
		return interfaces.FolderHandle{}, err
	}
	return interfaces.FolderHandle{ID: folder.ID, Path: folder.Path}, nil
}

// ListChildren returns subfolders ordered by name followed by items ordered
// by title.
func (s *Service) ListChildren(ctx context.Context, handle interfaces.FolderHandle) ([]interfaces.FolderChild, error) {
	var parentID *uuid.UUID
	basePath := RootPath
	if handle.ID != uuid.Nil {
		folder, err := s.folders.GetByID(ctx, handle.ID)
		if err != nil {
			return nil, err
		}
		id := folder.ID
		parentID = &id
		basePath = folder.Path
	}

	subfolders, err := s.folders.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	children := make([]interfaces.FolderChild, 0, len(subfolders))
	for _, folder := range subfolders {
		children = append(children, interfaces.FolderChild{
			ID:   folder.ID,
			Kind: interfaces.ItemKindFolder,
			Path: folder.Path,
		})
	}
	if parentID == nil {
		return children, nil
	}

	items, err := s.items.ListByFolder(ctx, *parentID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		children = append(children, interfaces.FolderChild{
			ID:       item.ID,
			Kind:     interfaces.ItemKind(item.Kind),
			Path:     joinPath(basePath, item.Slug),
			Archived: s.canonicalizer.Canonicalize(item.State) == domain.CategoryArchive,
		})
	}
	return children, nil
}

// NormalizePath slugifies every segment of a slash separated path.
func NormalizePath(path string) (string, error) {
	segments := strings.Split(strings.TrimSpace(path), "/")
	normalized := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		value, err := slug.Normalize(segment)
		if err != nil {
			return "", fmt.Errorf("folders: normalize path segment %q: %w", segment, err)
		}
		if value == "" {
			return "", &FolderNotFoundError{Key: path}
		}
		normalized = append(normalized, value)
	}
	return RootPath + strings.Join(normalized, "/"), nil
}

func joinPath(parent, segment string) string {
	if parent == RootPath || parent == "" {
		return RootPath + segment
	}
	return parent + "/" + segment
}
