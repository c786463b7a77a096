package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

// Outcome is the coarse target a bulk walk drives items toward.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeArchive Outcome = "archive"
	OutcomeReview  Outcome = "review"
)

// ParseOutcome resolves an outcome name. "submit" is accepted for review.
func ParseOutcome(input string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(OutcomeApprove):
		return OutcomeApprove, nil
	case string(OutcomeArchive):
		return OutcomeArchive, nil
	case string(OutcomeReview), "submit":
		return OutcomeReview, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, input)
	}
}

// Walker applies one outcome to every eligible item of a single kind below a
// folder. Each folder's eligible set is flushed in one bulk call before the
// walk returns to the parent.
type Walker struct {
	kind   interfaces.ItemKind
	tree   interfaces.ContentTree
	bulk   interfaces.BulkTransitioner
	logger interfaces.Logger
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithWalkerLogger injects the walker logger.
func WithWalkerLogger(logger interfaces.Logger) WalkerOption {
	return func(w *Walker) {
		if logger == nil {
			logger = logging.NoOp()
		}
		w.logger = logger
	}
}

// NewWalker builds a walker for pages or assets.
func NewWalker(kind interfaces.ItemKind, tree interfaces.ContentTree, bulk interfaces.BulkTransitioner, opts ...WalkerOption) *Walker {
	w := &Walker{
		kind:   kind,
		tree:   tree,
		bulk:   bulk,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Kind reports the item kind this walker targets.
func (w *Walker) Kind() interfaces.ItemKind {
	return w.kind
}

// Walk processes the subtree rooted at path and returns how many items were
// sent for transition. Any failure aborts the walk and the count is dropped.
func (w *Walker) Walk(ctx context.Context, outcome Outcome, path string) (int, error) {
	flush, err := w.flushFor(outcome)
	if err != nil {
		return 0, err
	}

	logger := logging.WithWalkContext(w.logger, path, string(outcome))
	processed, err := w.walkFolder(ctx, logger, flush, path)
	if err != nil {
		logger.Error("workflow.walk.failed", "kind", string(w.kind), "error", err)
		return 0, err
	}
	logger.Info("workflow.walk.completed", "kind", string(w.kind), "processed", processed)
	return processed, nil
}

func (w *Walker) walkFolder(ctx context.Context, logger interfaces.Logger, flush bulkFunc, path string) (int, error) {
	folder, err := w.tree.ResolveFolder(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("workflow: resolve folder %q: %w", path, err)
	}

	children, err := w.tree.ListChildren(ctx, folder)
	if err != nil {
		return 0, fmt.Errorf("workflow: list folder %q: %w", folder.Path, err)
	}

	total := 0
	eligible := make([]uuid.UUID, 0, len(children))
	for _, child := range children {
		switch {
		case child.Kind == interfaces.ItemKindFolder:
			count, err := w.walkFolder(ctx, logger, flush, child.Path)
			if err != nil {
				return 0, err
			}
			total += count
		case child.Kind == w.kind && !child.Archived:
			if err := w.release(ctx, child.ID); err != nil {
				return 0, err
			}
			eligible = append(eligible, child.ID)
			total++
		}
	}

	logger.Debug("workflow.walk.folder", "folder", folder.Path, "eligible", len(eligible))
	if err := flush(ctx, eligible); err != nil {
		return 0, fmt.Errorf("workflow: bulk transition in %q: %w", folder.Path, err)
	}
	return total, nil
}

func (w *Walker) release(ctx context.Context, itemID uuid.UUID) error {
	checkedOut, err := w.tree.IsCheckedOutToCurrentUser(ctx, itemID)
	if err != nil {
		return fmt.Errorf("workflow: checkout status of %s: %w", itemID, err)
	}
	if !checkedOut {
		return nil
	}
	if err := w.tree.CheckIn(ctx, itemID); err != nil {
		return fmt.Errorf("workflow: check in %s: %w", itemID, err)
	}
	return nil
}

type bulkFunc func(ctx context.Context, itemIDs []uuid.UUID) error

func (w *Walker) flushFor(outcome Outcome) (bulkFunc, error) {
	switch outcome {
	case OutcomeApprove:
		return w.bulk.TransitionToPending, nil
	case OutcomeArchive:
		return w.bulk.TransitionToArchive, nil
	case OutcomeReview:
		return w.bulk.TransitionToReview, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
}
