package workflow

import (
	"context"

	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

// OutcomeTransitioner satisfies interfaces.BulkTransitioner by driving every
// item in the batch through the Transitioner, stopping at the first failure.
type OutcomeTransitioner struct {
	transitioner *Transitioner
	targets      map[Outcome]string
}

var _ interfaces.BulkTransitioner = (*OutcomeTransitioner)(nil)

// NewOutcomeTransitioner maps approve, archive and review onto Pending,
// Archive and Review.
func NewOutcomeTransitioner(transitioner *Transitioner) *OutcomeTransitioner {
	return &OutcomeTransitioner{
		transitioner: transitioner,
		targets: map[Outcome]string{
			OutcomeApprove: domain.StatePending,
			OutcomeArchive: domain.StateArchive,
			OutcomeReview:  domain.StateReview,
		},
	}
}

// TargetState returns the state an outcome moves items into.
func (o *OutcomeTransitioner) TargetState(outcome Outcome) string {
	return o.targets[outcome]
}

func (o *OutcomeTransitioner) TransitionToPending(ctx context.Context, itemIDs []uuid.UUID) error {
	return o.apply(ctx, OutcomeApprove, itemIDs)
}

func (o *OutcomeTransitioner) TransitionToArchive(ctx context.Context, itemIDs []uuid.UUID) error {
	return o.apply(ctx, OutcomeArchive, itemIDs)
}

func (o *OutcomeTransitioner) TransitionToReview(ctx context.Context, itemIDs []uuid.UUID) error {
	return o.apply(ctx, OutcomeReview, itemIDs)
}

func (o *OutcomeTransitioner) apply(ctx context.Context, outcome Outcome, itemIDs []uuid.UUID) error {
	target := o.targets[outcome]
	for _, id := range itemIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := o.transitioner.TransitionTo(ctx, id, target); err != nil {
			return err
		}
	}
	return nil
}
