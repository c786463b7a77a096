package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/google/uuid"
)

func editorialItems() *graphItems {
	return newGraphItems(
		edge{"Draft", "Submit", "Review"},
		edge{"Draft", "Archive", "Archive"},
		edge{"Review", "Approve", "Pending"},
		edge{"Review", "Reject", "Draft"},
		edge{"Pending", "Archive", "Archive"},
		edge{"Pending", "Resubmit", "Draft"},
		edge{"Live", "Resubmit", "Draft"},
		edge{"Live", "Archive", "Archive"},
	)
}

func TestOutcomeTransitionerTargets(t *testing.T) {
	bulk := workflow.NewOutcomeTransitioner(workflow.NewTransitioner(newGraphItems()))
	if bulk.TargetState(workflow.OutcomeApprove) != "Pending" {
		t.Fatalf("approve should target Pending")
	}
	if bulk.TargetState(workflow.OutcomeArchive) != "Archive" {
		t.Fatalf("archive should target Archive")
	}
	if bulk.TargetState(workflow.OutcomeReview) != "Review" {
		t.Fatalf("review should target Review")
	}
}

func TestOutcomeTransitionerMovesEveryItem(t *testing.T) {
	items := editorialItems()
	draft := items.put("Draft")
	live := items.put("Live")
	bulk := workflow.NewOutcomeTransitioner(workflow.NewTransitioner(items))

	if err := bulk.TransitionToReview(context.Background(), []uuid.UUID{draft, live}); err != nil {
		t.Fatalf("review: %v", err)
	}
	if items.state(draft) != "Review" || items.state(live) != "Review" {
		t.Fatalf("expected both in Review, got %s and %s", items.state(draft), items.state(live))
	}

	if err := bulk.TransitionToPending(context.Background(), []uuid.UUID{draft}); err != nil {
		t.Fatalf("pending: %v", err)
	}
	if items.state(draft) != "Pending" {
		t.Fatalf("expected Pending, got %s", items.state(draft))
	}

	if err := bulk.TransitionToArchive(context.Background(), []uuid.UUID{draft, live}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if items.state(draft) != "Archive" || items.state(live) != "Archive" {
		t.Fatalf("expected both archived, got %s and %s", items.state(draft), items.state(live))
	}
}

func TestOutcomeTransitionerStopsAtFirstFailure(t *testing.T) {
	items := editorialItems()
	broken := items.put("Draft")
	untouched := items.put("Draft")
	boom := errors.New("unavailable")
	items.failOn[broken] = boom

	bulk := workflow.NewOutcomeTransitioner(workflow.NewTransitioner(items))
	if err := bulk.TransitionToReview(context.Background(), []uuid.UUID{broken, untouched}); !errors.Is(err, boom) {
		t.Fatalf("expected failure to propagate, got %v", err)
	}
	if items.state(untouched) != "Draft" {
		t.Fatalf("expected later items to be left alone, got %s", items.state(untouched))
	}
}

func TestOutcomeTransitionerHonoursCancellation(t *testing.T) {
	items := editorialItems()
	id := items.put("Draft")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bulk := workflow.NewOutcomeTransitioner(workflow.NewTransitioner(items))
	if err := bulk.TransitionToReview(ctx, []uuid.UUID{id}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
