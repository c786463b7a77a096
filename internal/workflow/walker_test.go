package workflow_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

func ids(children ...interfaces.FolderChild) []uuid.UUID {
	out := make([]uuid.UUID, len(children))
	for i, child := range children {
		out[i] = child.ID
	}
	return out
}

func TestParseOutcome(t *testing.T) {
	cases := map[string]workflow.Outcome{
		"approve":   workflow.OutcomeApprove,
		" Archive ": workflow.OutcomeArchive,
		"review":    workflow.OutcomeReview,
		"submit":    workflow.OutcomeReview,
	}
	for input, want := range cases {
		got, err := workflow.ParseOutcome(input)
		if err != nil {
			t.Fatalf("ParseOutcome(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseOutcome(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := workflow.ParseOutcome("publish"); !errors.Is(err, workflow.ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}

func TestWalkFlushesEachFolderBottomUp(t *testing.T) {
	tree := newMemoryTree()
	a1, a2 := page("/A/one"), page("/A/two")
	b1, b2, b3 := page("/A/B/one"), page("/A/B/two"), page("/A/B/three")
	c1 := page("/A/B/C/one")
	tree.folder("/A", subfolder("/A/B"), a1, a2)
	tree.folder("/A/B", subfolder("/A/B/C"), b1, b2, b3)
	tree.folder("/A/B/C", c1)

	bulk := &recordingBulk{}
	count, err := workflow.NewWalker(interfaces.ItemKindPage, tree, bulk).Walk(context.Background(), workflow.OutcomeApprove, "/A")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6 items, got %d", count)
	}

	want := []bulkCall{
		{method: "pending", ids: ids(c1)},
		{method: "pending", ids: ids(b1, b2, b3)},
		{method: "pending", ids: ids(a1, a2)},
	}
	if !reflect.DeepEqual(bulk.calls, want) {
		t.Fatalf("unexpected bulk calls\n got: %+v\nwant: %+v", bulk.calls, want)
	}
}

func TestWalkSkipsArchivedAndOtherKinds(t *testing.T) {
	tree := newMemoryTree()
	live := asset("/media/logo")
	archived := asset("/media/old")
	archived.Archived = true
	doc := page("/media/readme")
	tree.folder("/media", live, archived, doc)
	tree.checkedOut[archived.ID] = true

	bulk := &recordingBulk{}
	count, err := workflow.NewWalker(interfaces.ItemKindAsset, tree, bulk).Walk(context.Background(), workflow.OutcomeArchive, "/media")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 item, got %d", count)
	}
	if !reflect.DeepEqual(bulk.calls, []bulkCall{{method: "archive", ids: ids(live)}}) {
		t.Fatalf("unexpected bulk calls %+v", bulk.calls)
	}
	for _, id := range tree.queried {
		if id == archived.ID || id == doc.ID {
			t.Fatalf("expected skipped item %s to be left alone", id)
		}
	}
	if len(tree.checkedIn) != 0 {
		t.Fatalf("expected no check-ins, got %v", tree.checkedIn)
	}
}

func TestWalkChecksInItemsHeldByCurrentUser(t *testing.T) {
	tree := newMemoryTree()
	held, free := page("/docs/held"), page("/docs/free")
	tree.folder("/docs", held, free)
	tree.checkedOut[held.ID] = true

	bulk := &recordingBulk{}
	if _, err := workflow.NewWalker(interfaces.ItemKindPage, tree, bulk).Walk(context.Background(), workflow.OutcomeReview, "/docs"); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !reflect.DeepEqual(tree.checkedIn, []uuid.UUID{held.ID}) {
		t.Fatalf("expected only the held item checked in, got %v", tree.checkedIn)
	}
	if len(bulk.calls) != 1 || bulk.calls[0].method != "review" {
		t.Fatalf("expected one review call, got %+v", bulk.calls)
	}
}

func TestWalkFlushesEmptyFolders(t *testing.T) {
	tree := newMemoryTree()
	tree.folder("/empty")

	bulk := &recordingBulk{}
	count, err := workflow.NewWalker(interfaces.ItemKindPage, tree, bulk).Walk(context.Background(), workflow.OutcomeApprove, "/empty")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
	if len(bulk.calls) != 1 || len(bulk.calls[0].ids) != 0 {
		t.Fatalf("expected a single empty flush, got %+v", bulk.calls)
	}
}

func TestWalkMissingFolderAborts(t *testing.T) {
	tree := newMemoryTree()
	tree.folder("/A", subfolder("/A/missing"), page("/A/one"))

	bulk := &recordingBulk{}
	count, err := workflow.NewWalker(interfaces.ItemKindPage, tree, bulk).Walk(context.Background(), workflow.OutcomeApprove, "/A")
	if !errors.Is(err, errFolderMissing) {
		t.Fatalf("expected resolver error, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected count to be dropped, got %d", count)
	}
	if len(bulk.calls) != 0 {
		t.Fatalf("expected no bulk calls, got %+v", bulk.calls)
	}
}

func TestWalkBulkFailureAborts(t *testing.T) {
	tree := newMemoryTree()
	tree.folder("/A", subfolder("/A/B"), page("/A/one"))
	tree.folder("/A/B", page("/A/B/one"))

	boom := errors.New("bulk failed")
	bulk := &recordingBulk{failAt: 1, err: boom}
	count, err := workflow.NewWalker(interfaces.ItemKindPage, tree, bulk).Walk(context.Background(), workflow.OutcomeArchive, "/A")
	if !errors.Is(err, boom) {
		t.Fatalf("expected bulk error, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected count to be dropped, got %d", count)
	}
	if len(bulk.calls) != 1 {
		t.Fatalf("expected the walk to stop after the failing flush, got %d calls", len(bulk.calls))
	}
}

func TestWalkCheckInFailureAborts(t *testing.T) {
	tree := newMemoryTree()
	held := page("/A/held")
	tree.folder("/A", held)
	tree.checkedOut[held.ID] = true
	boom := errors.New("checkin failed")
	tree.checkInErr = boom

	bulk := &recordingBulk{}
	if _, err := workflow.NewWalker(interfaces.ItemKindPage, tree, bulk).Walk(context.Background(), workflow.OutcomeApprove, "/A"); !errors.Is(err, boom) {
		t.Fatalf("expected check-in error, got %v", err)
	}
	if len(bulk.calls) != 0 {
		t.Fatalf("expected no bulk calls, got %+v", bulk.calls)
	}
}

func TestWalkRejectsUnknownOutcome(t *testing.T) {
	tree := newMemoryTree()
	tree.folder("/A")
	_, err := workflow.NewWalker(interfaces.ItemKindPage, tree, &recordingBulk{}).Walk(context.Background(), workflow.Outcome("publish"), "/A")
	if !errors.Is(err, workflow.ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}
