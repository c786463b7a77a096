package folders_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-workflow/internal/folders"
	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

func TestWalkerDrivesTreeThroughDefaultWorkflow(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()

	mustFolder(t, svc, "/", "site")
	mustFolder(t, svc, "/site", "news")
	mustFolder(t, svc, "/site/news", "archive")

	home := mustItem(t, svc, "/site", interfaces.ItemKindPage, "home", "")
	about := mustItem(t, svc, "/site", interfaces.ItemKindPage, "about", "QuickEdit")
	logo := mustItem(t, svc, "/site", interfaces.ItemKindAsset, "logo", "")
	story := mustItem(t, svc, "/site/news", interfaces.ItemKindPage, "story", "Review")
	old := mustItem(t, svc, "/site/news/archive", interfaces.ItemKindPage, "old", "Archive")
	draft := mustItem(t, svc, "/site/news/archive", interfaces.ItemKindPage, "draft", "")

	if err := svc.CheckOut(ctx, home.ID, actor); err != nil {
		t.Fatalf("check out: %v", err)
	}

	transitioner := workflow.NewTransitioner(svc)
	walker := workflow.NewWalker(interfaces.ItemKindPage, svc, workflow.NewOutcomeTransitioner(transitioner))

	count, err := walker.Walk(ctx, workflow.OutcomeApprove, "/site")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 pages processed, got %d", count)
	}

	want := map[*folders.Item]string{
		home:  "Pending",
		about: "Live",
		logo:  "Draft",
		story: "Pending",
		old:   "Archive",
		draft: "Pending",
	}
	for item, state := range want {
		stored, err := svc.Item(ctx, item.ID)
		if err != nil {
			t.Fatalf("item %s: %v", item.Title, err)
		}
		if stored.State != state {
			t.Fatalf("%s: expected %s, got %s", item.Title, state, stored.State)
		}
	}

	held, err := svc.IsCheckedOutToCurrentUser(ctx, home.ID)
	if err != nil {
		t.Fatalf("checkout status: %v", err)
	}
	if held {
		t.Fatalf("expected walker to check the page in")
	}
}

func TestWalkerArchivesAssets(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	mustFolder(t, svc, "/", "media")
	logo := mustItem(t, svc, "/media", interfaces.ItemKindAsset, "logo", "Live")
	icon := mustItem(t, svc, "/media", interfaces.ItemKindAsset, "icon", "")

	walker := workflow.NewWalker(interfaces.ItemKindAsset, svc, workflow.NewOutcomeTransitioner(workflow.NewTransitioner(svc)))
	count, err := walker.Walk(ctx, workflow.OutcomeArchive, "/media")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
	for _, item := range []*folders.Item{logo, icon} {
		stored, _ := svc.Item(ctx, item.ID)
		if stored.State != "Archive" {
			t.Fatalf("%s: expected Archive, got %s", item.Title, stored.State)
		}
	}
}
