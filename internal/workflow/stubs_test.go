package workflow_test

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

type edge struct {
	from    string
	trigger string
	to      string
}

// graphItems is a WorkflowItemService backed by a fixed list of edges.
type graphItems struct {
	mu          sync.Mutex
	edges       []edge
	states      map[uuid.UUID]string
	fired       []string
	snapshotErr error
	fireErr     error
	failOn      map[uuid.UUID]error
}

func newGraphItems(edges ...edge) *graphItems {
	return &graphItems{
		edges:  edges,
		states: make(map[uuid.UUID]string),
		failOn: make(map[uuid.UUID]error),
	}
}

func (g *graphItems) put(state string) uuid.UUID {
	id := uuid.New()
	g.mu.Lock()
	g.states[id] = state
	g.mu.Unlock()
	return id
}

func (g *graphItems) reset(id uuid.UUID, state string) {
	g.mu.Lock()
	g.states[id] = state
	g.mu.Unlock()
}

func (g *graphItems) state(id uuid.UUID) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.states[id]
}

func (g *graphItems) Snapshot(_ context.Context, id uuid.UUID) (interfaces.TransitionSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.snapshotErr != nil {
		return interfaces.TransitionSnapshot{}, g.snapshotErr
	}
	if err, ok := g.failOn[id]; ok {
		return interfaces.TransitionSnapshot{}, err
	}
	current, ok := g.states[id]
	if !ok {
		return interfaces.TransitionSnapshot{}, errors.New("item not found")
	}
	var available []string
	for _, e := range g.edges {
		if e.from == current {
			available = append(available, e.trigger)
		}
	}
	return interfaces.TransitionSnapshot{ItemID: id, CurrentState: current, AvailableTriggers: available}, nil
}

func (g *graphItems) FireTrigger(_ context.Context, id uuid.UUID, trigger string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fireErr != nil {
		return g.fireErr
	}
	current := g.states[id]
	for _, e := range g.edges {
		if e.from == current && e.trigger == trigger {
			g.states[id] = e.to
			g.fired = append(g.fired, trigger)
			return nil
		}
	}
	return errors.New("illegal trigger " + trigger)
}

func (g *graphItems) firedTriggers() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.fired))
	copy(out, g.fired)
	return out
}

// memoryTree is a ContentTree over a path keyed folder map.
type memoryTree struct {
	folders    map[string][]interfaces.FolderChild
	checkedOut map[uuid.UUID]bool
	checkedIn  []uuid.UUID
	queried    []uuid.UUID
	listErr    error
	checkInErr error
}

func newMemoryTree() *memoryTree {
	return &memoryTree{
		folders:    make(map[string][]interfaces.FolderChild),
		checkedOut: make(map[uuid.UUID]bool),
	}
}

func (m *memoryTree) folder(path string, children ...interfaces.FolderChild) {
	m.folders[path] = append(m.folders[path], children...)
}

func (m *memoryTree) ResolveFolder(_ context.Context, path string) (interfaces.FolderHandle, error) {
	if _, ok := m.folders[path]; !ok {
		return interfaces.FolderHandle{}, errFolderMissing
	}
	return interfaces.FolderHandle{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(path)), Path: path}, nil
}

func (m *memoryTree) ListChildren(_ context.Context, folder interfaces.FolderHandle) ([]interfaces.FolderChild, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.folders[folder.Path], nil
}

func (m *memoryTree) IsCheckedOutToCurrentUser(_ context.Context, id uuid.UUID) (bool, error) {
	m.queried = append(m.queried, id)
	return m.checkedOut[id], nil
}

func (m *memoryTree) CheckIn(_ context.Context, id uuid.UUID) error {
	if m.checkInErr != nil {
		return m.checkInErr
	}
	m.checkedIn = append(m.checkedIn, id)
	m.checkedOut[id] = false
	return nil
}

var errFolderMissing = errors.New("folder missing")

type bulkCall struct {
	method string
	ids    []uuid.UUID
}

type recordingBulk struct {
	calls  []bulkCall
	failAt int
	err    error
}

func (r *recordingBulk) record(method string, ids []uuid.UUID) error {
	copied := make([]uuid.UUID, len(ids))
	copy(copied, ids)
	r.calls = append(r.calls, bulkCall{method: method, ids: copied})
	if r.err != nil && len(r.calls) == r.failAt {
		return r.err
	}
	return nil
}

func (r *recordingBulk) TransitionToPending(_ context.Context, ids []uuid.UUID) error {
	return r.record("pending", ids)
}

func (r *recordingBulk) TransitionToArchive(_ context.Context, ids []uuid.UUID) error {
	return r.record("archive", ids)
}

func (r *recordingBulk) TransitionToReview(_ context.Context, ids []uuid.UUID) error {
	return r.record("review", ids)
}

func page(path string) interfaces.FolderChild {
	return interfaces.FolderChild{ID: uuid.New(), Kind: interfaces.ItemKindPage, Path: path}
}

func asset(path string) interfaces.FolderChild {
	return interfaces.FolderChild{ID: uuid.New(), Kind: interfaces.ItemKindAsset, Path: path}
}

func subfolder(path string) interfaces.FolderChild {
	return interfaces.FolderChild{ID: uuid.New(), Kind: interfaces.ItemKindFolder, Path: path}
}
