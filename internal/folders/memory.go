package folders

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryFolderRepository is an in-memory folder store for scaffolding/tests.
type MemoryFolderRepository struct {
	mu        sync.RWMutex
	folders   map[uuid.UUID]*Folder
	pathIndex map[string]uuid.UUID
}

// NewMemoryFolderRepository constructs the repository.
func NewMemoryFolderRepository() *MemoryFolderRepository {
	return &MemoryFolderRepository{
		folders:   make(map[uuid.UUID]*Folder),
		pathIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryFolderRepository) Create(_ context.Context, record *Folder) (*Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.pathIndex[record.Path]; exists {
		return nil, ErrFolderExists
	}
	copied := cloneFolder(record)
	m.folders[copied.ID] = copied
	m.pathIndex[copied.Path] = copied.ID
	return cloneFolder(copied), nil
}

func (m *MemoryFolderRepository) GetByID(_ context.Context, id uuid.UUID) (*Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	folder, ok := m.folders[id]
	if !ok {
		return nil, &FolderNotFoundError{Key: id.String()}
	}
	return cloneFolder(folder), nil
}

func (m *MemoryFolderRepository) GetByPath(_ context.Context, path string) (*Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.pathIndex[path]
	if !ok {
		return nil, &FolderNotFoundError{Key: path}
	}
	return cloneFolder(m.folders[id]), nil
}

func (m *MemoryFolderRepository) ListByParent(_ context.Context, parentID *uuid.UUID) ([]*Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Folder
	for _, folder := range m.folders {
		if sameParent(folder.ParentID, parentID) {
			out = append(out, cloneFolder(folder))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MemoryItemRepository is an in-memory item store for scaffolding/tests.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Item
}

// NewMemoryItemRepository constructs the repository.
func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{
		items: make(map[uuid.UUID]*Item),
	}
}

func (m *MemoryItemRepository) Create(_ context.Context, record *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneItem(record)
	m.items[copied.ID] = copied
	return cloneItem(copied), nil
}

func (m *MemoryItemRepository) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, &ItemNotFoundError{Key: id.String()}
	}
	return cloneItem(item), nil
}

func (m *MemoryItemRepository) ListByFolder(_ context.Context, folderID uuid.UUID) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Item
	for _, item := range m.items {
		if item.FolderID == folderID {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (m *MemoryItemRepository) Update(_ context.Context, record *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[record.ID]; !ok {
		return nil, &ItemNotFoundError{Key: record.ID.String()}
	}
	copied := cloneItem(record)
	m.items[copied.ID] = copied
	return cloneItem(copied), nil
}
