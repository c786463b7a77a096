package folders

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FolderRepository persists folders.
type FolderRepository interface {
	Create(ctx context.Context, record *Folder) (*Folder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Folder, error)
	GetByPath(ctx context.Context, path string) (*Folder, error)
	// ListByParent returns direct subfolders ordered by name. A nil parent
	// lists top level folders.
	ListByParent(ctx context.Context, parentID *uuid.UUID) ([]*Folder, error)
}

// ItemRepository persists items and their workflow state.
type ItemRepository interface {
	Create(ctx context.Context, record *Item) (*Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*Item, error)
	Update(ctx context.Context, record *Item) (*Item, error)
}

func NewFolderRepository(db *bun.DB) repository.Repository[*Folder] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Folder]{
		NewRecord: func() *Folder { return &Folder{} },
		GetID: func(f *Folder) uuid.UUID {
			return f.ID
		},
		SetID: func(f *Folder, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(f *Folder) string {
			return f.Path
		},
	})
}

func NewItemRepository(db *bun.DB) repository.Repository[*Item] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Item]{
		NewRecord: func() *Item { return &Item{} },
		GetID: func(i *Item) uuid.UUID {
			return i.ID
		},
		SetID: func(i *Item, id uuid.UUID) {
			i.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(i *Item) string {
			return i.ID.String()
		},
	})
}
