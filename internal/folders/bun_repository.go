package folders

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-workflow/internal/workflow"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunFolderRepository stores folders through go-repository-bun. Lookups by id
// may be served from the optional cache since folders are never mutated after
// creation; path and parent queries always hit the database so new folders are
// visible immediately.
type BunFolderRepository struct {
	repo repository.Repository[*Folder]
	byID repository.Repository[*Folder]
}

func NewBunFolderRepository(db *bun.DB) *BunFolderRepository {
	return NewBunFolderRepositoryWithCache(db, nil, nil)
}

// NewBunFolderRepositoryWithCache constructs a FolderRepository backed by bun with optional caching.
func NewBunFolderRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunFolderRepository {
	base := NewFolderRepository(db)
	return &BunFolderRepository{
		repo: base,
		byID: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunFolderRepository) Create(ctx context.Context, record *Folder) (*Folder, error) {
	_, err := r.GetByPath(ctx, record.Path)
	switch {
	case err == nil:
		return nil, ErrFolderExists
	case !errors.Is(err, workflow.ErrFolderNotFound):
		return nil, err
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "folder", record.Path)
	}
	return created, nil
}

func (r *BunFolderRepository) GetByID(ctx context.Context, id uuid.UUID) (*Folder, error) {
	result, err := r.byID.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "folder", id.String())
	}
	return result, nil
}

func (r *BunFolderRepository) GetByPath(ctx context.Context, path string) (*Folder, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.path = ?", path)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "folder", path)
	}
	if len(records) == 0 {
		return nil, &FolderNotFoundError{Key: path}
	}
	return records[0], nil
}

func (r *BunFolderRepository) ListByParent(ctx context.Context, parentID *uuid.UUID) ([]*Folder, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if parentID == nil {
				return q.Where("?TableAlias.parent_id IS NULL")
			}
			return q.Where("?TableAlias.parent_id = ?", *parentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "folder", "")
	}
	return records, nil
}

// BunItemRepository stores items through go-repository-bun. It is never
// cached: every transition snapshot must observe the latest state.
type BunItemRepository struct {
	repo repository.Repository[*Item]
}

func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return &BunItemRepository{repo: NewItemRepository(db)}
}

func (r *BunItemRepository) Create(ctx context.Context, record *Item) (*Item, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "item", record.ID.String())
	}
	return created, nil
}

func (r *BunItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "item", id.String())
	}
	return result, nil
}

func (r *BunItemRepository) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*Item, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.folder_id = ?", folderID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.title ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "item", folderID.String())
	}
	return records, nil
}

func (r *BunItemRepository) Update(ctx context.Context, record *Item) (*Item, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"state",
			"checked_out_by",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "item", record.ID.String())
	}
	return updated, nil
}

// CreateSchema creates the folder and item tables when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Folder)(nil),
		(*Item)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("folders: create table %T: %w", model, err)
		}
	}
	if _, err := db.NewCreateIndex().
		Model((*Item)(nil)).
		Index("workflow_items_folder_idx").
		Column("folder_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("folders: create item index: %w", err)
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		if resource == "folder" {
			return &FolderNotFoundError{Key: key}
		}
		return &ItemNotFoundError{Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
