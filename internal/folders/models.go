package folders

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Folder groups items and other folders under a slash separated path.
type Folder struct {
	bun.BaseModel `bun:"table:workflow_folders,alias:wf"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ParentID  *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Name      string     `bun:"name,notnull" json:"name"`
	Slug      string     `bun:"slug,notnull" json:"slug"`
	Path      string     `bun:"path,notnull,unique" json:"path"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Item is a page or asset living in a folder, carrying its workflow state.
type Item struct {
	bun.BaseModel `bun:"table:workflow_items,alias:wi"`

	ID           uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	FolderID     uuid.UUID  `bun:"folder_id,notnull,type:uuid" json:"folder_id"`
	Kind         string     `bun:"kind,notnull" json:"kind"`
	Title        string     `bun:"title,notnull" json:"title"`
	Slug         string     `bun:"slug,notnull" json:"slug"`
	State        string     `bun:"state,notnull" json:"state"`
	CheckedOutBy *uuid.UUID `bun:"checked_out_by,type:uuid" json:"checked_out_by,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneFolder(f *Folder) *Folder {
	if f == nil {
		return nil
	}
	cloned := *f
	if f.ParentID != nil {
		parent := *f.ParentID
		cloned.ParentID = &parent
	}
	return &cloned
}

func cloneItem(i *Item) *Item {
	if i == nil {
		return nil
	}
	cloned := *i
	if i.CheckedOutBy != nil {
		holder := *i.CheckedOutBy
		cloned.CheckedOutBy = &holder
	}
	return &cloned
}
