package folders

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-workflow/internal/workflow"
)

var (
	ErrFolderNameRequired = errors.New("folders: folder name required")
	ErrFolderNameInvalid  = errors.New("folders: folder name does not produce a valid slug")
	ErrFolderExists       = errors.New("folders: folder path already exists")
	ErrItemTitleRequired  = errors.New("folders: item title required")
	ErrItemKindInvalid    = errors.New("folders: item kind must be page, asset or other")
	ErrItemNotFound       = errors.New("folders: item not found")
	ErrItemCheckedOut     = errors.New("folders: item checked out by another user")
	ErrUserRequired       = errors.New("folders: user id required")
)

// FolderNotFoundError reports an unresolvable folder. It matches
// workflow.ErrFolderNotFound so walkers can test for it without importing
// this package.
type FolderNotFoundError struct {
	Key string
}

func (e *FolderNotFoundError) Error() string {
	return fmt.Sprintf("folder %q not found", e.Key)
}

func (e *FolderNotFoundError) Unwrap() error {
	return workflow.ErrFolderNotFound
}

// ItemNotFoundError reports a missing item.
type ItemNotFoundError struct {
	Key string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %q not found", e.Key)
}

func (e *ItemNotFoundError) Unwrap() error {
	return ErrItemNotFound
}
