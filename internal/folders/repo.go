package folders

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("folder not found")
	ErrNotEmpty = errors.New("folder still contains diagnoses")
)

// Repo defines persistence for folders.
type Repo interface {
	Create(ctx context.Context, folder Folder) error
	GetByID(ctx context.Context, ownerID, folderID string) (Folder, error)
	Rename(ctx context.Context, ownerID, folderID, name string) error
	Delete(ctx context.Context, ownerID, folderID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Folder, error)
}
