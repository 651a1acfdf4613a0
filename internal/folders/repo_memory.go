package folders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores folders in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Folder
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Folder)}
}

func (r *MemoryRepo) Create(ctx context.Context, folder Folder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[folder.ID] = folder
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, folderID string) (Folder, error) {
	if err := ctx.Err(); err != nil {
		return Folder{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	folder, ok := r.byID[folderID]
	if !ok || folder.OwnerID != ownerID {
		return Folder{}, ErrNotFound
	}
	return folder, nil
}

func (r *MemoryRepo) Rename(ctx context.Context, ownerID, folderID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.byID[folderID]
	if !ok || folder.OwnerID != ownerID {
		return ErrNotFound
	}
	folder.Name = name
	folder.UpdatedAt = time.Now().UTC()
	r.byID[folderID] = folder
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.byID[folderID]
	if !ok || folder.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.byID, folderID)
	return nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Folder{}
	for _, folder := range r.byID {
		if folder.OwnerID == ownerID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
