package diagnoses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores diagnoses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Diagnosis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Diagnosis)}
}

func (r *MemoryRepo) Create(ctx context.Context, d Diagnosis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID] = d.Clone()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, diagnosisID string) (Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return Diagnosis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[diagnosisID]
	if !ok || d.OwnerID != ownerID {
		return Diagnosis{}, ErrNotFound
	}
	return d.Clone(), nil
}

func (r *MemoryRepo) Update(ctx context.Context, d Diagnosis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[d.ID]
	if !ok || existing.OwnerID != d.OwnerID {
		return ErrNotFound
	}
	r.byID[d.ID] = d.Clone()
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, diagnosisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[diagnosisID]
	if !ok || d.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.byID, diagnosisID)
	return nil
}

// ListByOwner returns the owner's diagnoses, most recently updated first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Diagnosis{}
	for _, d := range r.byID {
		if d.OwnerID == ownerID {
			out = append(out, d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out, nil
}

func (r *MemoryRepo) CountInFolder(ctx context.Context, ownerID, folderID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, d := range r.byID {
		if d.OwnerID == ownerID && d.FolderID == folderID {
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
