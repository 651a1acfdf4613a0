package folders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiagnosisCounter reports how many diagnoses live in a folder. Deleting a
// folder is refused while any remain.
type DiagnosisCounter interface {
	CountInFolder(ctx context.Context, ownerID, folderID string) (int, error)
}

// Service implements folder management.
type Service struct {
	Repo      Repo
	Diagnoses DiagnosisCounter

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, diagnoses DiagnosisCounter) *Service {
	return &Service{
		Repo:      repo,
		Diagnoses: diagnoses,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a folder for the owner.
func (s *Service) Create(ctx context.Context, ownerID, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, errors.New("folder name is required")
	}
	now := s.now()
	folder := Folder{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, folder); err != nil {
		return Folder{}, err
	}
	return folder, nil
}

// List returns the owner's folders.
func (s *Service) List(ctx context.Context, ownerID string) ([]Folder, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Rename updates a folder's name.
func (s *Service) Rename(ctx context.Context, ownerID, folderID, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, errors.New("folder name is required")
	}
	if err := s.Repo.Rename(ctx, ownerID, folderID, name); err != nil {
		return Folder{}, err
	}
	return s.Repo.GetByID(ctx, ownerID, folderID)
}

// Delete removes an empty folder. A folder holding diagnoses is refused;
// callers must move or delete its contents first.
func (s *Service) Delete(ctx context.Context, ownerID, folderID string) error {
	if _, err := s.Repo.GetByID(ctx, ownerID, folderID); err != nil {
		return err
	}
	if s.Diagnoses != nil {
		count, err := s.Diagnoses.CountInFolder(ctx, ownerID, folderID)
		if err != nil {
			return fmt.Errorf("count folder contents: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d diagnoses", ErrNotEmpty, count)
		}
	}
	return s.Repo.Delete(ctx, ownerID, folderID)
}
