package diagnoses

import "context"

// Repo defines persistence for diagnoses. Updates replace the whole record;
// services operate on deep copies and write them back atomically.
type Repo interface {
	Create(ctx context.Context, d Diagnosis) error
	GetByID(ctx context.Context, ownerID, diagnosisID string) (Diagnosis, error)
	Update(ctx context.Context, d Diagnosis) error
	Delete(ctx context.Context, ownerID, diagnosisID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Diagnosis, error)
	CountInFolder(ctx context.Context, ownerID, folderID string) (int, error)
}
