package folders

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, folder Folder) error {
	const query = `
INSERT INTO folders (id, owner_id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		folder.ID,
		folder.OwnerID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, ownerID, folderID string) (Folder, error) {
	const query = `
SELECT id, owner_id, name, created_at, updated_at
FROM folders
WHERE id = $1 AND owner_id = $2
LIMIT 1`
	var folder Folder
	err := r.DB.QueryRowContext(ctx, query, folderID, ownerID).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Folder{}, ErrNotFound
		}
		return Folder{}, err
	}
	return folder, nil
}

func (r *PGRepo) Rename(ctx context.Context, ownerID, folderID, name string) error {
	const query = `
UPDATE folders
SET name = $1, updated_at = now()
WHERE id = $2 AND owner_id = $3`
	res, err := r.DB.ExecContext(ctx, query, name, folderID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, folderID string) error {
	const query = `DELETE FROM folders WHERE id = $1 AND owner_id = $2`
	res, err := r.DB.ExecContext(ctx, query, folderID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Folder, error) {
	const query = `
SELECT id, owner_id, name, created_at, updated_at
FROM folders
WHERE owner_id = $1
ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Folder{}
	for rows.Next() {
		var folder Folder
		if err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, folder)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
