package diagnoses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/report"
)

// PGRepo implements Repo using Postgres. Answer sets and report snapshots
// are persisted as JSONB documents.
type PGRepo struct {
	DB *sql.DB
}

const diagnosisColumns = `id, owner_id, company_name, folder_id, answers, submitted_report, validated_report,
       current_topic, view_mode, questionnaire_view_mode, last_updated, created_at`

func (r *PGRepo) Create(ctx context.Context, d Diagnosis) error {
	const query = `
INSERT INTO diagnoses (
	id, owner_id, company_name, folder_id, answers, submitted_report, validated_report,
	current_topic, view_mode, questionnaire_view_mode, last_updated, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	answersPayload, err := marshalAnswers(d.Answers)
	if err != nil {
		return err
	}
	submitted, err := marshalReport(d.SubmittedReport)
	if err != nil {
		return err
	}
	validated, err := marshalReport(d.ValidatedReport)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		d.ID,
		d.OwnerID,
		d.CompanyName,
		nullableString(d.FolderID),
		answersPayload,
		submitted,
		validated,
		nullableString(d.CurrentTopic),
		nullableString(d.ViewMode),
		nullableString(d.QuestionnaireViewMode),
		d.LastUpdated,
		d.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, ownerID, diagnosisID string) (Diagnosis, error) {
	const query = `
SELECT ` + diagnosisColumns + `
FROM diagnoses
WHERE id = $1 AND owner_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, diagnosisID, ownerID)
	d, err := scanDiagnosis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Diagnosis{}, ErrNotFound
		}
		return Diagnosis{}, err
	}
	return d, nil
}

func (r *PGRepo) Update(ctx context.Context, d Diagnosis) error {
	const query = `
UPDATE diagnoses
SET company_name = $1,
    folder_id = $2,
    answers = $3::jsonb,
    submitted_report = $4::jsonb,
    validated_report = $5::jsonb,
    current_topic = $6,
    view_mode = $7,
    questionnaire_view_mode = $8,
    last_updated = $9
WHERE id = $10 AND owner_id = $11`

	answersPayload, err := marshalAnswers(d.Answers)
	if err != nil {
		return err
	}
	submitted, err := marshalReport(d.SubmittedReport)
	if err != nil {
		return err
	}
	validated, err := marshalReport(d.ValidatedReport)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		d.CompanyName,
		nullableString(d.FolderID),
		answersPayload,
		submitted,
		validated,
		nullableString(d.CurrentTopic),
		nullableString(d.ViewMode),
		nullableString(d.QuestionnaireViewMode),
		d.LastUpdated,
		d.ID,
		d.OwnerID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, diagnosisID string) error {
	const query = `DELETE FROM diagnoses WHERE id = $1 AND owner_id = $2`
	res, err := r.DB.ExecContext(ctx, query, diagnosisID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Diagnosis, error) {
	const query = `
SELECT ` + diagnosisColumns + `
FROM diagnoses
WHERE owner_id = $1
ORDER BY last_updated DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Diagnosis{}
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountInFolder(ctx context.Context, ownerID, folderID string) (int, error) {
	const query = `SELECT COUNT(*) FROM diagnoses WHERE owner_id = $1 AND folder_id = $2`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, ownerID, folderID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiagnosis(row rowScanner) (Diagnosis, error) {
	var d Diagnosis
	var folderID sql.NullString
	var answersRaw []byte
	var submittedRaw []byte
	var validatedRaw []byte
	var currentTopic sql.NullString
	var viewMode sql.NullString
	var questionnaireViewMode sql.NullString

	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.CompanyName,
		&folderID,
		&answersRaw,
		&submittedRaw,
		&validatedRaw,
		&currentTopic,
		&viewMode,
		&questionnaireViewMode,
		&d.LastUpdated,
		&d.CreatedAt,
	); err != nil {
		return Diagnosis{}, err
	}

	d.Answers = answers.Set{}
	if len(answersRaw) > 0 {
		if err := json.Unmarshal(answersRaw, &d.Answers); err != nil {
			return Diagnosis{}, err
		}
	}
	var err error
	if d.SubmittedReport, err = unmarshalReport(submittedRaw); err != nil {
		return Diagnosis{}, err
	}
	if d.ValidatedReport, err = unmarshalReport(validatedRaw); err != nil {
		return Diagnosis{}, err
	}
	if folderID.Valid {
		d.FolderID = folderID.String
	}
	if currentTopic.Valid {
		d.CurrentTopic = currentTopic.String
	}
	if viewMode.Valid {
		d.ViewMode = viewMode.String
	}
	if questionnaireViewMode.Valid {
		d.QuestionnaireViewMode = questionnaireViewMode.String
	}
	return d, nil
}

func marshalAnswers(set answers.Set) ([]byte, error) {
	if set == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(set)
}

func marshalReport(r *report.Data) (any, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func unmarshalReport(raw []byte) (*report.Data, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var data report.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
