package diagnoses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/catalog"
	"diagnosis-backend/internal/imports"
	"diagnosis-backend/internal/report"
	"diagnosis-backend/internal/shared/metrics"
	"diagnosis-backend/internal/shared/storage/object"
	"diagnosis-backend/internal/shared/telemetry"
	"diagnosis-backend/internal/verify"
)

// consultantRevisedNote marks answers the consultant rewrote during review.
const consultantRevisedNote = "Revisado pelo consultor."

// Service implements the diagnosis workflow: questionnaire edits, answer
// verification, report generation and the consultant validation stage.
type Service struct {
	Repo     Repo
	Catalog  *catalog.Catalog
	Checker  *verify.Checker
	Runner   *verify.Runner
	Store    object.ObjectStore
	Importer *imports.Importer

	now func() time.Time

	genMu    sync.Mutex
	inFlight map[string]struct{}
}

// NewService constructs a Service.
func NewService(repo Repo, cat *catalog.Catalog, checker *verify.Checker, runner *verify.Runner, store object.ObjectStore, importer *imports.Importer) *Service {
	return &Service{
		Repo:     repo,
		Catalog:  cat,
		Checker:  checker,
		Runner:   runner,
		Store:    store,
		Importer: importer,
		now:      func() time.Time { return time.Now().UTC() },
		inFlight: make(map[string]struct{}),
	}
}

// Create starts an empty diagnosis.
func (s *Service) Create(ctx context.Context, ownerID, companyName, folderID string) (Diagnosis, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return Diagnosis{}, errors.New("company name is required")
	}
	now := s.now()
	d := Diagnosis{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		CompanyName: companyName,
		FolderID:    folderID,
		Answers:     answers.Set{},
		LastUpdated: now,
		CreatedAt:   now,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return Diagnosis{}, err
	}
	return d, nil
}

// Import creates a diagnosis pre-filled from an uploaded report document.
// Any import failure aborts the creation; no partial diagnosis is stored.
func (s *Service) Import(ctx context.Context, ownerID, companyName string, data []byte, mimeType, fileName string) (Diagnosis, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return Diagnosis{}, errors.New("company name is required")
	}
	if s.Importer == nil {
		return Diagnosis{}, errors.New("importer not configured")
	}

	set, err := s.Importer.FromDocument(ctx, data, mimeType, fileName)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("import diagnosis: %w", err)
	}

	now := s.now()
	d := Diagnosis{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		CompanyName: companyName,
		Answers:     set,
		// Imported answers open in summary mode so they can be reviewed
		// before confirmation edits.
		QuestionnaireViewMode: "summary",
		LastUpdated:           now,
		CreatedAt:             now,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return Diagnosis{}, err
	}
	telemetry.Info("diagnosis.imported", map[string]any{
		"diagnosis_id": d.ID,
		"answers":      len(set),
	})
	return d, nil
}

// Get returns one diagnosis.
func (s *Service) Get(ctx context.Context, ownerID, diagnosisID string) (Diagnosis, error) {
	return s.Repo.GetByID(ctx, ownerID, diagnosisID)
}

// List returns the owner's diagnoses, most recently updated first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Diagnosis, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Delete removes a diagnosis.
func (s *Service) Delete(ctx context.Context, ownerID, diagnosisID string) error {
	return s.Repo.Delete(ctx, ownerID, diagnosisID)
}

// MetaPatch carries optional updates to diagnosis metadata. Nil fields are
// left unchanged.
type MetaPatch struct {
	CompanyName           *string
	FolderID              *string
	CurrentTopic          *string
	ViewMode              *string
	QuestionnaireViewMode *string
}

// UpdateMeta applies a metadata patch.
func (s *Service) UpdateMeta(ctx context.Context, ownerID, diagnosisID string, patch MetaPatch) (Diagnosis, error) {
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	if patch.CompanyName != nil {
		name := strings.TrimSpace(*patch.CompanyName)
		if name == "" {
			return Diagnosis{}, errors.New("company name cannot be empty")
		}
		d.CompanyName = name
	}
	if patch.FolderID != nil {
		d.FolderID = *patch.FolderID
	}
	if patch.CurrentTopic != nil {
		d.CurrentTopic = *patch.CurrentTopic
	}
	if patch.ViewMode != nil {
		d.ViewMode = *patch.ViewMode
	}
	if patch.QuestionnaireViewMode != nil {
		d.QuestionnaireViewMode = *patch.QuestionnaireViewMode
	}
	return s.save(ctx, d)
}

// AnswerInput is the full replacement payload for one answer.
type AnswerInput struct {
	Value     *answers.Value
	Evidence  string
	Confirmed bool
}

// SubmitAnswer replaces the live answer for a question. Changing the value
// or evidence invalidates the cached verification and any consultant
// decision; the attachment is kept.
func (s *Service) SubmitAnswer(ctx context.Context, ownerID, diagnosisID, questionID string, in AnswerInput) (Diagnosis, error) {
	if _, ok := s.Catalog.ByID(questionID); !ok {
		return Diagnosis{}, ErrUnknownQuestion
	}
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}

	value := answers.Value{}
	if in.Value != nil {
		value = *in.Value
	}

	existing := d.Answers[questionID]
	next := answers.Answer{
		Value:             value,
		Evidence:          in.Evidence,
		Confirmed:         in.Confirmed,
		Attachment:        existing.Attachment,
		AICheck:           existing.AICheck,
		ValidationStatus:  existing.ValidationStatus,
		ConsultantComment: existing.ConsultantComment,
	}
	if !existing.Value.Equal(value) || existing.Evidence != in.Evidence {
		next.AICheck = nil
		next.ValidationStatus = ""
		next.ConsultantComment = ""
	}
	d.Answers[questionID] = next
	return s.save(ctx, d)
}

// UploadAttachment stores supporting material for an answer.
func (s *Service) UploadAttachment(ctx context.Context, ownerID, diagnosisID, questionID, fileName string, r io.Reader) (Diagnosis, answers.Attachment, error) {
	if _, ok := s.Catalog.ByID(questionID); !ok {
		return Diagnosis{}, answers.Attachment{}, ErrUnknownQuestion
	}
	if s.Store == nil {
		return Diagnosis{}, answers.Attachment{}, errors.New("object store not configured")
	}
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, answers.Attachment{}, err
	}

	key, size, mimeType, err := s.Store.Save(ctx, ownerID, fileName, r)
	if err != nil {
		return Diagnosis{}, answers.Attachment{}, fmt.Errorf("save attachment: %w", err)
	}
	attachment := answers.Attachment{
		Name:       fileName,
		MimeType:   mimeType,
		StorageKey: key,
		SizeBytes:  size,
	}

	answer := d.Answers[questionID]
	answer.Attachment = &attachment
	d.Answers[questionID] = answer

	d, err = s.save(ctx, d)
	if err != nil {
		return Diagnosis{}, answers.Attachment{}, err
	}
	return d, attachment, nil
}

// OpenAttachment streams the stored attachment for an answer.
func (s *Service) OpenAttachment(ctx context.Context, ownerID, diagnosisID, questionID string) (io.ReadCloser, answers.Attachment, error) {
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return nil, answers.Attachment{}, err
	}
	answer, ok := d.Answers[questionID]
	if !ok || answer.Attachment == nil {
		return nil, answers.Attachment{}, ErrNoAttachment
	}
	body, err := s.Store.Open(ctx, answer.Attachment.StorageKey)
	if err != nil {
		return nil, answers.Attachment{}, fmt.Errorf("open attachment: %w", err)
	}
	return body, *answer.Attachment, nil
}

// RemoveAttachment detaches the stored file from an answer.
func (s *Service) RemoveAttachment(ctx context.Context, ownerID, diagnosisID, questionID string) (Diagnosis, error) {
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	answer, ok := d.Answers[questionID]
	if !ok || answer.Attachment == nil {
		return Diagnosis{}, ErrNoAttachment
	}
	answer.Attachment = nil
	d.Answers[questionID] = answer
	return s.save(ctx, d)
}

// ReviewAnswer runs the interactive review for one answer and caches the
// result on it.
func (s *Service) ReviewAnswer(ctx context.Context, ownerID, diagnosisID, questionID string) (answers.AICheck, error) {
	q, ok := s.Catalog.ByID(questionID)
	if !ok {
		return answers.AICheck{}, ErrUnknownQuestion
	}
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return answers.AICheck{}, err
	}
	answer, ok := d.Answers[questionID]
	if !ok || !answer.Provided() {
		return answers.AICheck{}, errors.New("answer not provided")
	}

	check, err := s.Checker.Review(ctx, q, answer)
	if err != nil {
		metrics.IncVerificationFailed()
		return answers.AICheck{}, err
	}
	answer.AICheck = &check
	d.Answers[questionID] = answer
	if _, err := s.save(ctx, d); err != nil {
		return answers.AICheck{}, err
	}
	return check, nil
}

// GenerateReport verifies all provided, unverified answers and freezes the
// submitted report snapshot. Only one generation per diagnosis runs at a
// time.
func (s *Service) GenerateReport(ctx context.Context, ownerID, diagnosisID string) (Diagnosis, error) {
	release, err := s.acquireGeneration(diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	defer release()

	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}

	metrics.IncGenerationStarted()
	start := s.now()

	calls, err := s.Runner.Run(ctx, s.Catalog.Questions, d.Answers)
	metrics.AddVerificationCalls(calls)
	if err != nil {
		metrics.IncGenerationFailed()
		return Diagnosis{}, fmt.Errorf("verify answers: %w", err)
	}

	data := report.Build(s.Catalog, d.Answers, d.CompanyName, false, s.now())
	d.SubmittedReport = &data

	d, err = s.save(ctx, d)
	if err != nil {
		metrics.IncGenerationFailed()
		return Diagnosis{}, err
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(s.now().Sub(start) / time.Millisecond))
	telemetry.Info("report.generated", map[string]any{
		"diagnosis_id":       diagnosisID,
		"verification_calls": calls,
		"answered":           data.AnsweredQuestions,
		"total":              data.TotalQuestions,
	})
	return d, nil
}

// SetValidation records the consultant decision for one answer. Decisions
// live on the answer store; the submitted snapshot is never touched.
func (s *Service) SetValidation(ctx context.Context, ownerID, diagnosisID, questionID string, status answers.ValidationStatus, comment string) (Diagnosis, error) {
	if status != answers.ValidationAccepted && status != answers.ValidationRefused {
		return Diagnosis{}, ErrInvalidValidation
	}
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	if !d.Submitted() {
		return Diagnosis{}, ErrNotSubmitted
	}
	answer, ok := d.Answers[questionID]
	if !ok {
		return Diagnosis{}, ErrUnknownQuestion
	}
	answer.ValidationStatus = status
	answer.ConsultantComment = comment
	d.Answers[questionID] = answer
	return s.save(ctx, d)
}

// ConsultantEditInput replaces an answer's content during review.
type ConsultantEditInput struct {
	Value    *answers.Value
	Evidence string
}

// ConsultantEdit rewrites a live answer during review. The cached
// verification is discarded, the validation decision reopens, and the answer
// is stamped as consultant-revised. The submitted snapshot stays frozen.
func (s *Service) ConsultantEdit(ctx context.Context, ownerID, diagnosisID, questionID string, in ConsultantEditInput) (Diagnosis, error) {
	if _, ok := s.Catalog.ByID(questionID); !ok {
		return Diagnosis{}, ErrUnknownQuestion
	}
	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	if !d.Submitted() {
		return Diagnosis{}, ErrNotSubmitted
	}

	value := answers.Value{}
	if in.Value != nil {
		value = *in.Value
	}
	answer := d.Answers[questionID]
	answer.Value = value
	answer.Evidence = in.Evidence
	answer.Confirmed = true
	answer.AICheck = nil
	answer.ValidationStatus = ""
	answer.ConsultantComment = consultantRevisedNote
	d.Answers[questionID] = answer
	return s.save(ctx, d)
}

// GenerateValidatedReport verifies consultant-revised answers and freezes
// the validated report from the current answer store. Every provided answer
// must carry a consultant decision first.
func (s *Service) GenerateValidatedReport(ctx context.Context, ownerID, diagnosisID string) (Diagnosis, error) {
	release, err := s.acquireGeneration(diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	defer release()

	d, err := s.Repo.GetByID(ctx, ownerID, diagnosisID)
	if err != nil {
		return Diagnosis{}, err
	}
	if !d.Submitted() {
		return Diagnosis{}, ErrNotSubmitted
	}
	if pending := pendingValidationCount(d.Answers); pending > 0 {
		metrics.IncGenerationRejected()
		return Diagnosis{}, fmt.Errorf("%w: %d answers pending", ErrValidationPending, pending)
	}

	metrics.IncGenerationStarted()
	start := s.now()

	calls, err := s.Runner.Run(ctx, s.Catalog.Questions, d.Answers)
	metrics.AddVerificationCalls(calls)
	if err != nil {
		metrics.IncGenerationFailed()
		return Diagnosis{}, fmt.Errorf("verify answers: %w", err)
	}

	data := report.Build(s.Catalog, d.Answers, d.CompanyName, true, s.now())
	d.ValidatedReport = &data

	d, err = s.save(ctx, d)
	if err != nil {
		metrics.IncGenerationFailed()
		return Diagnosis{}, err
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(s.now().Sub(start) / time.Millisecond))
	telemetry.Info("report.validated_generated", map[string]any{
		"diagnosis_id":       diagnosisID,
		"verification_calls": calls,
	})
	return d, nil
}

func pendingValidationCount(set answers.Set) int {
	pending := 0
	for _, a := range set {
		if a.Provided() && a.ValidationStatus == "" {
			pending++
		}
	}
	return pending
}

func (s *Service) acquireGeneration(diagnosisID string) (func(), error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[string]struct{})
	}
	if _, busy := s.inFlight[diagnosisID]; busy {
		return nil, ErrGenerationInProgress
	}
	s.inFlight[diagnosisID] = struct{}{}
	return func() {
		s.genMu.Lock()
		delete(s.inFlight, diagnosisID)
		s.genMu.Unlock()
	}, nil
}

func (s *Service) save(ctx context.Context, d Diagnosis) (Diagnosis, error) {
	d.LastUpdated = s.now()
	if err := s.Repo.Update(ctx, d); err != nil {
		return Diagnosis{}, err
	}
	return d, nil
}
