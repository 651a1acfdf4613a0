package diagnoses

import (
	"time"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/report"
)

// Diagnosis is one company's questionnaire session: the live answer set plus
// the two report snapshots produced from it.
type Diagnosis struct {
	ID                    string       `json:"id"`
	OwnerID               string       `json:"ownerId"`
	CompanyName           string       `json:"companyName"`
	FolderID              string       `json:"folderId,omitempty"`
	Answers               answers.Set  `json:"answers"`
	SubmittedReport       *report.Data `json:"reportData,omitempty"`
	ValidatedReport       *report.Data `json:"validatedReportData,omitempty"`
	CurrentTopic          string       `json:"currentTopic,omitempty"`
	ViewMode              string       `json:"viewMode,omitempty"`
	QuestionnaireViewMode string       `json:"questionnaireViewMode,omitempty"`
	LastUpdated           time.Time    `json:"lastUpdated"`
	CreatedAt             time.Time    `json:"createdAt"`
}

// Submitted reports whether the diagnosis has entered the review stage.
func (d Diagnosis) Submitted() bool {
	return d.SubmittedReport != nil
}

// Clone returns a deep copy so repository reads never alias live state.
func (d Diagnosis) Clone() Diagnosis {
	out := d
	out.Answers = d.Answers.Clone()
	out.SubmittedReport = cloneReport(d.SubmittedReport)
	out.ValidatedReport = cloneReport(d.ValidatedReport)
	return out
}

func cloneReport(r *report.Data) *report.Data {
	if r == nil {
		return nil
	}
	out := *r
	out.Answers = r.Answers.Clone()
	if r.Questions != nil {
		out.Questions = append(out.Questions[:0:0], r.Questions...)
	}
	if r.Deficiencies != nil {
		out.Deficiencies = append(out.Deficiencies[:0:0], r.Deficiencies...)
	}
	if r.StandardCompliance != nil {
		out.StandardCompliance = make(map[string]float64, len(r.StandardCompliance))
		for k, v := range r.StandardCompliance {
			out.StandardCompliance[k] = v
		}
	}
	if r.TopicCompliance != nil {
		out.TopicCompliance = append(out.TopicCompliance[:0:0], r.TopicCompliance...)
	}
	return &out
}
