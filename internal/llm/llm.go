package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the generative-AI provider used for answer verification
// and document import.
type Client interface {
	// CheckAnswer judges whether an answer and its evidence satisfy a
	// question. The raw payload is expected to parse into a status/feedback
	// object; callers own validation.
	CheckAnswer(ctx context.Context, input CheckInput) (json.RawMessage, error)
	// ReviewAnswer is the richer interactive variant that additionally
	// requires an improvement suggestion.
	ReviewAnswer(ctx context.Context, input CheckInput) (json.RawMessage, error)
	// AnalyzeDocument answers the questionnaire from an uploaded report's
	// extracted text.
	AnalyzeDocument(ctx context.Context, input DocumentInput) (json.RawMessage, error)
}

// CheckInput carries one question/answer pair for verification.
type CheckInput struct {
	QuestionText   string
	Reference      string
	ReferenceText  string
	FormattedValue string
	Evidence       string
}

// QuestionSpec is the subset of catalog metadata the import prompt needs.
type QuestionSpec struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
}

// DocumentInput carries an extracted document and the questionnaire for
// import analysis.
type DocumentInput struct {
	DocumentText string
	Questions    []QuestionSpec
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation used when no provider is
// configured.
type PlaceholderClient struct{}

// CheckAnswer returns ErrNotImplemented.
func (PlaceholderClient) CheckAnswer(ctx context.Context, input CheckInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

// ReviewAnswer returns ErrNotImplemented.
func (PlaceholderClient) ReviewAnswer(ctx context.Context, input CheckInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

// AnalyzeDocument returns ErrNotImplemented.
func (PlaceholderClient) AnalyzeDocument(ctx context.Context, input DocumentInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
