package imports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/catalog"
	"diagnosis-backend/internal/extract"
	"diagnosis-backend/internal/llm"
	"diagnosis-backend/internal/shared/telemetry"
)

// ErrEmptyDocument is returned when no text could be extracted.
var ErrEmptyDocument = errors.New("document has no extractable text")

// Importer pre-fills an answer set from an uploaded report document. The
// whole import fails if the model call or its output cannot be used; a
// partially decoded set is never returned.
type Importer struct {
	LLM     llm.Client
	Catalog *catalog.Catalog
}

type importedAnswer struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
	Evidence   string `json:"evidence"`
}

type importResult struct {
	Answers []importedAnswer `json:"answers"`
}

// FromDocument extracts document text, asks the model to answer the
// questionnaire from it, and decodes the result into an answer set.
func (i *Importer) FromDocument(ctx context.Context, data []byte, mimeType, fileName string) (answers.Set, error) {
	text, err := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return nil, fmt.Errorf("extract document text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	raw, err := i.LLM.AnalyzeDocument(ctx, llm.DocumentInput{
		DocumentText: text,
		Questions:    questionSpecs(i.Catalog),
	})
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	var result importResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode import result: %w", err)
	}

	set := answers.Set{}
	for _, item := range result.Answers {
		q, ok := i.Catalog.ByID(strings.TrimSpace(item.QuestionID))
		if !ok {
			telemetry.Warn("import.unknown_question", map[string]any{
				"question_id": item.QuestionID,
			})
			continue
		}
		value, ok := decodeValue(q.Type, item.Value)
		if !ok {
			continue
		}
		set[q.ID] = answers.Answer{
			Value:     value,
			Evidence:  strings.TrimSpace(item.Evidence),
			Confirmed: true,
		}
	}
	return set, nil
}

// decodeValue maps the model's string answer onto the typed value for the
// question. Blank values mean the model had nothing to report.
func decodeValue(questionType catalog.QuestionType, raw string) (answers.Value, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return answers.Value{}, false
	}
	switch questionType {
	case catalog.TypeBoolean:
		switch strings.ToLower(raw) {
		case "true":
			return answers.BoolValue(true), true
		case "false":
			return answers.BoolValue(false), true
		default:
			return answers.Value{}, false
		}
	case catalog.TypeMultipleChoice:
		parts := strings.Split(raw, ",")
		var items []string
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		if len(items) == 0 {
			return answers.Value{}, false
		}
		return answers.ListValue(items), true
	default:
		return answers.TextValue(raw), true
	}
}

func questionSpecs(cat *catalog.Catalog) []llm.QuestionSpec {
	specs := make([]llm.QuestionSpec, 0, cat.Len())
	for _, q := range cat.Questions {
		specs = append(specs, llm.QuestionSpec{
			ID:      q.ID,
			Text:    q.Text,
			Type:    string(q.Type),
			Options: q.Options,
		})
	}
	return specs
}
