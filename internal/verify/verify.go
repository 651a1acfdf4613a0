package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/catalog"
	"diagnosis-backend/internal/llm"
)

// Checker asks the verification service to judge answer sufficiency and
// validates its output. Failures never synthesize a result: the caller keeps
// the question unverified.
type Checker struct {
	LLM llm.Client
}

// Check runs the batch sufficiency judgment for one question/answer pair.
func (c *Checker) Check(ctx context.Context, q catalog.Question, a answers.Answer) (answers.AICheck, error) {
	raw, err := c.LLM.CheckAnswer(ctx, checkInput(q, a))
	if err != nil {
		return answers.AICheck{}, fmt.Errorf("check question %s: %w", q.ID, err)
	}
	return parseAssessment(raw, false)
}

// Review runs the detailed interactive review; the improvement suggestion is
// required in this variant.
func (c *Checker) Review(ctx context.Context, q catalog.Question, a answers.Answer) (answers.AICheck, error) {
	raw, err := c.LLM.ReviewAnswer(ctx, checkInput(q, a))
	if err != nil {
		return answers.AICheck{}, fmt.Errorf("review question %s: %w", q.ID, err)
	}
	return parseAssessment(raw, true)
}

func checkInput(q catalog.Question, a answers.Answer) llm.CheckInput {
	return llm.CheckInput{
		QuestionText:   q.Text,
		Reference:      q.Reference,
		ReferenceText:  q.ReferenceText,
		FormattedValue: answers.FormatForPrompt(a.Value, q.Type),
		Evidence:       a.Evidence,
	}
}

func parseAssessment(raw json.RawMessage, requireSuggestion bool) (answers.AICheck, error) {
	var check answers.AICheck
	if err := json.Unmarshal(raw, &check); err != nil {
		return answers.AICheck{}, fmt.Errorf("assessment parse: %w", err)
	}
	switch check.Status {
	case answers.CheckSufficient, answers.CheckPartial, answers.CheckInsufficient:
	default:
		return answers.AICheck{}, fmt.Errorf("assessment status %q invalid", check.Status)
	}
	if strings.TrimSpace(check.Feedback) == "" {
		return answers.AICheck{}, fmt.Errorf("assessment missing feedback")
	}
	if requireSuggestion && strings.TrimSpace(check.ImprovementSuggestion) == "" {
		return answers.AICheck{}, fmt.Errorf("assessment missing improvement suggestion")
	}
	return check, nil
}
