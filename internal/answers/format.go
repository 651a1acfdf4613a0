package answers

import (
	"strings"

	"diagnosis-backend/internal/catalog"
)

const (
	labelNotApplicable = "Não aplicável."
	labelNotAnswered   = "Não respondido."
	labelTrue          = "Verdadeiro"
	labelFalse         = "Falso"
)

// FormatForPrompt renders an answer value as the human-readable string sent
// to the verification service and shown in consultant review. Deterministic
// and side-effect free.
func FormatForPrompt(v Value, questionType catalog.QuestionType) string {
	switch v.Kind() {
	case NotApplicable:
		return labelNotApplicable
	case Unanswered:
		return labelNotAnswered
	case BoolKind:
		if v.Bool() {
			return labelTrue
		}
		return labelFalse
	case ListKind:
		return strings.Join(v.List(), ", ")
	default:
		return v.Text()
	}
}
