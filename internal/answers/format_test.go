package answers

import (
	"testing"

	"diagnosis-backend/internal/catalog"
)

func TestFormatForPrompt(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		qtype catalog.QuestionType
		want  string
	}{
		{"not applicable", NotApplicableValue(), catalog.TypeText, "Não aplicável."},
		{"unanswered", Value{}, catalog.TypeText, "Não respondido."},
		{"bool true", BoolValue(true), catalog.TypeBoolean, "Verdadeiro"},
		{"bool false", BoolValue(false), catalog.TypeBoolean, "Falso"},
		{"multiple choice", ListValue([]string{"Escopo 1", "Escopo 3"}), catalog.TypeMultipleChoice, "Escopo 1, Escopo 3"},
		{"text", TextValue("Conselho de Administração"), catalog.TypeSingleChoice, "Conselho de Administração"},
	}
	for _, tc := range cases {
		if got := FormatForPrompt(tc.value, tc.qtype); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatForPromptDeterministic(t *testing.T) {
	v := ListValue([]string{"b", "a"})
	first := FormatForPrompt(v, catalog.TypeMultipleChoice)
	for i := 0; i < 3; i++ {
		if got := FormatForPrompt(v, catalog.TypeMultipleChoice); got != first {
			t.Fatalf("non-deterministic output: %q vs %q", got, first)
		}
	}
	if first != "b, a" {
		t.Fatalf("selection order must be preserved, got %q", first)
	}
}
