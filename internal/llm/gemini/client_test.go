package gemini

import (
	"strings"
	"testing"

	"diagnosis-backend/internal/llm"
)

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient("", "gemini-2.5-flash"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatal("expected error for missing model")
	}
	if _, err := NewClient("key", "gemini-2.5-flash"); err != nil {
		t.Fatalf("NewClient: %v", err)
	}
}

func TestBuildReviewPromptDefaults(t *testing.T) {
	prompt := buildReviewPrompt(llm.CheckInput{
		QuestionText:   "Pergunta?",
		Reference:      "IFRS S1.27(a)",
		FormattedValue: "Verdadeiro",
	})
	if !strings.Contains(prompt, "Não especificado.") {
		t.Fatal("missing reference text should fall back to placeholder")
	}
	if !strings.Contains(prompt, "Nenhuma evidência fornecida.") {
		t.Fatal("missing evidence should fall back to placeholder")
	}
	if !strings.Contains(prompt, "IFRS S1.27(a)") {
		t.Fatal("prompt should cite the standard reference")
	}
}

func TestBuildImportPromptEmbedsQuestions(t *testing.T) {
	prompt, err := buildImportPrompt(llm.DocumentInput{
		DocumentText: "relatório",
		Questions: []llm.QuestionSpec{
			{ID: "q1", Text: "Pergunta", Type: "boolean", Options: []string{}},
		},
	})
	if err != nil {
		t.Fatalf("buildImportPrompt: %v", err)
	}
	if !strings.Contains(prompt, `"q1"`) {
		t.Fatal("prompt should embed question ids as JSON")
	}
	if !strings.Contains(prompt, "relatório") {
		t.Fatal("prompt should include the document text")
	}
}
