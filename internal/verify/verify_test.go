package verify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/catalog"
	"diagnosis-backend/internal/llm"
)

type staticLLM struct {
	checkResp  string
	reviewResp string
	err        error
	lastInput  llm.CheckInput
}

func (s *staticLLM) CheckAnswer(ctx context.Context, input llm.CheckInput) (json.RawMessage, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.checkResp), nil
}

func (s *staticLLM) ReviewAnswer(ctx context.Context, input llm.CheckInput) (json.RawMessage, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.reviewResp), nil
}

func (s *staticLLM) AnalyzeDocument(ctx context.Context, input llm.DocumentInput) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

var testQuestion = catalog.Question{
	ID: "q1", Topic: "T", Subtopic: "S",
	Text: "Pergunta?", Type: catalog.TypeBoolean, Reference: "IFRS S1.1",
}

func TestCheckParsesValidAssessment(t *testing.T) {
	client := &staticLLM{checkResp: `{"status":"partial","feedback":"falta detalhe"}`}
	checker := &Checker{LLM: client}

	check, err := checker.Check(context.Background(), testQuestion, answers.Answer{Value: answers.BoolValue(true), Confirmed: true, Evidence: "ev"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if check.Status != answers.CheckPartial || check.Feedback != "falta detalhe" {
		t.Fatalf("unexpected assessment: %+v", check)
	}
	if client.lastInput.FormattedValue != "Verdadeiro" {
		t.Fatalf("expected formatted value, got %q", client.lastInput.FormattedValue)
	}
}

func TestCheckRejectsUnknownStatus(t *testing.T) {
	client := &staticLLM{checkResp: `{"status":"maybe","feedback":"?"}`}
	checker := &Checker{LLM: client}
	if _, err := checker.Check(context.Background(), testQuestion, answers.Answer{Confirmed: true}); err == nil {
		t.Fatal("expected invalid status error")
	}
}

func TestCheckRejectsMalformedJSON(t *testing.T) {
	client := &staticLLM{checkResp: `not json`}
	checker := &Checker{LLM: client}
	if _, err := checker.Check(context.Background(), testQuestion, answers.Answer{Confirmed: true}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCheckPropagatesTransportError(t *testing.T) {
	client := &staticLLM{err: errors.New("boom")}
	checker := &Checker{LLM: client}
	if _, err := checker.Check(context.Background(), testQuestion, answers.Answer{Confirmed: true}); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestReviewRequiresImprovementSuggestion(t *testing.T) {
	client := &staticLLM{reviewResp: `{"status":"insufficient","feedback":"f"}`}
	checker := &Checker{LLM: client}
	if _, err := checker.Review(context.Background(), testQuestion, answers.Answer{Confirmed: true}); err == nil {
		t.Fatal("expected missing suggestion error")
	}

	client.reviewResp = `{"status":"insufficient","feedback":"f","improvementSuggestion":"detalhe o escopo"}`
	check, err := checker.Review(context.Background(), testQuestion, answers.Answer{Confirmed: true})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if check.ImprovementSuggestion != "detalhe o escopo" {
		t.Fatalf("unexpected suggestion: %q", check.ImprovementSuggestion)
	}
}
