package catalog

import "testing"

func TestLoadDefault(t *testing.T) {
	cat, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if cat.Len() == 0 {
		t.Fatal("expected embedded questions")
	}
	if _, ok := cat.ByID("rg-01"); !ok {
		t.Fatal("expected question rg-01 in embedded catalog")
	}
	topics := cat.Topics()
	if len(topics) == 0 {
		t.Fatal("expected derived topics")
	}
	if topics[0] != "Requisitos Gerais" {
		t.Fatalf("expected first topic in catalog order, got %q", topics[0])
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	questions := []Question{
		{ID: "q1", Topic: "T", Subtopic: "S", Text: "a", Type: TypeText, Reference: "IFRS S1"},
		{ID: "q1", Topic: "T", Subtopic: "S", Text: "b", Type: TypeText, Reference: "IFRS S2"},
	}
	if _, err := Load(questions, nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestStandardsFor(t *testing.T) {
	questions := []Question{
		{ID: "q1", Topic: "T", Subtopic: "S", Text: "a", Type: TypeText, Reference: "IFRS S1.20"},
		{ID: "q2", Topic: "T", Subtopic: "S", Text: "b", Type: TypeText, Reference: "IFRS S2.5"},
		{ID: "q3", Topic: "T", Subtopic: "S", Text: "c", Type: TypeText, Reference: "IFRS S1.72, IFRS S2.72"},
		{ID: "q4", Topic: "T", Subtopic: "S", Text: "d", Type: TypeText, Reference: "CPC 00"},
	}
	cat, err := Load(questions, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := map[string]int{"q1": 1, "q2": 1, "q3": 2, "q4": 0}
	for id, want := range cases {
		q, _ := cat.ByID(id)
		if got := len(cat.StandardsFor(q)); got != want {
			t.Fatalf("question %s: expected %d buckets, got %d", id, want, got)
		}
	}
}

func TestTopicsFirstAppearanceOrder(t *testing.T) {
	questions := []Question{
		{ID: "q1", Topic: "B", Subtopic: "S", Text: "a", Type: TypeText, Reference: "IFRS S1"},
		{ID: "q2", Topic: "A", Subtopic: "S", Text: "b", Type: TypeText, Reference: "IFRS S1"},
		{ID: "q3", Topic: "B", Subtopic: "S", Text: "c", Type: TypeText, Reference: "IFRS S1"},
	}
	cat, err := Load(questions, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	topics := cat.Topics()
	if len(topics) != 2 || topics[0] != "B" || topics[1] != "A" {
		t.Fatalf("unexpected topic order: %v", topics)
	}
}
