package report

import (
	"math"
	"testing"
	"time"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/catalog"
)

func mustCatalog(t *testing.T, questions []catalog.Question) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(questions, []string{"IFRS S1", "IFRS S2"})
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return cat
}

func sufficient() *answers.AICheck {
	return &answers.AICheck{Status: answers.CheckSufficient, Feedback: "ok"}
}

func insufficient() *answers.AICheck {
	return &answers.AICheck{Status: answers.CheckInsufficient, Feedback: "não"}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 0.01
}

func TestBuildThreeQuestionBucketExample(t *testing.T) {
	cat := mustCatalog(t, []catalog.Question{
		{ID: "q1", Topic: "T", Subtopic: "A", Text: "1", Type: catalog.TypeText, Reference: "IFRS S1.1"},
		{ID: "q2", Topic: "T", Subtopic: "A", Text: "2", Type: catalog.TypeText, Reference: "IFRS S2.1"},
		{ID: "q3", Topic: "T", Subtopic: "B", Text: "3", Type: catalog.TypeText, Reference: "IFRS S1.9, IFRS S2.9"},
	})
	set := answers.Set{
		"q1": {Value: answers.TextValue("a"), Confirmed: true, AICheck: sufficient()},
		"q2": {Value: answers.TextValue("b"), Confirmed: true, AICheck: insufficient()},
		"q3": {Value: answers.TextValue("c")},
	}

	data := Build(cat, set, "Acme", false, time.Now())

	if !approx(data.WeightedCompliance, 100.0/3) {
		t.Fatalf("overall compliance = %v, want 33.3", data.WeightedCompliance)
	}
	if !approx(data.StandardCompliance["IFRS S1"], 50) {
		t.Fatalf("S1 compliance = %v, want 50", data.StandardCompliance["IFRS S1"])
	}
	if !approx(data.StandardCompliance["IFRS S2"], 0) {
		t.Fatalf("S2 compliance = %v, want 0", data.StandardCompliance["IFRS S2"])
	}
	if len(data.Deficiencies) != 2 {
		t.Fatalf("expected deficiencies [q2 q3], got %v", data.Deficiencies)
	}
	if data.Deficiencies[0].ID != "q2" || data.Deficiencies[1].ID != "q3" {
		t.Fatalf("expected deficiencies [q2 q3], got %s %s", data.Deficiencies[0].ID, data.Deficiencies[1].ID)
	}
	if data.AnsweredQuestions != 2 {
		t.Fatalf("answeredQuestions = %d, want 2", data.AnsweredQuestions)
	}
	if data.TotalQuestions != 3 {
		t.Fatalf("totalQuestions = %d, want 3", data.TotalQuestions)
	}
}

func TestBuildEmptyBucketIsVacuouslyCompliant(t *testing.T) {
	cat := mustCatalog(t, []catalog.Question{
		{ID: "q1", Topic: "T", Subtopic: "A", Text: "1", Type: catalog.TypeText, Reference: "IFRS S1.1"},
	})
	data := Build(cat, answers.Set{}, "Acme", false, time.Now())

	if got := data.StandardCompliance["IFRS S2"]; got != 100 {
		t.Fatalf("empty bucket compliance = %v, want 100", got)
	}
	if math.IsNaN(data.StandardCompliance["IFRS S2"]) {
		t.Fatal("empty bucket must not be NaN")
	}
}

func TestBuildScoring(t *testing.T) {
	cases := []struct {
		name  string
		set   answers.Set
		want  float64
		defct bool
	}{
		{"unanswered", answers.Set{}, 0, true},
		{"provided unverified", answers.Set{"q1": {Value: answers.TextValue("a"), Confirmed: true}}, 0, true},
		{"sufficient", answers.Set{"q1": {Value: answers.TextValue("a"), Confirmed: true, AICheck: sufficient()}}, 100, false},
		{"partial", answers.Set{"q1": {Value: answers.TextValue("a"), Confirmed: true, AICheck: &answers.AICheck{Status: answers.CheckPartial, Feedback: "f"}}}, 50, true},
		{"insufficient", answers.Set{"q1": {Value: answers.TextValue("a"), Confirmed: true, AICheck: insufficient()}}, 0, true},
		{"unknown status", answers.Set{"q1": {Value: answers.TextValue("a"), Confirmed: true, AICheck: &answers.AICheck{Status: "weird", Feedback: "f"}}}, 0, true},
		{"confirmed not applicable unverified", answers.Set{"q1": {Value: answers.NotApplicableValue(), Confirmed: true}}, 0, true},
	}

	cat := mustCatalog(t, []catalog.Question{
		{ID: "q1", Topic: "T", Subtopic: "A", Text: "1", Type: catalog.TypeText, Reference: "IFRS S1.1"},
	})
	for _, tc := range cases {
		data := Build(cat, tc.set, "Acme", false, time.Now())
		if !approx(data.WeightedCompliance, tc.want) {
			t.Fatalf("%s: compliance = %v, want %v", tc.name, data.WeightedCompliance, tc.want)
		}
		if got := len(data.Deficiencies) == 1; got != tc.defct {
			t.Fatalf("%s: deficiency presence = %v, want %v", tc.name, got, tc.defct)
		}
	}
}

func TestBuildSubtopicsSortedWorstFirst(t *testing.T) {
	cat := mustCatalog(t, []catalog.Question{
		{ID: "q1", Topic: "T", Subtopic: "Boa", Text: "1", Type: catalog.TypeText, Reference: "IFRS S1.1"},
		{ID: "q2", Topic: "T", Subtopic: "Ruim", Text: "2", Type: catalog.TypeText, Reference: "IFRS S1.2"},
		{ID: "q3", Topic: "T", Subtopic: "Média", Text: "3", Type: catalog.TypeText, Reference: "IFRS S1.3"},
	})
	set := answers.Set{
		"q1": {Value: answers.TextValue("a"), Confirmed: true, AICheck: sufficient()},
		"q3": {Value: answers.TextValue("c"), Confirmed: true, AICheck: &answers.AICheck{Status: answers.CheckPartial, Feedback: "f"}},
	}

	data := Build(cat, set, "Acme", false, time.Now())
	if len(data.TopicCompliance) != 1 {
		t.Fatalf("expected one topic, got %d", len(data.TopicCompliance))
	}
	subs := data.TopicCompliance[0].Subtopics
	if len(subs) != 3 {
		t.Fatalf("expected 3 subtopics, got %d", len(subs))
	}
	if subs[0].Name != "Ruim" || subs[1].Name != "Média" || subs[2].Name != "Boa" {
		t.Fatalf("subtopics not sorted worst-first: %v", subs)
	}
}

func TestBuildSnapshotIsInsulatedFromLaterEdits(t *testing.T) {
	cat := mustCatalog(t, []catalog.Question{
		{ID: "q1", Topic: "T", Subtopic: "A", Text: "1", Type: catalog.TypeText, Reference: "IFRS S1.1"},
	})
	set := answers.Set{
		"q1": {Value: answers.TextValue("orig"), Confirmed: true, AICheck: sufficient()},
	}
	data := Build(cat, set, "Acme", false, time.Now())

	live := set["q1"]
	live.Value = answers.TextValue("edited")
	live.AICheck.Status = answers.CheckInsufficient
	set["q1"] = live

	snap := data.Answers["q1"]
	if !snap.Value.Equal(answers.TextValue("orig")) {
		t.Fatal("snapshot value changed after live edit")
	}
	if snap.AICheck.Status != answers.CheckSufficient {
		t.Fatal("snapshot AI check changed after live edit")
	}
}

func TestBuildWeightedRespectsWeights(t *testing.T) {
	cat := mustCatalog(t, []catalog.Question{
		{ID: "q1", Topic: "T", Subtopic: "A", Text: "1", Type: catalog.TypeText, Reference: "IFRS S1.1"},
		{ID: "q2", Topic: "T", Subtopic: "A", Text: "2", Type: catalog.TypeText, Reference: "IFRS S1.2"},
	})
	set := answers.Set{
		"q1": {Value: answers.TextValue("a"), Confirmed: true, AICheck: sufficient()},
	}
	weight := func(q catalog.Question) float64 {
		if q.ID == "q1" {
			return 3
		}
		return 1
	}
	data := BuildWeighted(cat, set, "Acme", false, time.Now(), weight)
	if !approx(data.WeightedCompliance, 75) {
		t.Fatalf("weighted compliance = %v, want 75", data.WeightedCompliance)
	}
}

func TestBuildFlagsConsultantValidated(t *testing.T) {
	cat := mustCatalog(t, []catalog.Question{
		{ID: "q1", Topic: "T", Subtopic: "A", Text: "1", Type: catalog.TypeText, Reference: "IFRS S1.1"},
	})
	if Build(cat, answers.Set{}, "Acme", false, time.Now()).ConsultantValidated {
		t.Fatal("submitted report must not be flagged validated")
	}
	if !Build(cat, answers.Set{}, "Acme", true, time.Now()).ConsultantValidated {
		t.Fatal("validated report must be flagged")
	}
}
