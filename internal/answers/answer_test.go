package answers

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProvidedDependsOnlyOnConfirmed(t *testing.T) {
	cases := []struct {
		name     string
		answer   Answer
		provided bool
	}{
		{"unconfirmed with value", Answer{Value: TextValue("x")}, false},
		{"confirmed with value", Answer{Value: TextValue("x"), Confirmed: true}, true},
		{"confirmed not applicable", Answer{Value: NotApplicableValue(), Confirmed: true}, true},
		{"confirmed unanswered value", Answer{Confirmed: true}, true},
		{"unconfirmed empty", Answer{}, false},
	}
	for _, tc := range cases {
		if got := tc.answer.Provided(); got != tc.provided {
			t.Fatalf("%s: Provided() = %v, want %v", tc.name, got, tc.provided)
		}
	}
}

func TestAnswerJSONPreservesNullStates(t *testing.T) {
	notApplicable := Answer{Value: NotApplicableValue(), Confirmed: true, Evidence: "n/a"}
	data, err := json.Marshal(notApplicable)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"value":null`) {
		t.Fatalf("not-applicable answer should encode value as null, got %s", data)
	}

	unanswered := Answer{Evidence: "draft"}
	data2, err := json.Marshal(unanswered)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data2), `"value"`) {
		t.Fatalf("unanswered answer should omit value key, got %s", data2)
	}

	var back Answer
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Value.Kind() != NotApplicable {
		t.Fatalf("expected NotApplicable after roundtrip, got kind %d", back.Value.Kind())
	}

	var back2 Answer
	if err := json.Unmarshal(data2, &back2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back2.Value.Kind() != Unanswered {
		t.Fatalf("expected Unanswered after roundtrip, got kind %d", back2.Value.Kind())
	}
}

func TestAnswerJSONRoundtripTypedValues(t *testing.T) {
	orig := Set{
		"b": {Value: BoolValue(true), Confirmed: true},
		"t": {Value: TextValue("resposta"), Evidence: "ev", Confirmed: true},
		"m": {
			Value:            ListValue([]string{"Escopo 1", "Escopo 2"}),
			Confirmed:        true,
			AICheck:          &AICheck{Status: CheckPartial, Feedback: "ok"},
			ValidationStatus: ValidationAccepted,
		},
	}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Set
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back["b"].Value.Equal(BoolValue(true)) {
		t.Fatal("bool value lost in roundtrip")
	}
	if !back["m"].Value.Equal(ListValue([]string{"Escopo 1", "Escopo 2"})) {
		t.Fatal("list value or order lost in roundtrip")
	}
	if back["m"].AICheck == nil || back["m"].AICheck.Status != CheckPartial {
		t.Fatal("ai check lost in roundtrip")
	}
	if back["m"].ValidationStatus != ValidationAccepted {
		t.Fatal("validation status lost in roundtrip")
	}
}

func TestSetCloneIsDeep(t *testing.T) {
	orig := Set{
		"m": {Value: ListValue([]string{"a"}), Confirmed: true, AICheck: &AICheck{Status: CheckSufficient}},
	}
	clone := orig.Clone()

	a := clone["m"]
	a.AICheck.Status = CheckInsufficient
	list := a.Value.List()
	list[0] = "mutated"

	if orig["m"].AICheck.Status != CheckSufficient {
		t.Fatal("clone shares AICheck with original")
	}
	if orig["m"].Value.List()[0] != "a" {
		t.Fatal("clone shares list payload with original")
	}
}

func TestValueEqual(t *testing.T) {
	if !ListValue([]string{"a", "b"}).Equal(ListValue([]string{"a", "b"})) {
		t.Fatal("equal lists reported unequal")
	}
	if ListValue([]string{"a", "b"}).Equal(ListValue([]string{"b", "a"})) {
		t.Fatal("list order should matter")
	}
	if TextValue("x").Equal(BoolValue(true)) {
		t.Fatal("different kinds reported equal")
	}
	if !NotApplicableValue().Equal(NotApplicableValue()) {
		t.Fatal("not-applicable should equal itself")
	}
}

func TestValueUnmarshalRejectsBadPayloads(t *testing.T) {
	var v Value
	if err := v.UnmarshalJSON(nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if err := v.UnmarshalJSON([]byte("  ")); err == nil {
		t.Fatal("expected error for blank payload")
	}
	if err := v.UnmarshalJSON([]byte(`{"nested":true}`)); err == nil {
		t.Fatal("expected error for object payload")
	}
}
