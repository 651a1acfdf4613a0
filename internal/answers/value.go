package answers

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the possible states of an answer value. The zero value
// is Unanswered, which is distinct from NotApplicable: an explicitly
// confirmed "not applicable" is still a provided answer.
type Kind int

const (
	Unanswered Kind = iota
	NotApplicable
	BoolKind
	TextKind
	ListKind
)

// Value is a tagged answer value. Use the constructors; the zero Value means
// the question was never answered.
type Value struct {
	kind Kind
	b    bool
	text string
	list []string
}

// BoolValue wraps a boolean answer.
func BoolValue(b bool) Value { return Value{kind: BoolKind, b: b} }

// TextValue wraps a free-text or single-choice answer.
func TextValue(s string) Value { return Value{kind: TextKind, text: s} }

// ListValue wraps an ordered multiple-choice selection.
func ListValue(items []string) Value {
	out := make([]string, len(items))
	copy(out, items)
	return Value{kind: ListKind, list: out}
}

// NotApplicableValue marks the question as explicitly not applicable.
func NotApplicableValue() Value { return Value{kind: NotApplicable} }

// Kind returns the value's discriminant.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; only meaningful for BoolKind.
func (v Value) Bool() bool { return v.b }

// Text returns the string payload; only meaningful for TextKind.
func (v Value) Text() string { return v.text }

// List returns a copy of the list payload; only meaningful for ListKind.
func (v Value) List() []string {
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out
}

// Equal reports whether two values are identical, including list order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case BoolKind:
		return v.b == other.b
	case TextKind:
		return v.text == other.text
	case ListKind:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON encodes the payload; NotApplicable and Unanswered both encode
// as null here, so containers that must preserve the distinction (Answer)
// omit the field entirely for Unanswered.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case BoolKind:
		return json.Marshal(v.b)
	case TextKind:
		return json.Marshal(v.text)
	case ListKind:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a present value; JSON null means NotApplicable.
// Absence of the field (Unanswered) is handled by the Answer codec, which
// never calls this for a missing key.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("answers: empty value payload")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		*v = NotApplicableValue()
		return nil
	}
	switch trimmed[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*v = ListValue(items)
	default:
		return fmt.Errorf("answers: unsupported value payload %q", string(trimmed))
	}
	return nil
}
