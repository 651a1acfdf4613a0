package answers

import "encoding/json"

// CheckStatus is the AI sufficiency judgment for an answer.
type CheckStatus string

const (
	CheckSufficient   CheckStatus = "sufficient"
	CheckPartial      CheckStatus = "partial"
	CheckInsufficient CheckStatus = "insufficient"
)

// AICheck is the cached result of an external verification call. It is only
// ever produced by the verification client, never synthesized locally.
type AICheck struct {
	Status                CheckStatus `json:"status"`
	Feedback              string      `json:"feedback"`
	ImprovementSuggestion string      `json:"improvementSuggestion,omitempty"`
}

// ValidationStatus tracks the consultant decision on an answer. The empty
// string means pending.
type ValidationStatus string

const (
	ValidationAccepted ValidationStatus = "validated"
	ValidationRefused  ValidationStatus = "refused"
)

// Attachment is supporting material stored in the object store.
type Attachment struct {
	Name       string `json:"name"`
	MimeType   string `json:"type"`
	StorageKey string `json:"storageKey"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// Answer is one question's user-submitted record.
type Answer struct {
	Value             Value
	Evidence          string
	Attachment        *Attachment
	Confirmed         bool
	AICheck           *AICheck
	ValidationStatus  ValidationStatus
	ConsultantComment string
}

// Provided reports whether the answer counts as answered. This is the single
// predicate used by progress counters, report eligibility and filtering; an
// explicit "not applicable" value is still provided once confirmed.
func (a Answer) Provided() bool {
	return a.Confirmed
}

// Clone returns a deep copy.
func (a Answer) Clone() Answer {
	out := a
	out.Value = cloneValue(a.Value)
	if a.Attachment != nil {
		att := *a.Attachment
		out.Attachment = &att
	}
	if a.AICheck != nil {
		check := *a.AICheck
		out.AICheck = &check
	}
	return out
}

func cloneValue(v Value) Value {
	if v.kind == ListKind {
		return ListValue(v.list)
	}
	return v
}

// The value field travels as a raw message because the key's presence is
// itself meaningful: a pointer field would be left nil on JSON null without
// the Value codec ever running, collapsing NotApplicable into Unanswered.
type answerJSON struct {
	Value             json.RawMessage  `json:"value,omitempty"`
	Evidence          string           `json:"evidence"`
	Attachment        *Attachment      `json:"attachment,omitempty"`
	Confirmed         bool             `json:"confirmed,omitempty"`
	AICheck           *AICheck         `json:"aiCheck,omitempty"`
	ValidationStatus  ValidationStatus `json:"validationStatus,omitempty"`
	ConsultantComment string           `json:"consultantComment,omitempty"`
}

// MarshalJSON omits the value key entirely for Unanswered and writes null
// for NotApplicable, preserving the two distinct null-states on the wire.
func (a Answer) MarshalJSON() ([]byte, error) {
	shadow := answerJSON{
		Evidence:          a.Evidence,
		Attachment:        a.Attachment,
		Confirmed:         a.Confirmed,
		AICheck:           a.AICheck,
		ValidationStatus:  a.ValidationStatus,
		ConsultantComment: a.ConsultantComment,
	}
	if a.Value.Kind() != Unanswered {
		raw, err := a.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		shadow.Value = raw
	}
	return json.Marshal(shadow)
}

// UnmarshalJSON restores the value-presence distinction: a missing value key
// leaves the answer Unanswered, a present null decodes to NotApplicable.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var shadow answerJSON
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	*a = Answer{
		Evidence:          shadow.Evidence,
		Attachment:        shadow.Attachment,
		Confirmed:         shadow.Confirmed,
		AICheck:           shadow.AICheck,
		ValidationStatus:  shadow.ValidationStatus,
		ConsultantComment: shadow.ConsultantComment,
	}
	if len(shadow.Value) > 0 {
		if err := a.Value.UnmarshalJSON(shadow.Value); err != nil {
			return err
		}
	}
	return nil
}

// Set maps question id to answer.
type Set map[string]Answer

// Clone deep-copies the set so callers can mutate a working copy and commit
// it wholesale.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id, a := range s {
		out[id] = a.Clone()
	}
	return out
}

// ProvidedCount returns how many of the given question ids have a provided
// answer in the set.
func (s Set) ProvidedCount(questionIDs []string) int {
	count := 0
	for _, id := range questionIDs {
		if a, ok := s[id]; ok && a.Provided() {
			count++
		}
	}
	return count
}
