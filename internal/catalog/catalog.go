package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// QuestionType enumerates the supported answer shapes.
type QuestionType string

const (
	TypeBoolean        QuestionType = "boolean"
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeText           QuestionType = "text"
	TypeTextBlock      QuestionType = "text_block"
)

// Question is a single immutable entry of the questionnaire.
type Question struct {
	ID             string       `json:"id"`
	Topic          string       `json:"topic"`
	Subtopic       string       `json:"subtopic"`
	Text           string       `json:"text"`
	Type           QuestionType `json:"type"`
	Options        []string     `json:"options,omitempty"`
	EvidencePrompt string       `json:"evidence_prompt,omitempty"`
	Reference      string       `json:"reference"`
	ReferenceText  string       `json:"reference_text,omitempty"`
	Priority       string       `json:"priority,omitempty"`
}

// Catalog is the full question set plus derived lookups. It is built once at
// startup and passed to every component that needs it; nothing mutates it.
type Catalog struct {
	Questions []Question
	Standards []string

	topics []string
	byID   map[string]Question
}

// DefaultStandards are the disclosure-standard bucket markers matched
// against each question's reference string.
var DefaultStandards = []string{"IFRS S1", "IFRS S2"}

//go:embed questions.json
var embeddedQuestions []byte

// Load builds a catalog from an explicit question list.
func Load(questions []Question, standards []string) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog: no questions")
	}
	if len(standards) == 0 {
		standards = DefaultStandards
	}

	byID := make(map[string]Question, len(questions))
	var topics []string
	seenTopics := make(map[string]bool)
	for _, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			return nil, fmt.Errorf("catalog: question with empty id")
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate question id %q", q.ID)
		}
		byID[q.ID] = q
		if !seenTopics[q.Topic] {
			seenTopics[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}

	return &Catalog{
		Questions: questions,
		Standards: standards,
		topics:    topics,
		byID:      byID,
	}, nil
}

// LoadDefault returns the catalog embedded in the binary.
func LoadDefault() (*Catalog, error) {
	return loadJSON(embeddedQuestions)
}

// LoadFile reads a question set from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return loadJSON(data)
}

func loadJSON(data []byte) (*Catalog, error) {
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("catalog: parse questions: %w", err)
	}
	return Load(questions, DefaultStandards)
}

// Topics returns topic names in first-appearance order.
func (c *Catalog) Topics() []string {
	out := make([]string, len(c.topics))
	copy(out, c.topics)
	return out
}

// ByID returns the question with the given id.
func (c *Catalog) ByID(id string) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.Questions)
}

// StandardsFor classifies a question into zero or more standard buckets by
// substring match against its reference string.
func (c *Catalog) StandardsFor(q Question) []string {
	var out []string
	for _, marker := range c.Standards {
		if strings.Contains(q.Reference, marker) {
			out = append(out, marker)
		}
	}
	return out
}
