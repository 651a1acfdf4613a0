package report

import (
	"sort"
	"time"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/catalog"
)

// SubtopicCompliance is the compliance percentage for one subtopic.
type SubtopicCompliance struct {
	Name       string  `json:"name"`
	Compliance float64 `json:"compliance"`
}

// TopicCompliance is the rollup for one topic, its subtopics sorted
// worst-first so consumers can surface weak areas directly.
type TopicCompliance struct {
	Topic      string               `json:"topic"`
	Compliance float64              `json:"compliance"`
	Subtopics  []SubtopicCompliance `json:"subtopics"`
}

// Data is an immutable report snapshot. The answer set is a deep copy bound
// at generation time; later edits to the live store never alter it.
type Data struct {
	Questions           []catalog.Question `json:"allQuestions"`
	Deficiencies        []catalog.Question `json:"deficiencies"`
	Answers             answers.Set        `json:"allAnswers"`
	CompanyName         string             `json:"companyName"`
	AnsweredQuestions   int                `json:"answeredQuestions"`
	TotalQuestions      int                `json:"totalQuestions"`
	GeneratedAt         time.Time          `json:"generatedAt"`
	WeightedCompliance  float64            `json:"weightedCompliance"`
	StandardCompliance  map[string]float64 `json:"standardCompliance"`
	TopicCompliance     []TopicCompliance  `json:"topicCompliance"`
	ConsultantValidated bool               `json:"consultantValidated"`
}

// WeightFunc assigns a scoring weight to a question.
type WeightFunc func(catalog.Question) float64

// UniformWeight scores every question equally.
func UniformWeight(catalog.Question) float64 { return 1 }

type bucket struct {
	achieved float64
	possible float64
}

func (b bucket) percent() float64 {
	// An empty bucket is vacuously compliant, never a failure (or a NaN).
	if b.possible <= 0 {
		return 100
	}
	return b.achieved / b.possible * 100
}

// Build produces a report snapshot with uniform question weights.
func Build(cat *catalog.Catalog, set answers.Set, companyName string, consultantValidated bool, now time.Time) Data {
	return BuildWeighted(cat, set, companyName, consultantValidated, now, UniformWeight)
}

// BuildWeighted is the aggregation core: a pure function of the catalog and
// a bound-in-time answer set. It never mutates its inputs; both report slots
// (submitted and validated) are produced by this one function.
func BuildWeighted(cat *catalog.Catalog, set answers.Set, companyName string, consultantValidated bool, now time.Time, weight WeightFunc) Data {
	if weight == nil {
		weight = UniformWeight
	}

	overall := bucket{}
	standards := make(map[string]*bucket, len(cat.Standards))
	for _, marker := range cat.Standards {
		standards[marker] = &bucket{}
	}

	type topicAcc struct {
		bucket
		subtopicOrder []string
		subtopics     map[string]*bucket
	}
	topics := make(map[string]*topicAcc)
	for _, name := range cat.Topics() {
		topics[name] = &topicAcc{subtopics: make(map[string]*bucket)}
	}

	var deficiencies []catalog.Question
	answered := 0

	for _, q := range cat.Questions {
		w := weight(q)
		answer, hasAnswer := set[q.ID]
		if hasAnswer && answer.Provided() {
			answered++
		}

		topic := topics[q.Topic]
		sub, ok := topic.subtopics[q.Subtopic]
		if !ok {
			sub = &bucket{}
			topic.subtopics[q.Subtopic] = sub
			topic.subtopicOrder = append(topic.subtopicOrder, q.Subtopic)
		}

		overall.possible += w
		topic.possible += w
		sub.possible += w
		markers := cat.StandardsFor(q)
		for _, marker := range markers {
			standards[marker].possible += w
		}

		achieved := questionScore(answer, hasAnswer) * w
		overall.achieved += achieved
		topic.achieved += achieved
		sub.achieved += achieved
		for _, marker := range markers {
			standards[marker].achieved += achieved
		}

		if achieved < w {
			deficiencies = append(deficiencies, q)
		}
	}

	standardCompliance := make(map[string]float64, len(standards))
	for marker, b := range standards {
		standardCompliance[marker] = b.percent()
	}

	topicCompliance := make([]TopicCompliance, 0, len(topics))
	for _, name := range cat.Topics() {
		topic := topics[name]
		subs := make([]SubtopicCompliance, 0, len(topic.subtopicOrder))
		for _, subName := range topic.subtopicOrder {
			subs = append(subs, SubtopicCompliance{Name: subName, Compliance: topic.subtopics[subName].percent()})
		}
		sort.SliceStable(subs, func(i, j int) bool { return subs[i].Compliance < subs[j].Compliance })
		topicCompliance = append(topicCompliance, TopicCompliance{
			Topic:      name,
			Compliance: topic.percent(),
			Subtopics:  subs,
		})
	}

	questions := make([]catalog.Question, len(cat.Questions))
	copy(questions, cat.Questions)

	return Data{
		Questions:           questions,
		Deficiencies:        deficiencies,
		Answers:             set.Clone(),
		CompanyName:         companyName,
		AnsweredQuestions:   answered,
		TotalQuestions:      len(cat.Questions),
		GeneratedAt:         now.UTC(),
		WeightedCompliance:  overall.percent(),
		StandardCompliance:  standardCompliance,
		TopicCompliance:     topicCompliance,
		ConsultantValidated: consultantValidated,
	}
}

// questionScore returns the achieved fraction of the question's weight.
// Unverified provided answers score zero: verification is mandatory for
// credit, the same as an insufficient judgment.
func questionScore(a answers.Answer, hasAnswer bool) float64 {
	if !hasAnswer || !a.Provided() || a.AICheck == nil {
		return 0
	}
	switch a.AICheck.Status {
	case answers.CheckSufficient:
		return 1
	case answers.CheckPartial:
		return 0.5
	default:
		return 0
	}
}
