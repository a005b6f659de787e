package prompts

import "strings"

// Kind identifies one of the completion request kinds.
type Kind string

const (
	KindLesson         Kind = "lesson"
	KindCorrection     Kind = "correction"
	KindExerciseSet    Kind = "exercise_set"
	KindConjugation    Kind = "conjugation"
	KindTestGeneration Kind = "test_generation"
	KindStory          Kind = "story"
	KindAssistantQuery Kind = "assistant_query"
)

// Kinds in route-table order.
var allKinds = []Kind{
	KindLesson,
	KindCorrection,
	KindExerciseSet,
	KindConjugation,
	KindTestGeneration,
	KindStory,
	KindAssistantQuery,
}

var slugs = map[Kind]string{
	KindLesson:         "lesson",
	KindCorrection:     "correct",
	KindExerciseSet:    "exercise",
	KindConjugation:    "conjugation",
	KindTestGeneration: "test",
	KindStory:          "story",
	KindAssistantQuery: "assistant",
}

// Slug is the last path segment of the kind's route (/api/<slug>).
func (k Kind) Slug() string { return slugs[k] }

func (k Kind) Valid() bool {
	_, ok := slugs[k]
	return ok
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts either a kind name ("exercise_set") or its route slug ("exercise").
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k := Kind(s); k.Valid() {
		return k, true
	}
	for k, slug := range slugs {
		if slug == s {
			return k, true
		}
	}
	return "", false
}

// Field names accepted in request bodies.
type Field string

const (
	FieldTopic    Field = "topic"
	FieldSentence Field = "sentence"
	FieldVerb     Field = "verb"
	FieldLevel    Field = "level"
	FieldTheme    Field = "theme"
	FieldQuestion Field = "question"
)

var allFields = []Field{FieldTopic, FieldSentence, FieldVerb, FieldLevel, FieldTheme, FieldQuestion}

const (
	DefaultLevel = "intermediaire"
	DefaultTheme = "la vie quotidienne"
)
