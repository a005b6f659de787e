package prompts

import "strings"

// Input is the superset of fields any kind reads. Absent fields are "".
type Input struct {
	Topic    string
	Sentence string
	Verb     string
	Level    string
	Theme    string
	Question string
}

// InputFromFields copies known fields out of m, trimming surrounding whitespace.
// Unknown keys are ignored.
func InputFromFields(m map[string]string) Input {
	get := func(f Field) string { return strings.TrimSpace(m[string(f)]) }
	return Input{
		Topic:    get(FieldTopic),
		Sentence: get(FieldSentence),
		Verb:     get(FieldVerb),
		Level:    get(FieldLevel),
		Theme:    get(FieldTheme),
		Question: get(FieldQuestion),
	}
}

func (in Input) Get(f Field) string {
	switch f {
	case FieldTopic:
		return in.Topic
	case FieldSentence:
		return in.Sentence
	case FieldVerb:
		return in.Verb
	case FieldLevel:
		return in.Level
	case FieldTheme:
		return in.Theme
	case FieldQuestion:
		return in.Question
	}
	return ""
}

func (in *Input) set(f Field, v string) {
	switch f {
	case FieldTopic:
		in.Topic = v
	case FieldSentence:
		in.Sentence = v
	case FieldVerb:
		in.Verb = v
	case FieldLevel:
		in.Level = v
	case FieldTheme:
		in.Theme = v
	case FieldQuestion:
		in.Question = v
	}
}
