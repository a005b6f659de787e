package prompts

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownKind is returned by Build for a kind with no registered template.
var ErrUnknownKind = errors.New("unknown prompt kind")

type Template struct {
	Kind     Kind
	Version  int
	Required []Requirement
	Defaults map[Field]string
	System   func(Input) (string, error)
	User     func(Input) (string, error)
	Validate Validator
}

// registry is filled once from init and read-only afterwards.
var registry = map[Kind]Template{}

func init() {
	RegisterAll()
}

func Register(t Template) {
	registry[t.Kind] = t
}

// Build validates in against the kind's rules, fills defaults and renders the
// two messages. Validation failures are *FieldError.
func Build(kind Kind, in Input) (Prompt, error) {
	t, ok := registry[kind]
	if !ok {
		return Prompt{}, fmt.Errorf("%w: %s", ErrUnknownKind, string(kind))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, err
		}
	}
	for f, def := range t.Defaults {
		if in.Get(f) == "" {
			in.set(f, def)
		}
	}
	system, err := t.System(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s system prompt: %w", kind, err)
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s user prompt: %w", kind, err)
	}
	return Prompt{
		Kind:    t.Kind,
		Version: t.Version,
		System:  system,
		User:    user,
	}, nil
}

// BuildFields is Build over a raw field map.
func BuildFields(kind Kind, fields map[string]string) (Prompt, error) {
	return Build(kind, InputFromFields(fields))
}

// Kinds lists the registered kinds in route-table order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for _, k := range allKinds {
		if _, ok := registry[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Rule describes a kind's field contract.
type Rule struct {
	Kind     Kind              `json:"kind"`
	Route    string            `json:"route"`
	Required []string          `json:"required"`
	Defaults map[string]string `json:"defaults"`
}

func Describe(kind Kind) (Rule, bool) {
	t, ok := registry[kind]
	if !ok {
		return Rule{}, false
	}
	r := Rule{
		Kind:     kind,
		Route:    "/api/" + kind.Slug(),
		Required: make([]string, 0, len(t.Required)),
		Defaults: make(map[string]string, len(t.Defaults)),
	}
	for _, req := range t.Required {
		r.Required = append(r.Required, string(req.Field))
	}
	for f, v := range t.Defaults {
		r.Defaults[string(f)] = v
	}
	sort.Strings(r.Required)
	return r, true
}
