package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Requirement names a field that must be non-empty and the message returned when it is not.
type Requirement struct {
	Field   Field
	Message string
}

// Spec is the declaration format for one kind. System and User may be plain
// strings or text/template bodies over Input ({{.Topic}} etc). Field values
// are substituted as-is.
type Spec struct {
	Kind     Kind
	Version  int
	System   string
	User     string
	Required []Requirement
	Defaults map[Field]string
}

// MakeTemplate compiles a Spec into a Template.
func MakeTemplate(s Spec) (Template, error) {
	if !s.Kind.Valid() {
		return Template{}, fmt.Errorf("unknown kind %q", s.Kind)
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Kind)
	}
	if strings.TrimSpace(s.System) == "" || strings.TrimSpace(s.User) == "" {
		return Template{}, fmt.Errorf("%s: system and user templates required", s.Kind)
	}
	sysT, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Kind, err)
	}
	userT, err := template.New("user").Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Kind, err)
	}
	render := func(t *template.Template, in Input) (string, error) {
		var b bytes.Buffer
		if err := t.Execute(&b, in); err != nil {
			return "", err
		}
		return strings.TrimSpace(b.String()), nil
	}
	// Field references are only resolved at execution time.
	sample := sampleInput()
	if _, err := render(sysT, sample); err != nil {
		return Template{}, fmt.Errorf("%s system template: %w", s.Kind, err)
	}
	if _, err := render(userT, sample); err != nil {
		return Template{}, fmt.Errorf("%s user template: %w", s.Kind, err)
	}

	validators := make([]Validator, 0, len(s.Required))
	for _, r := range s.Required {
		validators = append(validators, RequireNonEmpty(r.Field, r.Message))
	}
	defaults := make(map[Field]string, len(s.Defaults))
	for f, v := range s.Defaults {
		defaults[f] = v
	}

	return Template{
		Kind:     s.Kind,
		Version:  s.Version,
		Required: append([]Requirement(nil), s.Required...),
		Defaults: defaults,
		System:   func(in Input) (string, error) { return render(sysT, in) },
		User:     func(in Input) (string, error) { return render(userT, in) },
		Validate: func(in Input) error {
			for _, v := range validators {
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}

func sampleInput() Input {
	var in Input
	for _, f := range allFields {
		in.set(f, "x")
	}
	return in
}

// RegisterSpec compiles and registers s, panicking on a malformed declaration.
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}
