package prompts

import "strings"

type Validator func(Input) error

// FieldError reports a missing required field. Message is user-facing (French).
type FieldError struct {
	Field   Field
	Message string
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func RequireNonEmpty(field Field, message string) Validator {
	return func(in Input) error {
		if strings.TrimSpace(in.Get(field)) == "" {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}
