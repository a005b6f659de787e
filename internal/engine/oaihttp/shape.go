package oaihttp

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/yungbote/francais-backend/internal/engine"
)

// completionShape accepts any chat completion body whose first choice has a
// string message.content. Everything else in the body is ignored.
const completionShape = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["choices"],
  "properties": {
    "choices": {
      "type": "array",
      "minItems": 1,
      "prefixItems": [
        {
          "type": "object",
          "required": ["message"],
          "properties": {
            "message": {
              "type": "object",
              "required": ["content"],
              "properties": {
                "content": {"type": "string"}
              }
            }
          }
        }
      ]
    }
  }
}`

var compileShape = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(completionShape))
	if err != nil {
		return nil, fmt.Errorf("unmarshal completion schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("completion.json", doc); err != nil {
		return nil, fmt.Errorf("add completion schema: %w", err)
	}
	return c.Compile("completion.json")
})

// extractContent returns choices[0].message.content from a raw response body.
func extractContent(body []byte) (string, error) {
	sch, err := compileShape()
	if err != nil {
		return "", err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrMalformedResponse, err)
	}
	if err := sch.Validate(inst); err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrMalformedResponse, err)
	}
	// Shape is validated above, so the assertions below hold.
	choice := inst.(map[string]any)["choices"].([]any)[0].(map[string]any)
	return choice["message"].(map[string]any)["content"].(string), nil
}
