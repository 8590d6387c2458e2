package toolbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Handler executes a tool with the given JSON input and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is a callable the model may choose to invoke.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// NewTyped builds a Tool around fn. The input schema is reflected from I, the
// raw arguments are decoded into I before fn runs, and the returned O is
// encoded as JSON for the model.
func NewTyped[I, O any](name, description string, fn func(ctx context.Context, in I) (O, error)) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: SchemaFor[I](),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in I
			if len(input) > 0 {
				if err := json.Unmarshal(input, &in); err != nil {
					return "", fmt.Errorf("%s: invalid input: %w", name, err)
				}
			}

			out, err := fn(ctx, in)
			if err != nil {
				return "", err
			}

			data, err := json.Marshal(out)
			if err != nil {
				return "", fmt.Errorf("%s: marshal result: %w", name, err)
			}

			return string(data), nil
		},
	}
}

// SchemaFor returns the JSON schema of T inlined as a single object, the form
// model providers expect for tool input. Fields without omitempty are
// required.
func SchemaFor[T any]() json.RawMessage {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}

	var zero T
	s := r.Reflect(zero)
	s.Version = ""

	data, err := json.Marshal(s)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}

	return data
}
