package placeholder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"todomirror/internal/service"
)

const todoSchema = `{
  "type": "object",
  "required": ["id", "title", "completed"],
  "properties": {
    "id": {"type": "integer"},
    "title": {"type": "string"},
    "completed": {"type": "boolean"},
    "userId": {"type": "integer"}
  }
}`

// createSchema is the echo of a create. Some servers omit the new id.
const createSchema = `{
  "type": "object",
  "required": ["title", "completed"],
  "properties": {
    "id": {"type": "integer"},
    "title": {"type": "string"},
    "completed": {"type": "boolean"},
    "userId": {"type": "integer"}
  }
}`

var (
	echoSchema    = jsonschema.MustCompileString("todo.json", todoSchema)
	createdSchema = jsonschema.MustCompileString("created.json", createSchema)
	listSchema    = jsonschema.MustCompileString("todos.json", `{"type": "array", "items": `+todoSchema+`}`)
)

type schemaValidator interface {
	Validate(v interface{}) error
}

// decode checks data against schema and unmarshals it into out.
// Any failure is reported as service.ErrDecode.
func decode(data []byte, schema schemaValidator, out any) error {
	if schema != nil {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()

		var doc interface{}
		if err := dec.Decode(&doc); err != nil {
			return service.DecodeError("invalid JSON: %v", err)
		}
		if err := schema.Validate(doc); err != nil {
			return service.DecodeError("unexpected shape: %s", describe(err))
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return service.DecodeError("invalid JSON: %v", err)
	}
	return nil
}

// describe flattens a schema validation error into its leaf messages.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	var msgs []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}
