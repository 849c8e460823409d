// Package validation checks rich-text documents against the JSON schema of
// the CMS wire shape before they are rendered or stored.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-richtext/internal/document"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with their instance location.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// documentSchema describes the rich-text wire shape. Node types are left
// open so documents holding kinds this module does not render still pass.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$ref": "#/$defs/document",
  "$defs": {
    "document": {
      "type": "object",
      "required": ["nodeType", "content"],
      "properties": {
        "nodeType": {"const": "document"},
        "data": {"$ref": "#/$defs/data"},
        "content": {"type": "array", "items": {"$ref": "#/$defs/node"}}
      }
    },
    "node": {
      "type": "object",
      "required": ["nodeType"],
      "properties": {
        "nodeType": {"type": "string", "minLength": 1},
        "data": {"$ref": "#/$defs/data"}
      },
      "if": {"properties": {"nodeType": {"const": "text"}}},
      "then": {
        "required": ["value"],
        "properties": {
          "value": {"type": "string"},
          "marks": {"type": "array", "items": {"$ref": "#/$defs/mark"}}
        }
      },
      "else": {
        "required": ["content"],
        "properties": {
          "nodeType": {"not": {"const": "document"}},
          "content": {"type": "array", "items": {"$ref": "#/$defs/node"}}
        }
      }
    },
    "mark": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["bold", "italic", "underline", "code", "strikethrough", "superscript", "subscript"]}
      }
    },
    "data": {
      "type": "object",
      "properties": {
        "uri": {"type": "string"},
        "target": {
          "type": "object",
          "required": ["sys"],
          "properties": {
            "sys": {
              "type": "object",
              "required": ["type", "linkType", "id"],
              "properties": {
                "type": {"const": "Link"},
                "linkType": {"enum": ["Entry", "Asset"]},
                "id": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    }
  }
}`

var loadDocumentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compileSchema([]byte(documentSchema))
})

// DocumentSchema returns the JSON schema used by ValidateDocumentJSON.
func DocumentSchema() []byte {
	return []byte(documentSchema)
}

// ValidateDocumentJSON validates a JSON-encoded rich-text document.
func ValidateDocumentJSON(data []byte) error {
	compiled, err := loadDocumentSchema()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	var payload any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return &PayloadValidationError{
			Issues: []ValidationIssue{{Message: fmt.Sprintf("invalid json: %v", err)}},
			Cause:  err,
		}
	}

	if err := compiled.Validate(payload); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// ValidateDocument encodes node and validates the result.
func ValidateDocument(node document.Node) error {
	encoded, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return ValidateDocumentJSON(encoded)
}

func compileSchema(schema []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("document.json", bytes.NewReader(schema)); err != nil {
		return nil, err
	}
	return compiler.Compile("document.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
