// Package postschema validates post aggregate JSON documents.
package postschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	PayloadVersion = "v1"

	schemaName = "post.schema.json"
)

//go:embed post.schema.json
var postSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// postPayload carries only what the semantic checks need.
type postPayload struct {
	Body     string `json:"body"`
	Comments []struct {
		ID       int64  `json:"id"`
		ParentID *int64 `json:"parent_id"`
		Content  string `json:"content"`
	} `json:"comments"`
}

// Validate checks payload against the embedded schema and the rules the schema
// cannot express: a non-blank body, unique comment IDs, and replies that
// point at an earlier comment of the same post.
func Validate(payload []byte) error {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	var item postPayload
	if err := json.Unmarshal(bytes.TrimSpace(payload), &item); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return validateSemantics(&item)
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource(schemaName, strings.NewReader(postSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile(schemaName)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(item *postPayload) error {
	if item == nil {
		return fmt.Errorf("payload is nil")
	}
	if strings.TrimSpace(item.Body) == "" {
		return fmt.Errorf("body must not be empty")
	}

	seen := make(map[int64]struct{}, len(item.Comments))
	for i, comment := range item.Comments {
		if strings.TrimSpace(comment.Content) == "" {
			return fmt.Errorf("comments[%d].content must not be empty", i)
		}
		if _, dup := seen[comment.ID]; dup {
			return fmt.Errorf("comments[%d].id %d is duplicated", i, comment.ID)
		}
		if comment.ParentID != nil {
			if _, ok := seen[*comment.ParentID]; !ok {
				return fmt.Errorf("comments[%d].parent_id %d does not reference an earlier comment", i, *comment.ParentID)
			}
		}
		seen[comment.ID] = struct{}{}
	}
	return nil
}
