package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrConfigMalformed is returned when a stored event_filters or
// extra_fields blob does not decode into its expected shape.
var ErrConfigMalformed = errors.New("announce: webhook config malformed")

const filtersSchema = `{
	"type": "object",
	"additionalProperties": {
		"oneOf": [
			{"type": "null"},
			{
				"type": "object",
				"additionalProperties": {
					"oneOf": [
						{"type": "null"},
						{"type": "array", "items": {"type": "string"}}
					]
				}
			}
		]
	}
}`

const extraFieldsSchema = `{
	"type": "object",
	"additionalProperties": {"type": ["string", "number", "boolean", "null"]}
}`

var (
	schemasOnce  sync.Once
	schemasErr   error
	filtersShape *jsonschema.Schema
	extraShape   *jsonschema.Schema
)

func compileSchemas() {
	c := jsonschema.NewCompiler()

	for url, src := range map[string]string{
		"announce://schema/event_filters": filtersSchema,
		"announce://schema/extra_fields":  extraFieldsSchema,
	} {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(src)))
		if err != nil {
			schemasErr = fmt.Errorf("unmarshal schema %s: %w", url, err)
			return
		}
		if err := c.AddResource(url, doc); err != nil {
			schemasErr = fmt.Errorf("add schema resource %s: %w", url, err)
			return
		}
	}

	filtersShape, schemasErr = c.Compile("announce://schema/event_filters")
	if schemasErr != nil {
		return
	}
	extraShape, schemasErr = c.Compile("announce://schema/extra_fields")
}

func validateShape(field string, raw []byte, pick func() *jsonschema.Schema) error {
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return fmt.Errorf("announce: compile webhook schemas: %w", schemasErr)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigMalformed, field, err)
	}
	if err := pick().Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigMalformed, field, err)
	}
	return nil
}

// isEmpty treats absent blobs and JSON null as "nothing configured".
func isEmpty(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// DecodeFilters decodes an event_filters blob.
func DecodeFilters(raw []byte) (Filters, error) {
	if isEmpty(raw) {
		return Filters{}, nil
	}
	if err := validateShape("event_filters", raw, func() *jsonschema.Schema { return filtersShape }); err != nil {
		return nil, err
	}

	var f Filters
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: event_filters: %v", ErrConfigMalformed, err)
	}
	return f, nil
}

// DecodeExtraFields decodes an extra_fields blob.
func DecodeExtraFields(raw []byte) (ExtraFields, error) {
	if isEmpty(raw) {
		return ExtraFields{}, nil
	}
	if err := validateShape("extra_fields", raw, func() *jsonschema.Schema { return extraShape }); err != nil {
		return nil, err
	}

	var e ExtraFields
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: extra_fields: %v", ErrConfigMalformed, err)
	}
	return e, nil
}

// EncodeFilters is the inverse of DecodeFilters. Nil yields no blob.
func EncodeFilters(f Filters) (json.RawMessage, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// EncodeExtraFields is the inverse of DecodeExtraFields. Nil yields no blob.
func EncodeExtraFields(e ExtraFields) (json.RawMessage, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}
