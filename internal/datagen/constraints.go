package datagen

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// applyConstraints clamps numeric values to [minimum, maximum], pads
// or truncates strings to [minLength, maxLength], and overrides the
// value entirely with a uniformly sampled enum member when one is
// declared.
func (g *Generator) applyConstraints(value interface{}, field FieldDefinition) interface{} {
	switch v := value.(type) {
	case int64:
		value = clampNumber(float64(v), field)
	case float64:
		value = clampNumber(v, field)
	case string:
		value = g.clampString(v, field)
	}

	if enum, ok := field.enumValues(); ok && len(enum) > 0 {
		return g.faker.RandomElement(enum)
	}
	return value
}

func clampNumber(v float64, field FieldDefinition) float64 {
	if min, ok := field.constraintFloat("minimum"); ok && v < min {
		v = min
	}
	if max, ok := field.constraintFloat("maximum"); ok && v > max {
		v = max
	}
	return v
}

func (g *Generator) clampString(s string, field FieldDefinition) string {
	if minLen, ok := field.constraintInt("minLength"); ok && len(s) < minLen {
		s += g.faker.String(minLen - len(s))
	}
	if maxLen, ok := field.constraintInt("maxLength"); ok && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// validateValue re-checks a generated value against the same
// constraints applyConstraints enforces, catching any field type
// where clamping does not apply (e.g. an enum-only constraint on a
// faker-produced value that isn't numeric or string), then
// supplements that hand-written check with a real JSON Schema
// validation built from the same constraint set.
func validateValue(value interface{}, field FieldDefinition) error {
	switch v := value.(type) {
	case int64:
		if err := validateNumber(float64(v), field); err != nil {
			return err
		}
	case float64:
		if err := validateNumber(v, field); err != nil {
			return err
		}
	case string:
		if err := validateString(v, field); err != nil {
			return err
		}
	}
	return validateAgainstJSONSchema(value, field)
}

// validateAgainstJSONSchema builds a minimal JSON Schema document from
// field's constraints and runs it through gojsonschema, supplementing
// the hand-rolled min/max/length checks above with a schema-validator
// pass over the same bounds.
func validateAgainstJSONSchema(value interface{}, field FieldDefinition) error {
	schema := map[string]interface{}{}
	switch value.(type) {
	case int64:
		schema["type"] = "integer"
	case float64:
		schema["type"] = "number"
	case string:
		schema["type"] = "string"
	case bool:
		schema["type"] = "boolean"
	default:
		return nil
	}
	if min, ok := field.constraintFloat("minimum"); ok {
		schema["minimum"] = min
	}
	if max, ok := field.constraintFloat("maximum"); ok {
		schema["maximum"] = max
	}
	if minLen, ok := field.constraintInt("minLength"); ok {
		schema["minLength"] = minLen
	}
	if maxLen, ok := field.constraintInt("maxLength"); ok {
		schema["maxLength"] = maxLen
	}
	if enum, ok := field.enumValues(); ok && len(enum) > 0 {
		schema["enum"] = enum
	}
	if len(schema) <= 1 {
		return nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(value))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("schema validation failed for field %q: %v", field.Name, result.Errors())
	}
	return nil
}

func validateNumber(v float64, field FieldDefinition) error {
	if min, ok := field.constraintFloat("minimum"); ok && v < min {
		return fmt.Errorf("value %v below minimum %v", v, min)
	}
	if max, ok := field.constraintFloat("maximum"); ok && v > max {
		return fmt.Errorf("value %v above maximum %v", v, max)
	}
	return nil
}

func validateString(s string, field FieldDefinition) error {
	if minLen, ok := field.constraintInt("minLength"); ok && len(s) < minLen {
		return fmt.Errorf("string length %d below minLength %d", len(s), minLen)
	}
	if maxLen, ok := field.constraintInt("maxLength"); ok && len(s) > maxLen {
		return fmt.Errorf("string length %d above maxLength %d", len(s), maxLen)
	}
	return nil
}
