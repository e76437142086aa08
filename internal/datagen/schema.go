package datagen

// FieldDefinition describes one field of a schema: its semantic type,
// whether it is required, and the constraints the generated value must
// satisfy.
type FieldDefinition struct {
	Name          string
	Required      bool
	FieldType     string
	FakerTemplate string
	Constraints   map[string]interface{}
	Relationship  string
}

// SchemaDefinition is a flat, generation-ready description of an
// object shape — the common target both hand-built schemas and
// OpenAPI-extracted schemas are converted into.
type SchemaDefinition struct {
	Name        string
	Description string
	Fields      []FieldDefinition
}

func (f FieldDefinition) constraintFloat(key string) (float64, bool) {
	v, ok := f.Constraints[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func (f FieldDefinition) constraintInt(key string) (int, bool) {
	v, ok := f.constraintFloat(key)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func (f FieldDefinition) enumValues() ([]interface{}, bool) {
	v, ok := f.Constraints["enum"]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]interface{})
	return arr, ok
}
