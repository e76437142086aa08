package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/datagen"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

func errGeneric(message string) error {
	return errs.New("dataset", errs.KindGeneric, message)
}

// Dataset is a named collection of generated rows plus the metadata
// describing how they were produced.
type Dataset struct {
	Metadata Metadata
	Data     []map[string]interface{}
}

// New builds a Dataset from metadata and rows.
func New(metadata Metadata, data []map[string]interface{}) *Dataset {
	return &Dataset{Metadata: metadata, Data: data}
}

// FromGeneration builds a Dataset from a datagen.Generator's output,
// deriving its metadata from the generation itself.
func FromGeneration(name, schemaName string, data []map[string]interface{}, generationTimeMS int64) *Dataset {
	metadata := NewMetadata(name, schemaName, len(data), generationTimeMS)
	return New(metadata, data)
}

// RowCount returns the number of rows in the dataset.
func (d *Dataset) RowCount() int { return len(d.Data) }

// ToJSON renders the dataset as a pretty-printed JSON array.
func (d *Dataset) ToJSON() (string, error) {
	b, err := json.MarshalIndent(d.Data, "", "  ")
	if err != nil {
		return "", errGeneric("failed to serialize dataset: " + err.Error())
	}
	return string(b), nil
}

// ToJSONL renders the dataset as newline-delimited JSON, one row per line.
func (d *Dataset) ToJSONL() (string, error) {
	lines := make([]string, 0, len(d.Data))
	for _, row := range d.Data {
		b, err := json.Marshal(row)
		if err != nil {
			return "", errGeneric("JSON serialization error: " + err.Error())
		}
		lines = append(lines, string(b))
	}
	return strings.Join(lines, "\n"), nil
}

// ToCSV renders the dataset as CSV, using the first row's keys
// (sorted, for deterministic column order) as the header.
func (d *Dataset) ToCSV() (string, error) {
	if len(d.Data) == 0 {
		return "", nil
	}

	headers := make([]string, 0, len(d.Data[0]))
	for k := range d.Data[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(headers); err != nil {
		return "", errGeneric("failed to write CSV header: " + err.Error())
	}
	for _, row := range d.Data {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = cellString(row[h])
		}
		if err := w.Write(record); err != nil {
			return "", errGeneric("failed to write CSV row: " + err.Error())
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errGeneric("failed to flush CSV writer: " + err.Error())
	}
	return sb.String(), nil
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// ToYAML renders the dataset as a YAML sequence.
func (d *Dataset) ToYAML() (string, error) {
	b, err := yaml.Marshal(d.Data)
	if err != nil {
		return "", errGeneric("failed to serialize dataset: " + err.Error())
	}
	return string(b), nil
}

// SaveToFile writes the dataset to path using the format named in its
// metadata.
func (d *Dataset) SaveToFile(path string) error {
	content, err := d.render(d.Metadata.Format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errGeneric("failed to write dataset file: " + err.Error())
	}
	return nil
}

func (d *Dataset) render(format Format) (string, error) {
	switch format {
	case FormatJSON:
		return d.ToJSON()
	case FormatJSONLines:
		return d.ToJSONL()
	case FormatCSV:
		return d.ToCSV()
	case FormatYAML:
		return d.ToYAML()
	default:
		return d.ToJSON()
	}
}

// LoadFromFile loads a dataset previously saved as a JSON array. Other
// on-disk formats are not currently re-importable, matching the
// source's own JSON-only load path.
func LoadFromFile(path string) (*Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errGeneric("failed to read dataset file: " + err.Error())
	}

	var data []map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errGeneric("unsupported file format or invalid content")
	}

	metadata := Metadata{
		Name:          "loaded_dataset",
		SchemaName:    "unknown",
		RowCount:      len(data),
		Format:        FormatJSON,
		FileSizeBytes: int64Ptr(int64(len(content))),
		Tags:          make(map[string]string),
	}
	return New(metadata, data), nil
}

func int64Ptr(v int64) *int64 { return &v }

// Sample returns up to count rows from the start of the dataset.
func (d *Dataset) Sample(count int) []map[string]interface{} {
	if count > len(d.Data) {
		count = len(d.Data)
	}
	return d.Data[:count]
}

// Filter returns a new Dataset containing only rows matching predicate.
func (d *Dataset) Filter(predicate func(map[string]interface{}) bool) *Dataset {
	var filtered []map[string]interface{}
	for _, row := range d.Data {
		if predicate(row) {
			filtered = append(filtered, row)
		}
	}
	metadata := d.Metadata
	metadata.RowCount = len(filtered)
	return New(metadata, filtered)
}

// Map returns a new Dataset with every row passed through mapper.
func (d *Dataset) Map(mapper func(map[string]interface{}) map[string]interface{}) *Dataset {
	mapped := make([]map[string]interface{}, len(d.Data))
	for i, row := range d.Data {
		mapped[i] = mapper(row)
	}
	return New(d.Metadata, mapped)
}

// ValidateAgainstSchema checks every row's required fields are present
// and flags fields absent from schema, returning one message per
// violation.
func (d *Dataset) ValidateAgainstSchema(schema *datagen.SchemaDefinition) []string {
	var errorsFound []string

	known := make(map[string]bool, len(schema.Fields))
	required := make(map[string]bool)
	for _, f := range schema.Fields {
		known[f.Name] = true
		if f.Required {
			required[f.Name] = true
		}
	}

	for i, row := range d.Data {
		for fieldName := range required {
			if _, ok := row[fieldName]; !ok {
				errorsFound = append(errorsFound, fmt.Sprintf("Row %d: Required field '%s' is missing", i+1, fieldName))
			}
		}
		for key := range row {
			if !known[key] {
				errorsFound = append(errorsFound, fmt.Sprintf("Row %d: Unexpected field '%s' not defined in schema", i+1, key))
			}
		}
	}
	return errorsFound
}

// ValidateWithDetails wraps ValidateAgainstSchema into a ValidationResult.
func (d *Dataset) ValidateWithDetails(schema *datagen.SchemaDefinition) ValidationResult {
	violations := d.ValidateAgainstSchema(schema)
	return ValidationResult{
		Valid:              len(violations) == 0,
		Errors:             violations,
		TotalRowsValidated: len(d.Data),
	}
}
