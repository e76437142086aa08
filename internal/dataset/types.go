// Package dataset manages generated data as named, persistable
// collections of rows: export to JSON/JSON-Lines/CSV/YAML, filter/map
// derivatives, and schema validation, grouped into a Collection for
// bulk save/load.
package dataset

import "time"

// Format is a dataset's on-disk serialization.
type Format string

const (
	FormatJSON      Format = "json"
	FormatJSONLines Format = "jsonl"
	FormatCSV       Format = "csv"
	FormatYAML      Format = "yaml"
)

// Metadata describes a dataset without its rows: provenance, size, and
// arbitrary tags.
type Metadata struct {
	Name             string
	Description      *string
	SchemaName       string
	RowCount         int
	CreatedAt        time.Time
	GenerationTimeMS int64
	Format           Format
	FileSizeBytes    *int64
	Tags             map[string]string
}

// NewMetadata builds metadata for a freshly generated dataset.
func NewMetadata(name, schemaName string, rowCount int, generationTimeMS int64) Metadata {
	return Metadata{
		Name:             name,
		SchemaName:       schemaName,
		RowCount:         rowCount,
		CreatedAt:        time.Now(),
		GenerationTimeMS: generationTimeMS,
		Format:           FormatJSON,
		Tags:             make(map[string]string),
	}
}

// WithDescription returns a copy of m with description set.
func (m Metadata) WithDescription(description string) Metadata {
	m.Description = &description
	return m
}

// WithTag returns a copy of m with one tag added.
func (m Metadata) WithTag(key, value string) Metadata {
	tags := make(map[string]string, len(m.Tags)+1)
	for k, v := range m.Tags {
		tags[k] = v
	}
	tags[key] = value
	m.Tags = tags
	return m
}

// WithFileSize returns a copy of m with its recorded file size set.
func (m Metadata) WithFileSize(size int64) Metadata {
	m.FileSizeBytes = &size
	return m
}

// ValidationResult is the outcome of validating a dataset against a schema.
type ValidationResult struct {
	Valid              bool
	Errors             []string
	Warnings           []string
	TotalRowsValidated int
}
