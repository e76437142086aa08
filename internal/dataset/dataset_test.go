package dataset

import (
	"strings"
	"testing"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/datagen"
)

func sampleData() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": float64(1), "name": "Alice", "active": true},
		{"id": float64(2), "name": "Bob", "active": false},
	}
}

func TestToJSONIncludesAllRows(t *testing.T) {
	d := New(NewMetadata("users", "User", 2, 10), sampleData())
	out, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "Bob") {
		t.Fatalf("expected both rows in JSON output, got %q", out)
	}
}

func TestToJSONLProducesOneLinePerRow(t *testing.T) {
	d := New(NewMetadata("users", "User", 2, 10), sampleData())
	out, err := d.ToJSONL()
	if err != nil {
		t.Fatalf("ToJSONL failed: %v", err)
	}
	if len(strings.Split(out, "\n")) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
}

func TestToCSVIncludesHeaderAndRows(t *testing.T) {
	d := New(NewMetadata("users", "User", 2, 10), sampleData())
	out, err := d.ToCSV()
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}
	if !strings.Contains(out, "name") || !strings.Contains(out, "Alice") {
		t.Fatalf("expected header and data rows, got %q", out)
	}
}

func TestToCSVEmptyDatasetYieldsEmptyString(t *testing.T) {
	d := New(NewMetadata("empty", "User", 0, 0), nil)
	out, err := d.ToCSV()
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty string for an empty dataset, got %q", out)
	}
}

func TestToYAMLIncludesRows(t *testing.T) {
	d := New(NewMetadata("users", "User", 2, 10), sampleData())
	out, err := d.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML failed: %v", err)
	}
	if !strings.Contains(out, "Alice") {
		t.Fatalf("expected YAML output to contain row data, got %q", out)
	}
}

func TestSampleCapsAtDatasetSize(t *testing.T) {
	d := New(NewMetadata("users", "User", 2, 10), sampleData())
	if len(d.Sample(100)) != 2 {
		t.Fatalf("expected sample capped at dataset size")
	}
	if len(d.Sample(1)) != 1 {
		t.Fatalf("expected sample of requested size")
	}
}

func TestFilterKeepsMatchingRows(t *testing.T) {
	d := New(NewMetadata("users", "User", 2, 10), sampleData())
	filtered := d.Filter(func(row map[string]interface{}) bool {
		active, _ := row["active"].(bool)
		return active
	})
	if filtered.RowCount() != 1 {
		t.Fatalf("expected 1 active row, got %d", filtered.RowCount())
	}
	if filtered.Metadata.RowCount != 1 {
		t.Fatalf("expected filtered metadata row count updated, got %d", filtered.Metadata.RowCount)
	}
}

func TestMapTransformsEveryRow(t *testing.T) {
	d := New(NewMetadata("users", "User", 2, 10), sampleData())
	mapped := d.Map(func(row map[string]interface{}) map[string]interface{} {
		out := make(map[string]interface{}, len(row)+1)
		for k, v := range row {
			out[k] = v
		}
		out["doubled"] = true
		return out
	})
	if mapped.RowCount() != 2 {
		t.Fatalf("expected row count preserved, got %d", mapped.RowCount())
	}
	if mapped.Data[0]["doubled"] != true {
		t.Fatalf("expected mapper applied to every row")
	}
}

func TestValidateAgainstSchemaFlagsMissingRequiredAndUnknownFields(t *testing.T) {
	schema := &datagen.SchemaDefinition{
		Name: "User",
		Fields: []datagen.FieldDefinition{
			{Name: "name", Required: true},
			{Name: "active", Required: false},
		},
	}
	d := New(NewMetadata("users", "User", 1, 0), []map[string]interface{}{
		{"active": true, "extra": "field"},
	})

	violations := d.ValidateAgainstSchema(schema)
	if len(violations) != 2 {
		t.Fatalf("expected a missing-field and an unexpected-field violation, got %v", violations)
	}

	result := d.ValidateWithDetails(schema)
	if result.Valid {
		t.Fatalf("expected validation result to be invalid")
	}
	if result.TotalRowsValidated != 1 {
		t.Fatalf("expected total rows validated to be 1, got %d", result.TotalRowsValidated)
	}
}

func TestMetadataWithHelpersAreImmutable(t *testing.T) {
	base := NewMetadata("users", "User", 0, 0)
	withDesc := base.WithDescription("a test dataset")
	if base.Description != nil {
		t.Fatalf("expected WithDescription not to mutate the receiver")
	}
	if withDesc.Description == nil || *withDesc.Description != "a test dataset" {
		t.Fatalf("expected description set on the returned copy")
	}

	withTag := base.WithTag("env", "test")
	if len(base.Tags) != 0 {
		t.Fatalf("expected WithTag not to mutate the receiver's tags")
	}
	if withTag.Tags["env"] != "test" {
		t.Fatalf("expected tag set on the returned copy")
	}
}
