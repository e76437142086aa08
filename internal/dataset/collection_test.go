package dataset

import (
	"path/filepath"
	"testing"
)

func TestCollectionAddGetRemove(t *testing.T) {
	c := NewCollection()
	if c.Size() != 0 {
		t.Fatalf("expected empty collection")
	}

	c.AddDataset(New(NewMetadata("users", "User", 1, 0), sampleData()[:1]))
	if c.Size() != 1 {
		t.Fatalf("expected 1 dataset after add, got %d", c.Size())
	}

	got, ok := c.GetDataset("users")
	if !ok || got.RowCount() != 1 {
		t.Fatalf("expected to find the added dataset")
	}

	removed, ok := c.RemoveDataset("users")
	if !ok || removed.Metadata.Name != "users" {
		t.Fatalf("expected to remove the dataset")
	}
	if c.Size() != 0 {
		t.Fatalf("expected collection empty after removal")
	}
}

func TestCollectionListDatasetsIsSorted(t *testing.T) {
	c := NewCollection()
	c.AddDataset(New(NewMetadata("zebra", "Z", 0, 0), nil))
	c.AddDataset(New(NewMetadata("apple", "A", 0, 0), nil))

	names := c.ListDatasets()
	if len(names) != 2 || names[0] != "apple" || names[1] != "zebra" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestCollectionStatisticsAggregatesRows(t *testing.T) {
	c := NewCollection()
	c.AddDataset(New(NewMetadata("ds1", "Schema1", 2, 0), sampleData()))
	c.AddDataset(New(NewMetadata("ds2", "Schema2", 1, 0), sampleData()[:1]))

	stats := c.Statistics()
	if stats.TotalDatasets != 2 {
		t.Fatalf("expected 2 datasets, got %d", stats.TotalDatasets)
	}
	if stats.TotalRows != 3 {
		t.Fatalf("expected 3 total rows, got %d", stats.TotalRows)
	}
}

func TestSaveAndLoadDirectoryRoundTrips(t *testing.T) {
	dir := t.TempDir()

	c := NewCollection()
	c.AddDataset(New(NewMetadata("users", "User", 2, 0), sampleData()))

	if err := c.SaveToDirectory(dir); err != nil {
		t.Fatalf("SaveToDirectory failed: %v", err)
	}

	loaded, err := LoadFromDirectory(dir)
	if err != nil {
		t.Fatalf("LoadFromDirectory failed: %v", err)
	}
	if loaded.Size() != 1 {
		t.Fatalf("expected 1 dataset loaded, got %d", loaded.Size())
	}
	d, ok := loaded.GetDataset("users")
	if !ok || d.RowCount() != 2 {
		t.Fatalf("expected the users dataset with 2 rows, got %+v", d)
	}
}

func TestSaveToFileThenLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	d := New(NewMetadata("users", "User", 2, 0), sampleData())
	if err := d.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.RowCount() != 2 {
		t.Fatalf("expected 2 rows loaded, got %d", loaded.RowCount())
	}
}
