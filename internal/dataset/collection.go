package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Collection manages multiple named Datasets, keyed by their
// metadata's name.
type Collection struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewCollection builds an empty collection.
func NewCollection() *Collection {
	return &Collection{datasets: make(map[string]*Dataset)}
}

// AddDataset stores d under its metadata name, replacing any existing
// dataset of the same name.
func (c *Collection) AddDataset(d *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[d.Metadata.Name] = d
}

// GetDataset returns the dataset named name, if present.
func (c *Collection) GetDataset(name string) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.datasets[name]
	return d, ok
}

// RemoveDataset removes and returns the dataset named name, if present.
func (c *Collection) RemoveDataset(name string) (*Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.datasets[name]
	if ok {
		delete(c.datasets, name)
	}
	return d, ok
}

// ListDatasets returns every dataset name, sorted for deterministic output.
func (c *Collection) ListDatasets() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.datasets))
	for name := range c.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of datasets in the collection.
func (c *Collection) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.datasets)
}

// SaveToDirectory writes every dataset in the collection to dirPath as
// "<name>.json".
func (c *Collection) SaveToDirectory(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return errGeneric("failed to create directory: " + err.Error())
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, d := range c.datasets {
		path := filepath.Join(dirPath, name+".json")
		if err := d.SaveToFile(path); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromDirectory loads every "*.json" file in dirPath as a dataset,
// naming each by its file stem.
func LoadFromDirectory(dirPath string) (*Collection, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, errGeneric("failed to read directory: " + err.Error())
	}

	collection := NewCollection()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dirPath, entry.Name())
		d, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		d.Metadata.Name = strings.TrimSuffix(entry.Name(), ".json")
		collection.AddDataset(d)
	}
	return collection, nil
}

// DatasetStats summarizes one dataset for Collection.Statistics.
type DatasetStats struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
	Rows   int    `json:"rows"`
	Format Format `json:"format"`
}

// Stats aggregates the collection's size and per-dataset summaries.
type Stats struct {
	TotalDatasets int            `json:"total_datasets"`
	TotalRows     int            `json:"total_rows"`
	Datasets      []DatasetStats `json:"datasets"`
}

// Statistics reports aggregate and per-dataset row counts.
func (c *Collection) Statistics() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalDatasets: len(c.datasets)}
	for _, d := range c.datasets {
		stats.TotalRows += d.RowCount()
		stats.Datasets = append(stats.Datasets, DatasetStats{
			Name:   d.Metadata.Name,
			Schema: d.Metadata.SchemaName,
			Rows:   d.RowCount(),
			Format: d.Metadata.Format,
		})
	}
	sort.Slice(stats.Datasets, func(i, j int) bool { return stats.Datasets[i].Name < stats.Datasets[j].Name })
	return stats
}
