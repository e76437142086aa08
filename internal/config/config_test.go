package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigSane(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name == "" {
		t.Fatal("expected non-empty name")
	}
	if cfg.VDB.Backend != VDBBackendMemory {
		t.Fatalf("expected default VDB backend memory, got %s", cfg.VDB.Backend)
	}
	if cfg.AccessReview.UserReview.InactiveThresholdDays != 90 {
		t.Fatalf("expected default inactive threshold 90, got %d", cfg.AccessReview.UserReview.InactiveThresholdDays)
	}
	if len(cfg.AccessReview.ResourceReview.SensitiveResources) != 4 {
		t.Fatalf("expected 4 default sensitive resources, got %d", len(cfg.AccessReview.ResourceReview.SensitiveResources))
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != DefaultConfig().Name {
		t.Fatal("expected defaults when file is missing")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mockforge.yaml")
	data := []byte("name: custom-mock\nvdb:\n  backend: sqlite\n  path: data.db\nchaos:\n  min_confidence: 0.8\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "custom-mock" {
		t.Fatalf("expected overridden name, got %s", cfg.Name)
	}
	if cfg.VDB.Backend != VDBBackendSQLite || cfg.VDB.Path != "data.db" {
		t.Fatalf("expected overridden VDB config, got %+v", cfg.VDB)
	}
	if cfg.Chaos.MinConfidence != 0.8 {
		t.Fatalf("expected overridden chaos confidence, got %v", cfg.Chaos.MinConfidence)
	}
	// Untouched sections keep their defaults.
	if cfg.Workspace.MaxWorkspaces != DefaultConfig().Workspace.MaxWorkspaces {
		t.Fatal("expected workspace defaults preserved")
	}
}
