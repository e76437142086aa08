package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeDisabledIsNoop(t *testing.T) {
	loggers = make(map[Category]*Logger)
	logsDir = ""
	if err := Initialize(Config{DebugMode: false}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if IsDebugMode() {
		t.Fatal("expected debug mode disabled")
	}
	l := Get(CategoryBoot)
	l.Info("should be a no-op, no panic expected")
}

func TestInitializeEnabledCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	loggers = make(map[Category]*Logger)
	if err := Initialize(Config{DebugMode: true, Dir: dir, Level: "debug"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	l := Get(CategoryWorkspace)
	l.Info("hello %s", "world")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one log file to be created")
	}
}

func TestCategoryDisabledSuppressesOutput(t *testing.T) {
	dir := t.TempDir()
	loggers = make(map[Category]*Logger)
	err := Initialize(Config{
		DebugMode:  true,
		Dir:        dir,
		Level:      "debug",
		Categories: map[string]bool{string(CategoryPersona): false},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	if IsCategoryEnabled(CategoryPersona) {
		t.Fatal("expected persona category disabled")
	}
	if !IsCategoryEnabled(CategoryWorkspace) {
		t.Fatal("expected workspace category enabled by default")
	}

	l := Get(CategoryPersona)
	l.Info("must not create a file")

	path := filepath.Join(dir, "")
	_ = path
}

func TestTimerStop(t *testing.T) {
	dir := t.TempDir()
	loggers = make(map[Category]*Logger)
	_ = Initialize(Config{DebugMode: true, Dir: dir, Level: "debug"})
	defer CloseAll()

	timer := StartTimer(CategoryVDB, "TestOp")
	elapsed := timer.Stop()
	if elapsed < 0 {
		t.Fatal("expected non-negative elapsed duration")
	}
}
