package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

// TestMain verifies that no goroutine, Execute's per-call guest
// goroutine included, is still running once the package's tests have
// finished, the same way the teacher's integration suites guard their
// background goroutines.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const echoModuleSource = `package plugin

import "encoding/json"

var Memory []byte

func Alloc(n int) int {
	start := len(Memory)
	Memory = append(Memory, make([]byte, n)...)
	return start
}

func Dealloc(ptr, n int) {}

func Init() bool {
	return true
}

func Process(ptr, n int) (int, int) {
	var req map[string]interface{}
	if err := json.Unmarshal(Memory[ptr:ptr+n], &req); err != nil {
		return 0, 0
	}
	name, _ := req["name"].(string)
	resp := map[string]interface{}{"greeting": "hello " + name}
	data, _ := json.Marshal(resp)
	out := len(Memory)
	Memory = append(Memory, data...)
	return out, len(data)
}
`

func writeModule(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("failed to write fixture module: %v", err)
	}
	return path
}

func testManifest(id string) Manifest {
	return Manifest{
		ID:          id,
		Name:        "echo-" + id,
		Author:      "test-author",
		Description: "echoes a greeting",
		Resources: Capabilities{
			MaxMemoryBytes:     1024,
			MaxCPUPercent:      0.1,
			MaxExecutionTimeMs: 100,
		},
	}
}

func TestLoadPluginRejectsPathOutsideAllowedDirs(t *testing.T) {
	allowed := t.TempDir()
	outside := t.TempDir()
	path := writeModule(t, outside, "echo.go", echoModuleSource)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{allowed}, MaxMemoryPerPlugin: 1024, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	err := rt.LoadPlugin(ID("echo"), testManifest("echo"), path)
	if !errs.Is(err, errs.KindSecurity) {
		t.Fatalf("expected a security error for an out-of-bounds path, got %v", err)
	}
}

func TestLoadPluginRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "echo.go", echoModuleSource)
	if err := os.Truncate(path, maxPluginFileSize+1); err != nil {
		t.Fatalf("failed to grow fixture file: %v", err)
	}

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 1024, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	err := rt.LoadPlugin(ID("echo"), testManifest("echo"), path)
	if !errs.Is(err, errs.KindSecurity) {
		t.Fatalf("expected a security error for an oversized module, got %v", err)
	}
}

func TestLoadPluginRejectsCapabilityExceedingRuntime(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "echo.go", echoModuleSource)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 512, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	manifest := testManifest("echo")
	manifest.Resources.MaxMemoryBytes = 1024
	err := rt.LoadPlugin(ID("echo"), manifest, path)
	if !errs.Is(err, errs.KindSecurity) {
		t.Fatalf("expected a security error for an over-budget capability, got %v", err)
	}
}

func TestLoadPluginRejectsDangerousManifestCapability(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "echo.go", echoModuleSource)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 1024, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	manifest := testManifest("echo")
	manifest.Capabilities = []string{"raw_syscalls"}
	err := rt.LoadPlugin(ID("echo"), manifest, path)
	if !errs.Is(err, errs.KindSecurity) {
		t.Fatalf("expected a security error for a dangerous capability, got %v", err)
	}
}

func TestLoadPluginRejectsModuleMissingProcessExport(t *testing.T) {
	dir := t.TempDir()
	source := `package plugin

var Memory []byte

func Alloc(n int) int { return 0 }
func Dealloc(ptr, n int) {}
func Init() bool { return true }
`
	path := writeModule(t, dir, "broken.go", source)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 1024, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	err := rt.LoadPlugin(ID("broken"), testManifest("broken"), path)
	if !errs.Is(err, errs.KindSecurity) {
		t.Fatalf("expected a security error for a module missing Process, got %v", err)
	}
}

func TestLoadPluginRejectsDisallowedImport(t *testing.T) {
	dir := t.TempDir()
	source := `package plugin

import "os"

var Memory []byte

func Alloc(n int) int { return 0 }
func Dealloc(ptr, n int) {}
func Init() bool { return true }
func Process(ptr, n int) (int, int) { _ = os.Getenv("X"); return 0, 0 }
`
	path := writeModule(t, dir, "unsafe.go", source)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 1024, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	err := rt.LoadPlugin(ID("unsafe"), testManifest("unsafe"), path)
	if !errs.Is(err, errs.KindSecurity) {
		t.Fatalf("expected a security error for a disallowed import, got %v", err)
	}
}

func TestLoadAndExecuteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "echo.go", echoModuleSource)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 4096, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	if err := rt.LoadPlugin(ID("echo"), testManifest("echo"), path); err != nil {
		t.Fatalf("LoadPlugin failed: %v", err)
	}

	var out map[string]interface{}
	err := rt.ExecutePluginFunction(context.Background(), ID("echo"), map[string]interface{}{"name": "world"}, &out)
	if err != nil {
		t.Fatalf("ExecutePluginFunction failed: %v", err)
	}
	if out["greeting"] != "hello world" {
		t.Fatalf("unexpected plugin output: %v", out)
	}

	health, err := rt.GetPluginHealth(ID("echo"))
	if err != nil {
		t.Fatalf("GetPluginHealth failed: %v", err)
	}
	if !health.Healthy {
		t.Fatalf("expected plugin to be healthy after a successful execution")
	}
}

func TestMetricsAccumulateAcrossExecutions(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "echo.go", echoModuleSource)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 4096, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	if err := rt.LoadPlugin(ID("echo"), testManifest("echo"), path); err != nil {
		t.Fatalf("LoadPlugin failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		var out map[string]interface{}
		if err := rt.ExecutePluginFunction(context.Background(), ID("echo"), map[string]interface{}{"name": "x"}, &out); err != nil {
			t.Fatalf("execution %d failed: %v", i, err)
		}
	}

	metrics, err := rt.GetPluginMetrics(ID("echo"))
	if err != nil {
		t.Fatalf("GetPluginMetrics failed: %v", err)
	}
	if metrics.TotalExecutions != 3 || metrics.SuccessfulExecutions != 3 || metrics.FailedExecutions != 0 {
		t.Fatalf("unexpected metrics after 3 successful executions: %+v", metrics)
	}
}

func TestExecutePluginFunctionFailsForUnknownPlugin(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	var out map[string]interface{}
	err := rt.ExecutePluginFunction(context.Background(), ID("missing"), nil, &out)
	if !errs.Is(err, errs.KindExecution) {
		t.Fatalf("expected an execution error for an unloaded plugin, got %v", err)
	}
}

func TestUnloadPluginRemovesIt(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "echo.go", echoModuleSource)

	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 4096, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	if err := rt.LoadPlugin(ID("echo"), testManifest("echo"), path); err != nil {
		t.Fatalf("LoadPlugin failed: %v", err)
	}
	if err := rt.UnloadPlugin(ID("echo")); err != nil {
		t.Fatalf("UnloadPlugin failed: %v", err)
	}
	if ids := rt.ListPlugins(); len(ids) != 0 {
		t.Fatalf("expected no plugins loaded after unload, got %v", ids)
	}
}

func TestExecuteRespectsContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	dir := t.TempDir()
	path := writeModule(t, dir, "echo.go", echoModuleSource)
	rt := NewRuntime(RuntimeConfig{AllowedFSPaths: []string{dir}, MaxMemoryPerPlugin: 4096, MaxCPUPerPlugin: 1, MaxExecutionTimeMs: 1000})
	if err := rt.LoadPlugin(ID("echo"), testManifest("echo"), path); err != nil {
		t.Fatalf("LoadPlugin failed: %v", err)
	}

	var out map[string]interface{}
	err := rt.ExecutePluginFunction(ctx, ID("echo"), map[string]interface{}{"name": "x"}, &out)
	if !errs.Is(err, errs.KindExecution) {
		t.Fatalf("expected an execution error when the context is already expired, got %v", err)
	}
}
