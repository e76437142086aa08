// Package plugin sandboxes and executes guest plugin code, using
// github.com/traefik/yaegi as an interpreted-Go stand-in for a
// WASM-plus-fuel-metering runtime: guest "modules" are Go source
// interpreted at load time, exposing the same alloc/dealloc/init/
// process ABI a real WASM guest would export.
package plugin

import (
	"time"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

func errSecurity(message string) error {
	return errs.New("plugin", errs.KindSecurity, message)
}

func errExecution(message string) error {
	return errs.New("plugin", errs.KindExecution, message)
}

// ID identifies one loaded plugin.
type ID string

// Capabilities are the resource and permission limits a plugin
// declares it needs.
type Capabilities struct {
	MaxMemoryBytes     int64
	MaxCPUPercent      float64
	MaxExecutionTimeMs int64
	AllowNetwork       bool
	ReadPaths          []string
	WritePaths         []string
}

// Manifest describes a plugin's identity and declared requirements.
type Manifest struct {
	ID           string
	Name         string
	Author       string
	Description  string
	Capabilities []string
	Resources    Capabilities
}

// RuntimeConfig bounds what any plugin loaded by a Runtime may request.
type RuntimeConfig struct {
	MaxMemoryPerPlugin      int64
	MaxCPUPerPlugin         float64
	MaxExecutionTimeMs      int64
	AllowNetworkAccess      bool
	AllowedFSPaths          []string
	MaxConcurrentExecutions int
	DebugLogging            bool
}

// DefaultRuntimeConfig mirrors the model's RuntimeConfig::default().
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		MaxMemoryPerPlugin:      10 * 1024 * 1024,
		MaxCPUPerPlugin:         0.5,
		MaxExecutionTimeMs:      5000,
		AllowNetworkAccess:      false,
		AllowedFSPaths:          nil,
		MaxConcurrentExecutions: 10,
		DebugLogging:            false,
	}
}

// ExecutionLimits is the per-instance execution budget derived from a
// RuntimeConfig: memory cap, CPU/wall time, and an abstract fuel
// allowance standing in for WASM fuel metering (~1000 units per ms).
type ExecutionLimits struct {
	MemoryLimit   int64
	CPUTimeLimit  time.Duration
	WallTimeLimit time.Duration
	FuelLimit     int64
}

func limitsFromConfig(config RuntimeConfig) ExecutionLimits {
	ms := config.MaxExecutionTimeMs
	return ExecutionLimits{
		MemoryLimit:   config.MaxMemoryPerPlugin,
		CPUTimeLimit:  time.Duration(ms) * time.Millisecond,
		WallTimeLimit: time.Duration(ms) * 2 * time.Millisecond,
		FuelLimit:     ms * 1000,
	}
}

// State is a plugin instance's lifecycle stage.
type State string

const (
	StateLoaded    State = "loaded"
	StateReady     State = "ready"
	StateExecuting State = "executing"
	StateUnloading State = "unloading"
	StateUnloaded  State = "unloaded"
)

// Metrics accumulates execution statistics for one loaded plugin.
type Metrics struct {
	TotalExecutions      int64
	SuccessfulExecutions int64
	FailedExecutions     int64
	AvgExecutionTimeMs   float64
	MaxExecutionTimeMs   int64
}

// Health reports whether a loaded plugin is usable.
type Health struct {
	Healthy bool
	Message string
	Metrics Metrics
}
