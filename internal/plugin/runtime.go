package plugin

import (
	"context"
	"os"
	"sync"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// Runtime loads, executes, and unloads sandboxed plugins under a
// shared RuntimeConfig, enforcing the same validation gate before any
// guest code runs.
type Runtime struct {
	mu      sync.RWMutex
	plugins map[ID]*Instance
	config  RuntimeConfig
}

// NewRuntime builds a Runtime bounded by config.
func NewRuntime(config RuntimeConfig) *Runtime {
	return &Runtime{plugins: make(map[ID]*Instance), config: config}
}

// LoadPlugin validates modulePath and manifest against the runtime's
// security gate, then interprets the module and registers it under id.
// Validation failures are security errors and nothing is loaded;
// success leaves the plugin in StateReady.
func (rt *Runtime) LoadPlugin(id ID, manifest Manifest, modulePath string) error {
	log := logging.Get(logging.CategoryPlugin)

	canonical, err := validatePluginPath(modulePath, rt.config.AllowedFSPaths)
	if err != nil {
		log.Warn("plugin %s rejected at path validation: %v", id, err)
		return err
	}
	if err := validateFileSize(canonical); err != nil {
		log.Warn("plugin %s rejected at file size validation: %v", id, err)
		return err
	}
	if err := validateCapabilities(manifest.Resources, rt.config); err != nil {
		log.Warn("plugin %s rejected at capability validation: %v", id, err)
		return err
	}
	if err := validateManifestSecurity(manifest); err != nil {
		log.Warn("plugin %s rejected at manifest validation: %v", id, err)
		return err
	}

	source, err := os.ReadFile(canonical)
	if err != nil {
		return errSecurity("cannot read plugin module: " + err.Error())
	}
	if err := validateModuleSecurity(string(source)); err != nil {
		log.Warn("plugin %s rejected at module validation: %v", id, err)
		return err
	}

	inst, err := loadInstance(id, manifest, string(source), rt.config)
	if err != nil {
		return err
	}
	inst.state = StateReady

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, exists := rt.plugins[id]; exists {
		return errSecurity("plugin already loaded: " + string(id))
	}
	rt.plugins[id] = inst
	log.Info("plugin %s loaded from %s", id, canonical)
	return nil
}

// UnloadPlugin removes a loaded plugin, freeing its interpreter.
func (rt *Runtime) UnloadPlugin(id ID) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	inst, ok := rt.plugins[id]
	if !ok {
		return errExecution("plugin not loaded: " + string(id))
	}
	inst.unload()
	delete(rt.plugins, id)
	logging.Get(logging.CategoryPlugin).Info("plugin %s unloaded", id)
	return nil
}

// ExecutePluginFunction runs a loaded plugin's process function against
// input, decoding its JSON response into out. Runtime failures (trap,
// missing export, deadline exceeded) are execution errors; the plugin
// stays loaded and its metrics reflect the failure.
func (rt *Runtime) ExecutePluginFunction(ctx context.Context, id ID, input interface{}, out interface{}) error {
	rt.mu.RLock()
	inst, ok := rt.plugins[id]
	rt.mu.RUnlock()
	if !ok {
		return errExecution("plugin not loaded: " + string(id))
	}
	return inst.Execute(ctx, input, out)
}

// GetPluginHealth reports whether id is loaded and usable.
func (rt *Runtime) GetPluginHealth(id ID) (Health, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	inst, ok := rt.plugins[id]
	if !ok {
		return Health{}, errExecution("plugin not loaded: " + string(id))
	}
	return inst.Health(), nil
}

// GetPluginMetrics returns id's accumulated execution metrics.
func (rt *Runtime) GetPluginMetrics(id ID) (Metrics, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	inst, ok := rt.plugins[id]
	if !ok {
		return Metrics{}, errExecution("plugin not loaded: " + string(id))
	}
	return inst.Metrics(), nil
}

// ListPlugins returns the IDs of every currently loaded plugin.
func (rt *Runtime) ListPlugins() []ID {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	ids := make([]ID, 0, len(rt.plugins))
	for id := range rt.plugins {
		ids = append(ids, id)
	}
	return ids
}
