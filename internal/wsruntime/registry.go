package wsruntime

import (
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// HotReloadEnv is the environment variable gating hot reload, matching
// the model's MOCKFORGE_WS_HOTRELOAD.
const HotReloadEnv = "MOCKFORGE_WS_HOTRELOAD"

// HandlerRegistry holds every registered Handler and, when hot reload
// is enabled, watches a config file for changes and re-populates
// itself via a caller-supplied reload function.
type HandlerRegistry struct {
	mu               sync.RWMutex
	handlers         []Handler
	hotReloadEnabled bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewHandlerRegistry builds a registry whose hot-reload flag is read
// from the HotReloadEnv environment variable.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{hotReloadEnabled: hotReloadFromEnv()}
}

// NewHandlerRegistryWithHotReload builds a registry with hot reload
// forced on, regardless of the environment.
func NewHandlerRegistryWithHotReload() *HandlerRegistry {
	return &HandlerRegistry{hotReloadEnabled: true}
}

func hotReloadFromEnv() bool {
	v := os.Getenv(HotReloadEnv)
	return v == "1" || strings.EqualFold(v, "true")
}

// IsHotReloadEnabled reports whether this registry reloads handlers on
// config-file change.
func (r *HandlerRegistry) IsHotReloadEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hotReloadEnabled
}

// Register adds a handler.
func (r *HandlerRegistry) Register(h Handler) *HandlerRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
	return r
}

// HandlersFor returns every handler whose HandlesPath accepts path.
func (r *HandlerRegistry) HandlersFor(path string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Handler
	for _, h := range r.handlers {
		if h.HandlesPath(path) {
			out = append(out, h)
		}
	}
	return out
}

// HasHandlerFor reports whether any registered handler accepts path.
func (r *HandlerRegistry) HasHandlerFor(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.handlers {
		if h.HandlesPath(path) {
			return true
		}
	}
	return false
}

// Clear removes every registered handler.
func (r *HandlerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = nil
}

// Len reports how many handlers are registered.
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// WatchConfig starts watching configPath for writes; on each one, if
// hot reload is enabled, the registry is cleared and reload is called
// to re-populate it. The watch stops when Close is called.
func (r *HandlerRegistry) WatchConfig(configPath string, reload func(*HandlerRegistry)) error {
	if !r.IsHotReloadEnabled() {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(configPath); err != nil {
		_ = watcher.Close()
		return err
	}

	r.mu.Lock()
	r.watcher = watcher
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	log := logging.Get(logging.CategoryWS)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					log.Info("handler config changed, reloading: %s", event.Name)
					r.Clear()
					reload(r)
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("handler config watch error: %v", werr)
			case <-done:
				return
			}
		}
	}()
	return nil
}

// Close stops the config watcher, if one was started.
func (r *HandlerRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		close(r.done)
		r.done = nil
	}
	if r.watcher != nil {
		err := r.watcher.Close()
		r.watcher = nil
		return err
	}
	return nil
}
