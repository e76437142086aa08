package workspace

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

func errWorkspace(kind errs.Kind, message string) error {
	return errs.New("workspace", kind, message)
}

// RegistryConfig bounds and defaults a Registry.
type RegistryConfig struct {
	MaxWorkspaces        int
	DefaultWorkspaceName string
}

// DefaultRegistryConfig matches the model's WorkspaceRegistryConfig::default().
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{MaxWorkspaces: 0, DefaultWorkspaceName: "Default Workspace"}
}

// Stats summarizes the registry's contents.
type Stats struct {
	TotalWorkspaces   int
	TotalFolders      int
	TotalRequests     int
	TotalResponses    int
	TotalEnvironments int
	LastModified      time.Time
}

// Registry owns every Workspace plus a shared RouteRegistry flattening
// all enabled, response-bearing requests into dispatchable routes. It
// is the top-level object the transport collaborator dispatches
// against (4.D).
type Registry struct {
	mu                sync.RWMutex
	config            RegistryConfig
	workspaces        map[string]*Workspace
	order             []string
	activeWorkspaceID string
	environments      map[string]*Environment
	routeRegistry     *RouteRegistry
}

// NewRegistry builds an empty registry with default configuration.
func NewRegistry() *Registry {
	return &Registry{
		config:        DefaultRegistryConfig(),
		workspaces:    make(map[string]*Workspace),
		environments:  make(map[string]*Environment),
		routeRegistry: NewRouteRegistry(),
	}
}

// NewRegistryWithConfig builds a registry and seeds it with one default
// workspace named per cfg.DefaultWorkspaceName.
func NewRegistryWithConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.config = cfg
	_, _ = r.AddWorkspace(NewWorkspace(cfg.DefaultWorkspaceName))
	return r
}

// RouteRegistry exposes the shared, lock-protected dispatch table.
func (r *Registry) RouteRegistry() *RouteRegistry { return r.routeRegistry }

// AddWorkspace inserts a workspace, enforcing MaxWorkspaces (0 = unlimited),
// then rebuilds the route registry.
func (r *Registry) AddWorkspace(ws *Workspace) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.MaxWorkspaces > 0 && len(r.workspaces) >= r.config.MaxWorkspaces {
		return "", errWorkspace(errs.KindGeneric, "maximum number of workspaces exceeded")
	}

	r.workspaces[ws.ID] = ws
	r.order = append(r.order, ws.ID)
	r.rebuildRouteRegistryLocked()
	logging.Get(logging.CategoryWorkspace).Info("added workspace %q (%s)", ws.Name, ws.ID)
	return ws.ID, nil
}

// GetWorkspace returns a workspace by ID, or nil.
func (r *Registry) GetWorkspace(id string) *Workspace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.workspaces[id]
}

// RemoveWorkspace deletes a workspace, re-pointing the active workspace
// to an arbitrary survivor if it was active, then rebuilds routes.
func (r *Registry) RemoveWorkspace(id string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return nil, errWorkspace(errs.KindGeneric, "workspace not found: "+id)
	}
	delete(r.workspaces, id)
	for i, wid := range r.order {
		if wid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if r.activeWorkspaceID == id {
		r.activeWorkspaceID = ""
		if len(r.order) > 0 {
			r.activeWorkspaceID = r.order[0]
		}
	}

	r.rebuildRouteRegistryLocked()
	return ws, nil
}

// AllWorkspaces returns every workspace in insertion order.
func (r *Registry) AllWorkspaces() []*Workspace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Workspace, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.workspaces[id])
	}
	return out
}

// SetActiveWorkspace marks a workspace active.
func (r *Registry) SetActiveWorkspace(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workspaces[id]; !ok {
		return errWorkspace(errs.KindGeneric, "workspace not found: "+id)
	}
	r.activeWorkspaceID = id
	return nil
}

// ActiveWorkspace returns the current active workspace, or nil.
func (r *Registry) ActiveWorkspace() *Workspace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeWorkspaceID == "" {
		return nil
	}
	return r.workspaces[r.activeWorkspaceID]
}

// AddEnvironment registers an environment in the registry-wide pool.
func (r *Registry) AddEnvironment(env *Environment) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.environments[env.ID] = env
	return env.ID
}

// GetEnvironment returns an environment by ID, or nil.
func (r *Registry) GetEnvironment(id string) *Environment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.environments[id]
}

// ActiveEnvironment returns the registry's one active environment, if any.
func (r *Registry) ActiveEnvironment() *Environment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.environments {
		if e.Active {
			return e
		}
	}
	return nil
}

// SetActiveEnvironment deactivates every environment then activates id.
func (r *Registry) SetActiveEnvironment(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.environments[id]; !ok {
		return errWorkspace(errs.KindGeneric, "environment not found: "+id)
	}
	for envID, e := range r.environments {
		e.Active = envID == id
	}
	return nil
}

// Stats reports aggregate counts across every workspace.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var folders, requests, responses int
	for _, ws := range r.workspaces {
		folders += countFolders(ws.Folders)
		requests += len(ws.Requests) + countFolderRequests(ws.Folders)
		responses += sumResponses(ws.Requests) + countFolderResponses(ws.Folders)
	}
	return Stats{
		TotalWorkspaces:   len(r.workspaces),
		TotalFolders:      folders,
		TotalRequests:     requests,
		TotalResponses:    responses,
		TotalEnvironments: len(r.environments),
		LastModified:      time.Now(),
	}
}

func countFolders(folders []*Folder) int {
	n := len(folders)
	for _, f := range folders {
		n += countFolders(f.Folders)
	}
	return n
}

func countFolderRequests(folders []*Folder) int {
	n := 0
	for _, f := range folders {
		n += len(f.Requests) + countFolderRequests(f.Folders)
	}
	return n
}

func sumResponses(reqs []*MockRequest) int {
	n := 0
	for _, r := range reqs {
		n += len(r.Responses)
	}
	return n
}

func countFolderResponses(folders []*Folder) int {
	n := 0
	for _, f := range folders {
		n += sumResponses(f.Requests) + countFolderResponses(f.Folders)
	}
	return n
}

// rebuildRouteRegistryLocked flattens every enabled, response-bearing
// request across all workspaces into the shared RouteRegistry. Callers
// must hold r.mu.
func (r *Registry) rebuildRouteRegistryLocked() {
	r.routeRegistry.Clear()
	for _, id := range r.order {
		ws := r.workspaces[id]
		for _, req := range ws.Requests {
			if route, ok := createRouteFromRequest(req); ok {
				r.routeRegistry.AddRoute(route)
			}
		}
		addFolderRoutes(r.routeRegistry, ws.Folders)
	}
}

func addFolderRoutes(rr *RouteRegistry, folders []*Folder) {
	for _, f := range folders {
		for _, req := range f.Requests {
			if route, ok := createRouteFromRequest(req); ok {
				rr.AddRoute(route)
			}
		}
		addFolderRoutes(rr, f.Folders)
	}
}

// RebuildRoutes forces a rebuild, for callers that mutate a workspace
// or folder in place (e.g. toggling Request.Enabled) without going
// through AddWorkspace/RemoveWorkspace.
func (r *Registry) RebuildRoutes() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rebuildRouteRegistryLocked()
}

// FindRequest locates a request by ID across every workspace, root or
// nested in any folder depth.
func (r *Registry) FindRequest(id string) *MockRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ws := range r.workspaces {
		for _, req := range ws.Requests {
			if req.ID == id {
				return req
			}
		}
		if req := findRequestInFolders(ws.Folders, id); req != nil {
			return req
		}
	}
	return nil
}

func findRequestInFolders(folders []*Folder, id string) *MockRequest {
	for _, f := range folders {
		for _, req := range f.Requests {
			if req.ID == id {
				return req
			}
		}
		if req := findRequestInFolders(f.Folders, id); req != nil {
			return req
		}
	}
	return nil
}

// FindFolder locates a folder by ID across every workspace.
func (r *Registry) FindFolder(id string) *Folder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ws := range r.workspaces {
		if f := findFolderIn(ws.Folders, id); f != nil {
			return f
		}
	}
	return nil
}

func findFolderIn(folders []*Folder, id string) *Folder {
	for _, f := range folders {
		if f.ID == id {
			return f
		}
		if found := findFolderIn(f.Folders, id); found != nil {
			return found
		}
	}
	return nil
}

// ExportWorkspace serializes a workspace to pretty JSON.
func (r *Registry) ExportWorkspace(id string) (string, error) {
	r.mu.RLock()
	ws, ok := r.workspaces[id]
	r.mu.RUnlock()
	if !ok {
		return "", errWorkspace(errs.KindGeneric, "workspace not found: "+id)
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return "", errs.Wrap("workspace", errs.KindGeneric, "failed to serialize workspace", err)
	}
	return string(data), nil
}

// ImportWorkspace deserializes a workspace from JSON and adds it.
func (r *Registry) ImportWorkspace(jsonData string) (string, error) {
	var ws Workspace
	if err := json.Unmarshal([]byte(jsonData), &ws); err != nil {
		return "", errs.Wrap("workspace", errs.KindGeneric, "failed to deserialize workspace", err)
	}
	return r.AddWorkspace(&ws)
}

// SearchRequests returns every request whose name, URL, or description
// contains query (case-insensitive), across all workspaces.
func (r *Registry) SearchRequests(query string) []*MockRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var results []*MockRequest
	for _, ws := range r.workspaces {
		for _, req := range ws.Requests {
			if requestMatchesQuery(req, q) {
				results = append(results, req)
			}
		}
		results = append(results, searchFolderRequests(ws.Folders, q)...)
	}
	return results
}

func requestMatchesQuery(req *MockRequest, q string) bool {
	if strings.Contains(strings.ToLower(req.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(req.URL), q) {
		return true
	}
	if req.Description != "" && strings.Contains(strings.ToLower(req.Description), q) {
		return true
	}
	return false
}

func searchFolderRequests(folders []*Folder, q string) []*MockRequest {
	var out []*MockRequest
	for _, f := range folders {
		for _, req := range f.Requests {
			if requestMatchesQuery(req, q) {
				out = append(out, req)
			}
		}
		out = append(out, searchFolderRequests(f.Folders, q)...)
	}
	return out
}

// RequestsByTag returns every request carrying tag, across all workspaces.
func (r *Registry) RequestsByTag(tag string) []*MockRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*MockRequest
	for _, ws := range r.workspaces {
		for _, req := range ws.Requests {
			if containsTag(req.Tags, tag) {
				results = append(results, req)
			}
		}
		results = append(results, folderRequestsByTag(ws.Folders, tag)...)
	}
	return results
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func folderRequestsByTag(folders []*Folder, tag string) []*MockRequest {
	var out []*MockRequest
	for _, f := range folders {
		for _, req := range f.Requests {
			if containsTag(req.Tags, tag) {
				out = append(out, req)
			}
		}
		out = append(out, folderRequestsByTag(f.Folders, tag)...)
	}
	return out
}
