// Package workspace implements the workspace/route registry: the tree
// of Workspaces, Folders, and MockRequests that the runtime dispatches
// against, plus the flattened RouteRegistry rebuilt on every structural
// change.
package workspace

import (
	"time"

	"github.com/google/uuid"
)

// HTTPMethod is a mock request's HTTP verb.
type HTTPMethod string

const (
	MethodGET     HTTPMethod = "GET"
	MethodPOST    HTTPMethod = "POST"
	MethodPUT     HTTPMethod = "PUT"
	MethodPATCH   HTTPMethod = "PATCH"
	MethodDELETE  HTTPMethod = "DELETE"
	MethodHEAD    HTTPMethod = "HEAD"
	MethodOPTIONS HTTPMethod = "OPTIONS"
)

func newID() string { return uuid.New().String() }

// NewID generates a fresh entity ID using the same scheme as every
// Workspace/Folder/MockRequest/Environment constructor.
func NewID() string { return newID() }

// MockResponse is one candidate response a MockRequest can serve.
type MockResponse struct {
	ID         string `json:"id"`
	StatusCode int    `json:"status_code"`
	StatusText string `json:"status_text"`
	Body       string `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// NewMockResponse builds a response with a fresh ID.
func NewMockResponse(statusCode int, statusText, body string) *MockResponse {
	return &MockResponse{ID: newID(), StatusCode: statusCode, StatusText: statusText, Body: body}
}

// MockRequest is a single mockable endpoint: a URL template (which may
// contain {path} segments and {{var}} placeholders) with an ordered
// list of candidate responses and an active-response index.
type MockRequest struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Method        HTTPMethod      `json:"method"`
	URL           string          `json:"url"`
	Description   string          `json:"description,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Enabled       bool            `json:"enabled"`
	Responses     []*MockResponse `json:"responses,omitempty"`
	ActiveIndex   int             `json:"active_index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewMockRequest builds an enabled request with no responses yet.
func NewMockRequest(name string, method HTTPMethod, url string) *MockRequest {
	now := time.Now()
	return &MockRequest{
		ID:        newID(),
		Name:      name,
		Method:    method,
		URL:       url,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddResponse appends a response, making it active if it is the first one.
func (r *MockRequest) AddResponse(resp *MockResponse) {
	r.Responses = append(r.Responses, resp)
	if len(r.Responses) == 1 {
		r.ActiveIndex = 0
	}
	r.UpdatedAt = time.Now()
}

// ActiveResponse returns the currently active response, or nil if the
// request has no responses or the active index is out of range.
func (r *MockRequest) ActiveResponse() *MockResponse {
	if r.ActiveIndex < 0 || r.ActiveIndex >= len(r.Responses) {
		return nil
	}
	return r.Responses[r.ActiveIndex]
}

// Folder is a named node in a workspace's strict folder tree: ordered
// subfolders and requests, no cycles, single parent.
type Folder struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Folders   []*Folder       `json:"folders,omitempty"`
	Requests  []*MockRequest  `json:"requests,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewFolder builds an empty folder.
func NewFolder(name string) *Folder {
	return &Folder{ID: newID(), Name: name, CreatedAt: time.Now()}
}

func (f *Folder) AddFolder(child *Folder) { f.Folders = append(f.Folders, child) }
func (f *Folder) AddRequest(req *MockRequest) { f.Requests = append(f.Requests, req) }

// EnvironmentColor is the three-channel display color for an Environment.
type EnvironmentColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Environment is a named set of string variables, at most one of which
// is active per workspace.
type Environment struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Color     EnvironmentColor  `json:"color"`
	Active    bool              `json:"active"`
	Variables map[string]string `json:"variables"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewEnvironment builds an inactive environment with no variables.
func NewEnvironment(name string) *Environment {
	now := time.Now()
	return &Environment{
		ID:        newID(),
		Name:      name,
		Variables: make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep-enough copy suitable for registry.Clone-style use.
func (e *Environment) Clone() *Environment {
	cp := *e
	cp.Variables = make(map[string]string, len(e.Variables))
	for k, v := range e.Variables {
		cp.Variables[k] = v
	}
	return &cp
}

// Workspace is an independent collection of folders, top-level
// requests, and environments. Workspaces never reference each other.
type Workspace struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Folders      []*Folder       `json:"folders,omitempty"`
	Requests     []*MockRequest  `json:"requests,omitempty"`
	Environments []*Environment  `json:"environments,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewWorkspace builds an empty workspace.
func NewWorkspace(name string) *Workspace {
	now := time.Now()
	return &Workspace{ID: newID(), Name: name, CreatedAt: now, UpdatedAt: now}
}

func (w *Workspace) AddFolder(f *Folder) {
	w.Folders = append(w.Folders, f)
	w.UpdatedAt = time.Now()
}

func (w *Workspace) AddRequest(r *MockRequest) {
	w.Requests = append(w.Requests, r)
	w.UpdatedAt = time.Now()
}

// ActiveEnvironment returns the workspace's active environment, if any.
func (w *Workspace) ActiveEnvironment() *Environment {
	for _, e := range w.Environments {
		if e.Active {
			return e
		}
	}
	return nil
}
