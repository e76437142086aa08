package workspace

import (
	"strings"
	"sync"
)

// Route is one flattened, dispatchable entry: a concrete method+URL
// template paired with the request that produced it, enabling the
// dispatch contract in 4.D ("given (method, path) return the active
// response of the first matching enabled request").
type Route struct {
	Method  HTTPMethod
	URL     string
	Request *MockRequest
}

// RouteRegistry is the flattened, lock-protected dispatch table built
// from every enabled MockRequest (with at least one response) across
// all workspaces. It is rebuilt wholesale on every structural change
// rather than patched incrementally, matching the model's
// clear-then-repopulate update_route_registry.
type RouteRegistry struct {
	mu     sync.RWMutex
	routes []Route
}

// NewRouteRegistry builds an empty route registry.
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{}
}

// Clear removes all routes.
func (r *RouteRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = nil
}

// AddRoute appends a route.
func (r *RouteRegistry) AddRoute(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// Count reports how many routes are registered.
func (r *RouteRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Match finds the first enabled route whose method and URL template
// match (method, path), returning its active response. ok is false
// when nothing matches (dispatch should report 404).
func (r *RouteRegistry) Match(method HTTPMethod, path string) (*MockResponse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.routes {
		if route.Method != method {
			continue
		}
		if !urlTemplateMatches(route.URL, path) {
			continue
		}
		resp := route.Request.ActiveResponse()
		if resp != nil {
			return resp, true
		}
	}
	return nil, false
}

// urlTemplateMatches compares a URL template with {path} segments and
// {{var}} placeholders against a concrete path, segment by segment.
func urlTemplateMatches(template, path string) bool {
	tSegs := splitPath(template)
	pSegs := splitPath(path)
	if len(tSegs) != len(pSegs) {
		return false
	}
	for i, t := range tSegs {
		if isPlaceholderSegment(t) {
			continue
		}
		if t != pSegs[i] {
			return false
		}
	}
	return true
}

func isPlaceholderSegment(seg string) bool {
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) >= 2 {
		return true
	}
	return false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// createRouteFromRequest mirrors the model's RequestProcessor: a
// request becomes a route only when enabled and it has an active
// response.
func createRouteFromRequest(req *MockRequest) (Route, bool) {
	if !req.Enabled {
		return Route{}, false
	}
	if req.ActiveResponse() == nil {
		return Route{}, false
	}
	return Route{Method: req.Method, URL: req.URL, Request: req}, true
}
