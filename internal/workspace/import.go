package workspace

import (
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers"
)

// RequestsFromImport converts a batch of ImportedRoutes (from any of
// the internal/importers/* format collaborators) into MockRequests,
// one per route, each carrying every response the import captured.
func RequestsFromImport(routes []importers.ImportedRoute) []*MockRequest {
	out := make([]*MockRequest, 0, len(routes))
	for _, route := range routes {
		req := NewMockRequest(route.Description, httpMethodOf(route.Method), route.Path)
		if req.Name == "" {
			req.Name = route.Method + " " + route.Path
		}
		req.Description = route.Description
		req.Tags = route.Tags
		if route.Protocol != importers.ProtocolHTTP {
			req.Tags = append(req.Tags, "protocol:"+string(route.Protocol))
		}

		for _, resp := range route.Responses {
			mockResp := NewMockResponse(resp.StatusCode, resp.StatusText, resp.Body)
			mockResp.Headers = resp.Headers
			req.AddResponse(mockResp)
		}
		out = append(out, req)
	}
	return out
}

func httpMethodOf(method string) HTTPMethod {
	switch HTTPMethod(method) {
	case MethodGET, MethodPOST, MethodPUT, MethodPATCH, MethodDELETE, MethodHEAD, MethodOPTIONS:
		return HTTPMethod(method)
	default:
		return MethodGET
	}
}
