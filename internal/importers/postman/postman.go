// Package postman imports Postman collections (v2.1 JSON) into
// importers.ImportedRoute values, one per request item, recursing into
// folders. This is a supplemental import format beyond the core
// OpenAPI/AsyncAPI/HAR set, wired in because the collection parser is
// already part of this module's dependency surface.
package postman

import (
	"bytes"
	"strings"

	postman "github.com/rbretecher/go-postman-collection"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers"
)

// Import parses a Postman collection document and extracts one
// ImportedRoute per request item, descending into folders.
func Import(data []byte) ([]importers.ImportedRoute, error) {
	collection, err := postman.ParseCollection(bytes.NewReader(data))
	if err != nil {
		return nil, errs.New("importers/postman", errs.KindValidation, "parse collection: "+err.Error())
	}

	var routes []importers.ImportedRoute
	collectItems(collection.Items, &routes)
	return routes, nil
}

// collectItems walks a Postman collection's item tree, which nests
// folders (items with no Request of their own but a non-empty Items
// slice) alongside leaf request items.
func collectItems(items []*postman.Items, out *[]importers.ImportedRoute) {
	for _, item := range items {
		if item == nil {
			continue
		}
		if len(item.Items) > 0 {
			collectItems(item.Items, out)
			continue
		}
		if item.Request == nil {
			continue
		}
		*out = append(*out, routeFromRequest(item.Name, item.Request, item.Responses))
	}
}

func routeFromRequest(name string, req *postman.Request, responses []*postman.Response) importers.ImportedRoute {
	route := importers.ImportedRoute{
		Protocol:    importers.ProtocolHTTP,
		Method:      strings.ToUpper(string(req.Method)),
		Path:        requestPath(req),
		Description: name,
		Headers:     headerMap(req.Header),
	}
	if req.Body != nil {
		route.RequestBody = req.Body.Raw
	}

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		route.Responses = append(route.Responses, importers.ImportedResponse{
			StatusCode: resp.Code,
			StatusText: resp.Status,
			Headers:    headerMap(resp.Header),
			Body:       resp.Body,
		})
	}
	return route
}

func requestPath(req *postman.Request) string {
	if req.URL == nil {
		return "/"
	}
	if len(req.URL.Path) > 0 {
		return "/" + strings.Join(req.URL.Path, "/")
	}
	if req.URL.Raw != "" {
		return importers.RewritePathForBase(req.URL.Raw, req.URL.Raw)
	}
	return "/"
}

func headerMap(headers []*postman.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		if h == nil {
			continue
		}
		out[h.Key] = h.Value
	}
	return out
}
