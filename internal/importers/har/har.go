// Package har imports HAR 1.2 (HTTP Archive) logs into
// importers.ImportedRoute values, one per captured request/response
// entry, rewriting each entry's URL relative to a caller-supplied base
// URL when scheme and host match.
package har

import (
	"encoding/json"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers"
)

type harLog struct {
	Log struct {
		Entries []harEntry `json:"entries"`
	} `json:"log"`
}

type harEntry struct {
	Request  harRequest  `json:"request"`
	Response harResponse `json:"response"`
}

type harRequest struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	Headers     []harHeader `json:"headers"`
	PostData    *harContent `json:"postData"`
}

type harResponse struct {
	Status      int         `json:"status"`
	StatusText  string      `json:"statusText"`
	Headers     []harHeader `json:"headers"`
	Content     *harContent `json:"content"`
}

type harHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harContent struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// Import parses a HAR 1.2 document and extracts one ImportedRoute per
// log.entries[] item. When baseURL is non-empty, entry URLs sharing its
// scheme and host are rewritten relative to it.
func Import(data []byte, baseURL string) ([]importers.ImportedRoute, error) {
	var doc harLog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.New("importers/har", errs.KindValidation, "parse HAR document: "+err.Error())
	}

	routes := make([]importers.ImportedRoute, 0, len(doc.Log.Entries))
	for _, entry := range doc.Log.Entries {
		routes = append(routes, routeFromEntry(entry, baseURL))
	}
	return routes, nil
}

func routeFromEntry(entry harEntry, baseURL string) importers.ImportedRoute {
	route := importers.ImportedRoute{
		Protocol: importers.ProtocolHTTP,
		Method:   entry.Request.Method,
		Path:     importers.RewritePathForBase(entry.Request.URL, baseURL),
		Headers:  headerMap(entry.Request.Headers),
	}

	if entry.Request.PostData != nil {
		route.RequestBody = entry.Request.PostData.Text
	}

	resp := importers.ImportedResponse{
		StatusCode: entry.Response.Status,
		StatusText: entry.Response.StatusText,
		Headers:    headerMap(entry.Response.Headers),
	}
	if entry.Response.Content != nil {
		resp.Body = entry.Response.Content.Text
	}
	route.Responses = []importers.ImportedResponse{resp}

	return route
}

func headerMap(headers []harHeader) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Name] = h.Value
	}
	return out
}
