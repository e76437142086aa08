package postman

import (
	"testing"

	postman "github.com/rbretecher/go-postman-collection"
)

func TestRequestPathPrefersSegmentedURL(t *testing.T) {
	req := &postman.Request{
		Method: postman.Get,
		URL:    &postman.URL{Path: []string{"v1", "users", "42"}},
	}
	if got := requestPath(req); got != "/v1/users/42" {
		t.Fatalf("expected segmented path, got %q", got)
	}
}

func TestRequestPathFallsBackToRawURL(t *testing.T) {
	req := &postman.Request{Method: postman.Get, URL: &postman.URL{Raw: "https://api.example.com/ping"}}
	if got := requestPath(req); got == "" {
		t.Fatalf("expected a non-empty fallback path")
	}
}

func TestHeaderMapSkipsNilEntries(t *testing.T) {
	headers := []*postman.Header{
		{Key: "Accept", Value: "application/json"},
		nil,
	}
	got := headerMap(headers)
	if got["Accept"] != "application/json" {
		t.Fatalf("expected Accept header preserved, got %+v", got)
	}
	if len(got) != 1 {
		t.Fatalf("expected nil header entries to be skipped, got %+v", got)
	}
}

func TestRouteFromRequestCarriesMethodAndBody(t *testing.T) {
	req := &postman.Request{
		Method: postman.Post,
		URL:    &postman.URL{Path: []string{"orders"}},
		Body:   &postman.Body{Raw: `{"sku":"abc"}`},
	}
	route := routeFromRequest("create order", req, nil)
	if route.Method != "POST" {
		t.Fatalf("expected method POST, got %q", route.Method)
	}
	if route.RequestBody != `{"sku":"abc"}` {
		t.Fatalf("expected request body carried over, got %q", route.RequestBody)
	}
	if route.Description != "create order" {
		t.Fatalf("expected item name as description, got %q", route.Description)
	}
}
