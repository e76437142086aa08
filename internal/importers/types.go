// Package importers defines the shared output contract every import
// format collaborator (OpenAPI, AsyncAPI, HAR, Postman) produces: one
// ImportedRoute per discovered operation, ready for the Workspace /
// Route Registry to turn into a MockRequest.
package importers

import "strings"

// Protocol is the transport an ImportedRoute should be served over.
type Protocol string

const (
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
	ProtocolMQTT      Protocol = "mqtt"
	ProtocolKafka     Protocol = "kafka"
	ProtocolAMQP      Protocol = "amqp"
)

// ProtocolFromScheme maps an AsyncAPI server URL scheme to a Protocol,
// defaulting to WebSocket for unrecognized schemes per spec.md §6's
// protocol-inference table.
func ProtocolFromScheme(scheme string) Protocol {
	switch strings.ToLower(scheme) {
	case "ws", "wss", "websocket":
		return ProtocolWebSocket
	case "mqtt", "mqtts":
		return ProtocolMQTT
	case "kafka", "kafka-secure":
		return ProtocolKafka
	case "amqp", "amqps":
		return ProtocolAMQP
	default:
		return ProtocolWebSocket
	}
}

// ImportedResponse is one candidate response an ImportedRoute can serve.
type ImportedResponse struct {
	StatusCode int
	StatusText string
	Headers    map[string]string
	Body       string
}

// ImportedRoute is the (method, path, request, response) tuple every
// importer extracts, regardless of its source format.
type ImportedRoute struct {
	Protocol    Protocol
	Method      string
	Path        string
	Description string
	Tags        []string
	Headers     map[string]string
	RequestBody string
	Responses   []ImportedResponse
}

// RewritePathForBase rewrites rawURL relative to base when their scheme
// and host match, otherwise returns rawURL unchanged. This is
// the rule HAR (and, where applicable, Postman) import uses to turn
// captured absolute URLs back into mock-friendly relative paths.
func RewritePathForBase(rawURL, base string) string {
	if base == "" {
		return rawURL
	}

	rawScheme, rawHost, rawPath := splitURL(rawURL)
	baseScheme, baseHost, _ := splitURL(base)

	if rawScheme == baseScheme && rawHost == baseHost {
		if rawPath == "" {
			return "/"
		}
		return rawPath
	}
	return rawURL
}

func splitURL(u string) (scheme, host, path string) {
	schemeSep := strings.Index(u, "://")
	if schemeSep < 0 {
		return "", "", u
	}
	scheme = strings.ToLower(u[:schemeSep])
	rest := u[schemeSep+3:]

	pathStart := strings.IndexAny(rest, "/?#")
	if pathStart < 0 {
		return scheme, strings.ToLower(rest), "/"
	}
	return scheme, strings.ToLower(rest[:pathStart]), rest[pathStart:]
}
