// Package asyncapi imports AsyncAPI 2.x and 3.x documents (JSON or
// YAML) into importers.ImportedRoute values, one per channel
// operation, inferring transport protocol from a server's declared
// protocol or, failing that, its URL scheme.
package asyncapi

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers"
)

// Result aggregates every channel operation extracted from a document.
type Result struct {
	Routes  []importers.ImportedRoute
	Version string
}

type document struct {
	AsyncAPI string                    `yaml:"asyncapi" json:"asyncapi"`
	Servers  map[string]server         `yaml:"servers" json:"servers"`
	Channels map[string]channel        `yaml:"channels" json:"channels"`
	Ops      map[string]operationEntry `yaml:"operations" json:"operations"`
}

type server struct {
	URL      string `yaml:"url" json:"url"`
	Protocol string `yaml:"protocol" json:"protocol"`
}

// channel models both the 2.x shape (subscribe/publish inline under
// the channel) and supplies enough structure for 3.x's separate
// operations map to be cross-referenced by channel name.
type channel struct {
	Description string     `yaml:"description" json:"description"`
	Subscribe   *operation `yaml:"subscribe" json:"subscribe"`
	Publish     *operation `yaml:"publish" json:"publish"`
}

// operationEntry is AsyncAPI 3.x's top-level operations map entry,
// which references its channel by name instead of nesting under it.
type operationEntry struct {
	Action      string          `yaml:"action" json:"action"`
	Channel     map[string]string `yaml:"channel" json:"channel"`
	Summary     string          `yaml:"summary" json:"summary"`
	Description string          `yaml:"description" json:"description"`
	Message     *messageWrapper `yaml:"message" json:"message"`
}

type operation struct {
	OperationID string          `yaml:"operationId" json:"operationId"`
	Summary     string          `yaml:"summary" json:"summary"`
	Description string          `yaml:"description" json:"description"`
	Message     *messageWrapper `yaml:"message" json:"message"`
}

type messageWrapper struct {
	Payload map[string]interface{} `yaml:"payload" json:"payload"`
}

// Import parses spec and extracts one ImportedRoute per channel
// subscribe/publish operation (2.x) or per top-level operation (3.x).
func Import(spec []byte) (*Result, error) {
	doc, err := parseDocument(spec)
	if err != nil {
		return nil, errs.New("importers/asyncapi", errs.KindValidation, "parse document: "+err.Error())
	}
	if doc.AsyncAPI == "" {
		return nil, errs.New("importers/asyncapi", errs.KindValidation, "missing top-level asyncapi version field")
	}

	protocol := inferProtocol(doc.Servers)
	result := &Result{Version: doc.AsyncAPI}

	if isV3(doc.AsyncAPI) {
		result.Routes = append(result.Routes, routesFromV3Operations(doc, protocol)...)
	} else {
		result.Routes = append(result.Routes, routesFromV2Channels(doc, protocol)...)
	}
	return result, nil
}

func isV3(version string) bool {
	return strings.HasPrefix(version, "3.")
}

func parseDocument(spec []byte) (*document, error) {
	var doc document
	trimmed := strings.TrimSpace(string(spec))
	var err error
	if strings.HasPrefix(trimmed, "{") {
		err = json.Unmarshal(spec, &doc)
	} else {
		err = yaml.Unmarshal(spec, &doc)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func inferProtocol(servers map[string]server) importers.Protocol {
	for _, s := range servers {
		if s.Protocol != "" {
			return importers.ProtocolFromScheme(s.Protocol)
		}
		if scheme := schemeOf(s.URL); scheme != "" {
			return importers.ProtocolFromScheme(scheme)
		}
	}
	return importers.ProtocolWebSocket
}

func schemeOf(url string) string {
	idx := strings.Index(url, "://")
	if idx < 0 {
		return ""
	}
	return url[:idx]
}

func routesFromV2Channels(doc *document, protocol importers.Protocol) []importers.ImportedRoute {
	var routes []importers.ImportedRoute
	for name, ch := range doc.Channels {
		if ch.Subscribe != nil {
			routes = append(routes, routeFromOperation(name, "subscribe", protocol, ch.Description, ch.Subscribe.Summary, ch.Subscribe.Description, ch.Subscribe.Message))
		}
		if ch.Publish != nil {
			routes = append(routes, routeFromOperation(name, "publish", protocol, ch.Description, ch.Publish.Summary, ch.Publish.Description, ch.Publish.Message))
		}
	}
	return routes
}

func routesFromV3Operations(doc *document, protocol importers.Protocol) []importers.ImportedRoute {
	var routes []importers.ImportedRoute
	for opName, op := range doc.Ops {
		channelName := "unknown"
		for _, ref := range op.Channel {
			channelName = channelRefToName(ref)
			break
		}
		description := op.Description
		if description == "" {
			description = doc.Channels[channelName].Description
		}
		routes = append(routes, routeFromOperation(channelName, opName, protocol, doc.Channels[channelName].Description, op.Summary, description, op.Message))
	}
	return routes
}

// channelRefToName extracts the channel name from a JSON-pointer-style
// "$ref" such as "#/channels/petUpdates".
func channelRefToName(ref string) string {
	idx := strings.LastIndex(ref, "/")
	if idx < 0 {
		return ref
	}
	return ref[idx+1:]
}

func routeFromOperation(channelName, action string, protocol importers.Protocol, channelDesc, summary, description string, msg *messageWrapper) importers.ImportedRoute {
	desc := description
	if desc == "" {
		desc = summary
	}
	if desc == "" {
		desc = channelDesc
	}

	route := importers.ImportedRoute{
		Protocol:    protocol,
		Method:      strings.ToUpper(action),
		Path:        "/" + strings.TrimPrefix(channelName, "/"),
		Description: desc,
		Tags:        []string{action},
		Headers:     map[string]string{},
	}
	if msg != nil && msg.Payload != nil {
		if body, err := json.Marshal(msg.Payload); err == nil {
			route.RequestBody = string(body)
			route.Responses = []importers.ImportedResponse{{StatusCode: 200, Body: string(body)}}
		}
	}
	return route
}
