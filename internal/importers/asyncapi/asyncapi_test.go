package asyncapi

import "testing"

const sampleV2Spec = `
asyncapi: "2.6.0"
servers:
  production:
    url: mqtt://broker.example.com:1883
    protocol: mqtt
channels:
  sensors/temperature:
    description: temperature readings
    subscribe:
      summary: receive a temperature reading
      message:
        payload:
          type: object
          celsius: 21.5
`

const sampleV3Spec = `
asyncapi: "3.0.0"
servers:
  production:
    url: wss://events.example.com
    protocol: wss
channels:
  userSignedUp:
    description: fired when a user signs up
operations:
  onUserSignedUp:
    action: receive
    channel:
      $ref: "#/channels/userSignedUp"
    summary: notify subscribers of a new signup
    message:
      payload:
        userId: abc-123
`

func TestImportV2ChannelsInferProtocolFromServer(t *testing.T) {
	result, err := Import([]byte(sampleV2Spec))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(result.Routes))
	}
	route := result.Routes[0]
	if route.Protocol != "mqtt" {
		t.Fatalf("expected mqtt protocol, got %q", route.Protocol)
	}
	if route.Path != "/sensors/temperature" {
		t.Fatalf("expected channel path, got %q", route.Path)
	}
	if route.Method != "SUBSCRIBE" {
		t.Fatalf("expected SUBSCRIBE method, got %q", route.Method)
	}
}

func TestImportV3OperationsResolveChannelRef(t *testing.T) {
	result, err := Import([]byte(sampleV3Spec))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Version != "3.0.0" {
		t.Fatalf("expected version 3.0.0, got %q", result.Version)
	}
	if len(result.Routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(result.Routes))
	}
	route := result.Routes[0]
	if route.Path != "/userSignedUp" {
		t.Fatalf("expected resolved channel path, got %q", route.Path)
	}
	if route.Protocol != "websocket" {
		t.Fatalf("expected websocket protocol inferred from wss scheme, got %q", route.Protocol)
	}
}

func TestImportRejectsDocumentMissingVersion(t *testing.T) {
	if _, err := Import([]byte(`{"channels": {}}`)); err == nil {
		t.Fatalf("expected an error for a document missing the asyncapi version field")
	}
}

func TestImportDefaultsToWebSocketWithNoServers(t *testing.T) {
	result, err := Import([]byte(`
asyncapi: "2.6.0"
channels:
  updates:
    publish:
      summary: send an update
`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Routes) != 1 || result.Routes[0].Protocol != "websocket" {
		t.Fatalf("expected websocket default, got %+v", result.Routes)
	}
}
