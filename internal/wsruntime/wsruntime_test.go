package wsruntime

import (
	"context"
	"os"
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that no goroutine, the transport's writePump and
// the handler registry's config-watch loop included, is still running
// once the package's tests have finished.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMessageTextRoundTrips(t *testing.T) {
	msg := Text("hello")
	messageType, data := msg.ToWire()
	back := FromWire(messageType, data)
	if back.Kind != KindText || back.String() != "hello" {
		t.Fatalf("got %+v", back)
	}
}

func TestMessageBinaryRoundTrips(t *testing.T) {
	msg := Binary([]byte{1, 2, 3, 4})
	messageType, data := msg.ToWire()
	back := FromWire(messageType, data)
	if back.Kind != KindBinary || len(back.Data) != 4 {
		t.Fatalf("got %+v", back)
	}
}

func TestPatternRegex(t *testing.T) {
	p, err := NewRegexPattern(`^hello`)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Matches("hello world") {
		t.Fatal("expected match")
	}
	if p.Matches("goodbye world") {
		t.Fatal("expected no match")
	}
}

func TestPatternRegexInvalid(t *testing.T) {
	if _, err := NewRegexPattern("[invalid"); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestPatternExact(t *testing.T) {
	p := NewExactPattern("hello")
	if !p.Matches("hello") {
		t.Fatal("expected exact match")
	}
	if p.Matches("hello world") {
		t.Fatal("expected no match")
	}
}

func TestPatternJSONPath(t *testing.T) {
	p := NewJSONPathPattern("$.type")
	if !p.Matches(`{"type": "message"}`) {
		t.Fatal("expected match")
	}
	if p.Matches(`{"name": "test"}`) {
		t.Fatal("expected no match")
	}
}

func TestPatternJSONPathNested(t *testing.T) {
	p := NewJSONPathPattern("$.user.name")
	if !p.Matches(`{"user": {"name": "John"}}`) {
		t.Fatal("expected match")
	}
	if p.Matches(`{"user": {"email": "john@example.com"}}`) {
		t.Fatal("expected no match")
	}
}

func TestPatternJSONPathInvalidJSON(t *testing.T) {
	p := NewJSONPathPattern("$.type")
	if p.Matches("not json") {
		t.Fatal("expected no match for invalid JSON")
	}
}

func TestPatternAny(t *testing.T) {
	p := AnyPattern()
	if !p.Matches("anything") || !p.Matches("") || !p.Matches(`{"json": true}`) {
		t.Fatal("any pattern must match everything")
	}
}

func TestPatternExtract(t *testing.T) {
	p := NewJSONPathPattern("$.type")
	value, ok := p.Extract(`{"type": "greeting", "data": "hello"}`, "$.type")
	if !ok || value != "greeting" {
		t.Fatalf("got %v, %v", value, ok)
	}
}

func TestPatternExtractNotFound(t *testing.T) {
	p := AnyPattern()
	if _, ok := p.Extract(`{"type": "message"}`, "$.nonexistent"); ok {
		t.Fatal("expected not found")
	}
}

func TestRoomManagerJoinLeave(t *testing.T) {
	rooms := NewRoomManager()
	rooms.Join("conn1", "room1")
	rooms.Join("conn1", "room2")
	rooms.Join("conn2", "room1")

	members := rooms.RoomMembers("room1")
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	connRooms := rooms.ConnectionRooms("conn1")
	if len(connRooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(connRooms))
	}

	rooms.Leave("conn1", "room1")
	members = rooms.RoomMembers("room1")
	if len(members) != 1 || members[0] != "conn2" {
		t.Fatalf("got %v", members)
	}
}

func TestRoomManagerLeaveAll(t *testing.T) {
	rooms := NewRoomManager()
	rooms.Join("conn1", "room1")
	rooms.Join("conn1", "room2")
	rooms.LeaveAll("conn1")
	if got := rooms.ConnectionRooms("conn1"); len(got) != 0 {
		t.Fatalf("expected no rooms left, got %v", got)
	}
	if got := rooms.RoomMembers("room1"); len(got) != 0 {
		t.Fatalf("expected room1 emptied, got %v", got)
	}
}

func TestRoomManagerBroadcastDropsOnFullChannel(t *testing.T) {
	rooms := NewRoomManager()
	ch := rooms.Subscribe("conn1", "room1")
	rooms.Broadcast("room1", "hello")
	if got := <-ch; got != "hello" {
		t.Fatalf("got %q", got)
	}

	// One more broadcast than the channel can buffer: the extra one is
	// dropped instead of blocking.
	for i := 0; i < cap(ch)+1; i++ {
		rooms.Broadcast("room1", "fill")
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("expected a full channel of %d messages, got %d", cap(ch), got)
	}
}

func TestContextSendTextQueuesMessage(t *testing.T) {
	out := make(chan Message, 1)
	wc := NewContext("conn1", "/ws", NewRoomManager(), out)
	if err := wc.SendText("hi"); err != nil {
		t.Fatal(err)
	}
	msg := <-out
	if msg.String() != "hi" {
		t.Fatalf("got %q", msg.String())
	}
}

func TestContextSendFailsWhenChannelFull(t *testing.T) {
	out := make(chan Message)
	wc := NewContext("conn1", "/ws", NewRoomManager(), out)
	if err := wc.SendText("hi"); err == nil {
		t.Fatal("expected error on unbuffered full channel")
	}
}

func TestContextMetadata(t *testing.T) {
	wc := NewContext("conn1", "/ws", NewRoomManager(), make(chan Message, 1))
	if _, ok := wc.Metadata("missing"); ok {
		t.Fatal("expected not found")
	}
	wc.SetMetadata("user", "alice")
	v, ok := wc.Metadata("user")
	if !ok || v != "alice" {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestMessageRouterFirstMatchWins(t *testing.T) {
	router := NewMessageRouter()
	router.On(NewExactPattern("ping"), func(string) (string, bool) { return "pong", true })
	router.On(AnyPattern(), func(string) (string, bool) { return "default", true })

	reply, ok := router.Route("ping")
	if !ok || reply != "pong" {
		t.Fatalf("got %q, %v", reply, ok)
	}

	reply, ok = router.Route("anything else")
	if !ok || reply != "default" {
		t.Fatalf("got %q, %v", reply, ok)
	}
}

type recordingHandler struct {
	BaseHandler
	path string
}

func (h *recordingHandler) HandlesPath(path string) bool { return path == h.path }

func (h *recordingHandler) OnMessage(context.Context, *Context, Message) error { return nil }

func TestHandlerRegistryDefaultsHotReloadFromEnv(t *testing.T) {
	os.Unsetenv(HotReloadEnv)
	r := NewHandlerRegistry()
	if r.IsHotReloadEnabled() {
		t.Fatal("expected hot reload disabled by default")
	}

	os.Setenv(HotReloadEnv, "true")
	defer os.Unsetenv(HotReloadEnv)
	r2 := NewHandlerRegistry()
	if !r2.IsHotReloadEnabled() {
		t.Fatal("expected hot reload enabled when env var set")
	}
}

func TestHandlerRegistryRegisterAndFilter(t *testing.T) {
	r := NewHandlerRegistry()
	r.Register(&recordingHandler{path: "/chat"})
	r.Register(&recordingHandler{path: "/game"})

	if !r.HasHandlerFor("/chat") {
		t.Fatal("expected a handler for /chat")
	}
	if r.HasHandlerFor("/unknown") {
		t.Fatal("expected no handler for /unknown")
	}
	if got := r.HandlersFor("/chat"); len(got) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(got))
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 handlers, got %d", r.Len())
	}

	r.Clear()
	if r.Len() != 0 {
		t.Fatal("expected empty registry after Clear")
	}
}

func TestPassthroughHandlerMatchesAndEchoes(t *testing.T) {
	config, err := NewRegexPassthroughConfig(`^upstream:`, "wss://upstream.example/ws")
	if err != nil {
		t.Fatal(err)
	}
	h := NewPassthroughHandler(config)

	if !h.ShouldPassthrough("upstream: hello") {
		t.Fatal("expected passthrough match")
	}
	if h.ShouldPassthrough("local: hello") {
		t.Fatal("expected no passthrough match")
	}

	out := make(chan Message, 1)
	wc := NewContext("conn1", "/ws", NewRoomManager(), out)
	if err := h.OnMessage(context.Background(), wc, Text("upstream: ping")); err != nil {
		t.Fatal(err)
	}
	reply := <-out
	want := "PASSTHROUGH(wss://upstream.example/ws): upstream: ping"
	if reply.String() != want {
		t.Fatalf("got %q, want %q", reply.String(), want)
	}
}
