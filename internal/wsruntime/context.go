package wsruntime

import (
	"encoding/json"
	"sync"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

func errSend(cause error) error {
	return errs.Wrap("wsruntime", errs.KindHandlerSend, "failed to send message", cause)
}

func errJSON(cause error) error {
	return errs.Wrap("wsruntime", errs.KindHandlerJSON, "failed to encode JSON message", cause)
}

// Context is the per-connection handle passed to a Handler: it can
// send frames, join/leave/broadcast to rooms, and stash arbitrary
// per-connection metadata.
type Context struct {
	ConnectionID ConnectionID
	Path         string

	rooms *RoomManager
	out   chan<- Message

	metaMu sync.RWMutex
	meta   map[string]interface{}
}

// NewContext builds a connection context bound to out, the channel the
// transport layer drains to actually write frames to the wire.
func NewContext(id ConnectionID, path string, rooms *RoomManager, out chan<- Message) *Context {
	return &Context{ConnectionID: id, Path: path, rooms: rooms, out: out, meta: make(map[string]interface{})}
}

// SendText queues a text frame for delivery.
func (c *Context) SendText(text string) error {
	select {
	case c.out <- Text(text):
		return nil
	default:
		return errSend(nil)
	}
}

// SendBinary queues a binary frame for delivery.
func (c *Context) SendBinary(data []byte) error {
	select {
	case c.out <- Binary(data):
		return nil
	default:
		return errSend(nil)
	}
}

// SendJSON marshals value and queues it as a text frame.
func (c *Context) SendJSON(value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errJSON(err)
	}
	return c.SendText(string(data))
}

// JoinRoom joins this connection to room.
func (c *Context) JoinRoom(room string) { c.rooms.Join(c.ConnectionID, room) }

// LeaveRoom removes this connection from room.
func (c *Context) LeaveRoom(room string) { c.rooms.Leave(c.ConnectionID, room) }

// BroadcastToRoom sends text to every member of room.
func (c *Context) BroadcastToRoom(room, text string) { c.rooms.Broadcast(room, text) }

// Rooms lists every room this connection has joined.
func (c *Context) Rooms() []string { return c.rooms.ConnectionRooms(c.ConnectionID) }

// SetMetadata stores a per-connection value under key.
func (c *Context) SetMetadata(key string, value interface{}) {
	c.metaMu.Lock()
	defer c.metaMu.Unlock()
	c.meta[key] = value
}

// Metadata retrieves a per-connection value previously stored under key.
func (c *Context) Metadata(key string) (interface{}, bool) {
	c.metaMu.RLock()
	defer c.metaMu.RUnlock()
	v, ok := c.meta[key]
	return v, ok
}
