package wsruntime

import "context"

// Handler is the programmable interface a WebSocket path is served by:
// connect/message/disconnect hooks, plus a path filter.
type Handler interface {
	OnConnect(ctx context.Context, wc *Context) error
	OnMessage(ctx context.Context, wc *Context, msg Message) error
	OnDisconnect(ctx context.Context, wc *Context) error
	HandlesPath(path string) bool
}

// BaseHandler supplies no-op OnConnect/OnDisconnect and a
// handles-everything HandlesPath, so a concrete handler only needs to
// embed it and implement OnMessage.
type BaseHandler struct{}

func (BaseHandler) OnConnect(context.Context, *Context) error    { return nil }
func (BaseHandler) OnDisconnect(context.Context, *Context) error { return nil }
func (BaseHandler) HandlesPath(string) bool                      { return true }
