package wsruntime

// RouteFunc transforms an incoming message's text into a reply, or
// returns ok=false to decline.
type RouteFunc func(text string) (reply string, ok bool)

type route struct {
	pattern MessagePattern
	handle  RouteFunc
}

// MessageRouter dispatches message text to the first matching
// registered pattern's handler function.
type MessageRouter struct {
	routes []route
}

// NewMessageRouter builds an empty router.
func NewMessageRouter() *MessageRouter { return &MessageRouter{} }

// On registers handle for messages matching pattern, returning the
// router for chaining.
func (r *MessageRouter) On(pattern MessagePattern, handle RouteFunc) *MessageRouter {
	r.routes = append(r.routes, route{pattern: pattern, handle: handle})
	return r
}

// Route runs text through every registered pattern in order, returning
// the first non-declined reply.
func (r *MessageRouter) Route(text string) (string, bool) {
	for _, rt := range r.routes {
		if !rt.pattern.Matches(text) {
			continue
		}
		if reply, ok := rt.handle(text); ok {
			return reply, true
		}
	}
	return "", false
}
