package wsruntime

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

func errConn(message string, cause error) error {
	return errs.Wrap("wsruntime", errs.KindHandlerConn, message, cause)
}

// upgrader accepts every origin; the layer in front of this one (the
// reverse proxy / dev server) is where origin policy belongs.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server upgrades incoming HTTP requests to WebSocket connections and
// pumps frames between the wire and a path's registered handlers.
type Server struct {
	registry *HandlerRegistry
	rooms    *RoomManager
	outBuf   int
}

// NewServer builds a server dispatching through registry and sharing
// rooms across every connection it serves.
func NewServer(registry *HandlerRegistry, rooms *RoomManager) *Server {
	return &Server{registry: registry, rooms: rooms, outBuf: 256}
}

// ServeHTTP upgrades the request and runs the connection until it
// closes, handing every frame to the handlers registered for the
// request path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.Get(logging.CategoryWS)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("%v", errConn("upgrade failed", err))
		return
	}
	defer conn.Close()

	path := r.URL.Path
	handlers := s.registry.HandlersFor(path)
	if len(handlers) == 0 {
		log.Warn("%v", errConn("no handler registered for path "+path, nil))
		return
	}

	id := ConnectionID(uuid.NewString())
	out := make(chan Message, s.outBuf)
	wc := NewContext(id, path, s.rooms, out)
	ctx := context.Background()

	done := make(chan struct{})
	go s.writePump(conn, out, done)
	defer close(done)

	for _, h := range handlers {
		if err := h.OnConnect(ctx, wc); err != nil {
			log.Warn("handler OnConnect failed for %s: %v", path, err)
		}
	}
	defer func() {
		for _, h := range handlers {
			if err := h.OnDisconnect(ctx, wc); err != nil {
				log.Warn("handler OnDisconnect failed for %s: %v", path, err)
			}
		}
		s.rooms.LeaveAll(id)
	}()

	s.readPump(ctx, conn, wc, handlers, log)
}

func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, wc *Context, handlers []Handler, log *logging.Logger) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read error on %s: %v", wc.Path, err)
			}
			return
		}
		msg := FromWire(messageType, data)
		if msg.Kind == KindClose {
			return
		}
		for _, h := range handlers {
			if err := h.OnMessage(ctx, wc, msg); err != nil {
				log.Warn("handler OnMessage failed on %s: %v", wc.Path, err)
			}
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, out <-chan Message, done <-chan struct{}) {
	for {
		select {
		case msg, ok := <-out:
			if !ok {
				return
			}
			messageType, data := msg.ToWire()
			if err := conn.WriteMessage(messageType, data); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
