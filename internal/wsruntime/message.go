// Package wsruntime implements the programmable WebSocket handler
// runtime: connection context, pattern-based message routing, room
// broadcast, and a hot-reloadable handler registry, transported over
// github.com/gorilla/websocket.
package wsruntime

import "github.com/gorilla/websocket"

// Message is a protocol-agnostic wrapper around one WebSocket frame,
// mirroring the four frame types gorilla/websocket exposes plus Close.
type Message struct {
	Kind MessageKind
	Data []byte
}

type MessageKind int

const (
	KindText MessageKind = iota
	KindBinary
	KindPing
	KindPong
	KindClose
)

// Text builds a text message.
func Text(s string) Message { return Message{Kind: KindText, Data: []byte(s)} }

// Binary builds a binary message.
func Binary(data []byte) Message { return Message{Kind: KindBinary, Data: data} }

// String returns the message's payload as a string, regardless of kind.
func (m Message) String() string { return string(m.Data) }

// FromWire converts a gorilla/websocket frame (messageType, data) into
// a Message.
func FromWire(messageType int, data []byte) Message {
	switch messageType {
	case websocket.TextMessage:
		return Message{Kind: KindText, Data: data}
	case websocket.BinaryMessage:
		return Message{Kind: KindBinary, Data: data}
	case websocket.PingMessage:
		return Message{Kind: KindPing, Data: data}
	case websocket.PongMessage:
		return Message{Kind: KindPong, Data: data}
	case websocket.CloseMessage:
		return Message{Kind: KindClose}
	default:
		return Message{Kind: KindBinary, Data: data}
	}
}

// ToWire converts a Message back into a gorilla/websocket
// (messageType, data) pair.
func (m Message) ToWire() (int, []byte) {
	switch m.Kind {
	case KindText:
		return websocket.TextMessage, m.Data
	case KindBinary:
		return websocket.BinaryMessage, m.Data
	case KindPing:
		return websocket.PingMessage, m.Data
	case KindPong:
		return websocket.PongMessage, m.Data
	default:
		return websocket.CloseMessage, nil
	}
}
