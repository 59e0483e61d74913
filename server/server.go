// Package server exposes the relay over websocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chimchat/domain/event"
	"chimchat/services"
	"chimchat/sink"
)

// Wire envelopes. Every frame is {"event": <name>, "data": {...}},
// mirroring the event names clients already use: "chatMessage" in both
// directions and "typing" outbound only.
type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outboundEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type chatMessagePayload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type typingPayload struct {
	Name   string `json:"name"`
	Typing bool   `json:"typing"`
}

// Server upgrades connections, registers a ConnSink per session, and
// bridges the websocket to the chat service.
type Server struct {
	log        *slog.Logger
	chat       services.IChatService
	bufferSize int
	upgrader   websocket.Upgrader
}

func NewServer(log *slog.Logger, chat services.IChatService, bufferSize int) *Server {
	return &Server{
		log:        log,
		chat:       chat,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The relay has no participant auth; any origin may join.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: /ws for the relay and, when a
// static dir is configured, the frontend files at /.
func (s *Server) Handler(staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// handleWS owns one connection: upgrade, join, pump. It blocks until
// the client disconnects or a network error occurs; the deferred leave
// keeps the registry leak-free.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sessionID := uuid.NewString()
	connSink := sink.NewConnSink(s.log, s.bufferSize)

	// Writer first, so the history replay in Join has a consumer.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(ctx, conn, connSink)
	}()

	s.chat.Join(ctx, sessionID, connSink)
	s.log.Info("session connected", "session_id", sessionID)
	defer func() {
		s.chat.Leave(sessionID)
		s.log.Info("session disconnected", "session_id", sessionID)
	}()

	s.readLoop(ctx, conn)
	cancel()
	<-writerDone
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("websocket read failed", "error", err)
			}
			return
		}

		var env inboundEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			s.log.Debug("dropping undecodable frame", "error", err)
			continue
		}
		if env.Event != "chatMessage" {
			continue
		}
		name, message := coerceChatMessage(env.Data)
		s.chat.PostMessage(ctx, name, message)
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, connSink *sink.ConnSink) {
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case evt := <-connSink.Events:
			if err := conn.WriteJSON(toEnvelope(evt)); err != nil {
				s.log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

// toEnvelope maps domain events onto their wire payloads.
func toEnvelope(e event.DomainEvent) outboundEnvelope {
	switch evt := e.(type) {
	case event.MessageBroadcast:
		return outboundEnvelope{
			Event: evt.EventName(),
			Data:  chatMessagePayload{Name: evt.Name, Message: evt.Message},
		}
	case event.TypingChanged:
		return outboundEnvelope{
			Event: evt.EventName(),
			Data:  typingPayload{Name: evt.Name, Typing: evt.Typing},
		}
	default:
		return outboundEnvelope{Event: e.EventName()}
	}
}

// coerceChatMessage tolerates missing or non-string fields in the
// inbound payload, coercing both to strings per the wire contract.
func coerceChatMessage(data json.RawMessage) (name, message string) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", ""
	}
	return coerceString(fields["name"]), coerceString(fields["message"])
}

func coerceString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
