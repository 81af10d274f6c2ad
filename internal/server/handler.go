// Package server exposes the table over HTTP: a websocket stream per
// connection, a broadcast hub fanning state changes out to every viewer, and
// a small JSON API for state inspection and session persistence.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/louisbranch/duality-table/internal/game"
	"github.com/louisbranch/duality-table/internal/protocol"
	"github.com/louisbranch/duality-table/internal/storage"
)

// Handler owns the websocket surface and the intent dispatcher.
type Handler struct {
	state *game.State
	hub   *Hub
	store storage.Store
}

// NewHandler wires the state authority, broadcast hub, and session store.
func NewHandler(state *game.State, hub *Hub, store storage.Store) *Handler {
	return &Handler{state: state, hub: hub, store: store}
}

// ServeWS upgrades the request and drives one connection: a write pump
// forwarding hub broadcasts, and a read loop dispatching client intents.
// Closing the socket is the only cancellation signal; it clears the
// connection's control mapping and nothing else.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "session ended")

	connID := h.state.AddConnection()
	frames := h.hub.Subscribe(connID)
	slog.Info("connection opened", "connection_id", connID, "remote", r.RemoteAddr)

	defer func() {
		h.hub.Unsubscribe(connID)
		h.state.RemoveConnection(connID)
		h.broadcastCharacters()
		slog.Info("connection closed", "connection_id", connID)
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Write pump: forward broadcasts until the subscription closes.
	go func() {
		for frame := range frames {
			if err := ws.Write(ctx, websocket.MessageText, frame); err != nil {
				cancel()
				return
			}
		}
	}()

	h.sendTo(connID, protocol.TypeConnected, protocol.Connected{ConnectionID: connID})
	h.sendTo(connID, protocol.TypeCharactersList, h.charactersList())
	h.sendTo(connID, protocol.TypeFearUpdated, protocol.FearUpdated{Fear: h.state.Fear()})

	for {
		kind, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				slog.Debug("websocket read ended", "connection_id", connID, "error", err)
			}
			return
		}
		if kind != websocket.MessageText {
			continue
		}

		msg, err := protocol.DecodeClientMessage(data)
		if err != nil {
			slog.Warn("invalid client message", "connection_id", connID, "error", err)
			h.sendError(connID, err)
			continue
		}
		h.dispatch(ctx, connID, msg)
	}
}

func (h *Handler) charactersList() protocol.CharactersList {
	chars := h.state.Characters()
	list := protocol.CharactersList{Characters: make([]protocol.CharacterData, 0, len(chars))}
	for _, char := range chars {
		list.Characters = append(list.Characters, protocol.FromCharacter(char))
	}
	return list
}

func (h *Handler) broadcastCharacters() {
	h.broadcast(protocol.TypeCharactersList, h.charactersList())
}

func (h *Handler) broadcast(msgType string, payload any) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		slog.Error("encode broadcast failed", "type", msgType, "error", err)
		return
	}
	h.hub.Broadcast(frame)
}

func (h *Handler) sendTo(connID, msgType string, payload any) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		slog.Error("encode message failed", "type", msgType, "error", err)
		return
	}
	h.hub.Send(connID, frame)
}
