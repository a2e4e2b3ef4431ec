package negotiation

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	negotiationService "github.com/negochallenge/backend/internal/service/negotiation"
)

// WebSocketHandler runs turns over a persistent connection so the frontend
// avoids one HTTP round trip per message.
type WebSocketHandler struct {
	svc      *negotiationService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(svc *negotiationService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket endpoint.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws/{sessionID}", h.handleWebSocket)
}

type inboundTurn struct {
	Message    string `json:"userMessage"`
	ReferredBy string `json:"referredBy,omitempty"`
}

type outboundError struct {
	Error string `json:"error"`
}

// handleWebSocket reads buyer messages and writes turn results until the
// client hangs up.
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx := r.Context()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	for {
		var turn inboundTurn
		if err := conn.ReadJSON(&turn); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		if turn.Message == "" {
			h.writeJSON(conn, outboundError{Error: "userMessage is required"})
			continue
		}

		result, err := h.svc.ProcessTurn(ctx, sessionID, turn.Message, turn.ReferredBy)
		if err != nil {
			log.Printf("[websocket] turn failed session=%s: %v", sessionID, err)
			h.writeJSON(conn, outboundError{Error: "turn processing failed"})
			continue
		}

		h.writeJSON(conn, result)
	}
}

func (h *WebSocketHandler) writeJSON(conn *websocket.Conn, payload any) {
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("[websocket] write failed: %v", err)
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
