package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/backend"
	"github.com/medwaste/classify-be/internal/models"
	"github.com/medwaste/classify-be/internal/services"
	"github.com/medwaste/classify-be/internal/session"
	ws "github.com/medwaste/classify-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// actionTimeout bounds the backend work done for one websocket action.
const actionTimeout = 30 * time.Second

// WebSocketHandler upgrades connections and gives each one its own session
// manager and history view, so backend-pushed identity changes reach the
// device and slow history fetches cannot clobber fresher rows.
type WebSocketHandler struct {
	hub      *ws.Hub
	users    services.UserServiceProvider
	history  services.HistoryServiceProvider
	stats    services.StatsServiceProvider
	notifier *backend.Notifier
	admin    auth.AdminCredential

	mu    sync.Mutex
	conns map[*ws.Client]*connState
}

type connState struct {
	manager *session.Manager
	view    *services.HistoryView
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, users services.UserServiceProvider, history services.HistoryServiceProvider, stats services.StatsServiceProvider, notifier *backend.Notifier, admin auth.AdminCredential) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		users:    users,
		history:  history,
		stats:    stats,
		notifier: notifier,
		admin:    admin,
		conns:    make(map[*ws.Client]*connState),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	manager := session.NewManager(
		backend.NewLocal(h.users, h.notifier, auth.TokenFromRequest(r)),
		h.admin,
	)
	manager.Bootstrap(r.Context())

	identity, ok := manager.Current()
	if !ok {
		manager.Close()
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		manager.Close()
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, identity.ID, auth.RoleOf(identity) == auth.RoleAdministrator)

	// Identity changes are routed through the hub so a frame can never be
	// written to a connection the hub has already dropped.
	userID := identity.ID
	manager.SetOnChange(func(changed *models.Identity) {
		h.hub.BroadcastToUser(userID, ws.NewMessage("session.update", changed))
	})

	h.mu.Lock()
	h.conns[client] = &connState{manager: manager, view: services.NewHistoryView(h.history)}
	h.mu.Unlock()

	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingWSMessage)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()

		h.mu.Lock()
		delete(h.conns, client)
		h.mu.Unlock()

		manager.Close()
		h.hub.Unregister <- client
	}()
}

// handleIncomingWSMessage processes messages received from a websocket
// client. The identity is re-read from the connection's session manager on
// every action rather than cached from connect time.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		return
	}

	h.mu.Lock()
	state, ok := h.conns[client]
	h.mu.Unlock()
	if !ok {
		return
	}

	identity, signedIn := state.manager.Current()
	if !signedIn {
		h.hub.SendTo(client, ws.NewErrorMessage("Not signed in"))
		return
	}
	role := auth.RoleOf(identity)

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch msg.Action {
	case "history.refresh":
		if err := state.view.Refresh(ctx, identity, role); err != nil {
			h.hub.SendTo(client, ws.NewErrorMessage("Failed to refresh history"))
			return
		}
		h.sendHistory(client, state)

	case "history.filter":
		var f struct {
			Term     string `json:"term"`
			Category string `json:"category"`
		}
		h.decodePayload(msg.Payload, &f)
		state.view.SetFilter(services.Filter{Term: f.Term, Category: f.Category})
		h.sendHistory(client, state)

	case "history.delete":
		var p struct {
			ID string `json:"id"`
		}
		h.decodePayload(msg.Payload, &p)
		if err := state.view.DeleteOne(ctx, identity, role, p.ID); err != nil {
			h.hub.SendTo(client, ws.NewErrorMessage("Failed to delete record"))
			return
		}
		h.sendHistory(client, state)

	case "history.clear":
		if err := state.view.ClearAll(ctx, identity, role); err != nil {
			h.hub.SendTo(client, ws.NewErrorMessage("Failed to clear history"))
			return
		}
		h.sendHistory(client, state)

	case "stats.refresh":
		if role != auth.RoleAdministrator {
			h.hub.SendTo(client, ws.NewErrorMessage("Forbidden"))
			return
		}
		stats, _ := h.stats.Dashboard(ctx, time.Now().UTC())
		h.hub.SendTo(client, ws.NewMessage("stats.update", stats))

	case "sign_out":
		if err := state.manager.SignOut(ctx); err != nil {
			log.Warn().Err(err).Str("user_id", identity.ID).Msg("Sign-out reported a backend error")
		}

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		h.hub.SendTo(client, ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}

func (h *WebSocketHandler) sendHistory(client *ws.Client, state *connState) {
	h.hub.SendTo(client, ws.NewMessage("history.records", map[string]interface{}{
		"records":    state.view.Visible(),
		"categories": state.view.Categories(),
	}))
}

// decodePayload re-marshals the loosely typed payload into a concrete
// shape; missing fields simply stay zero.
func (h *WebSocketHandler) decodePayload(payload interface{}, dst interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, dst)
}
