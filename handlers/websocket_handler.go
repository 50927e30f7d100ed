package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/coforge-registration/live"
	"github.com/Dosada05/coforge-registration/services"
)

type WebSocketHandler struct {
	hub      *live.Hub
	svc      services.RegistrationService
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler принимает тот же список origin, что и CORS; "*" разрешает всех.
func NewWebSocketHandler(hub *live.Hub, svc services.RegistrationService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub: hub,
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// ServeWs upgrades the request and starts a live form session for it.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам пишет HTTP ошибку.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	session := live.NewSession(h.svc, h.logger)
	if h.hub.Serve(conn, session) == nil {
		h.logger.WarnContext(r.Context(), "live hub is stopped, connection dropped")
		return
	}
	h.logger.InfoContext(r.Context(), "live session started", slog.String("session_id", session.ID.String()))
}
