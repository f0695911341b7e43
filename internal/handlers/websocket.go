package handlers

import (
	"log"
	"net/http"

	"github.com/evn/scheduler_backendl/internal/middleware"
	"github.com/evn/scheduler_backendl/internal/services/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ScheduleFeedHandler подключает клиента к рассылке событий расписания.
func ScheduleFeedHandler(hub *live.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "invalid user", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Print("Upgrade error:", err)
			return
		}

		client := &live.Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			UserID: userID,
		}

		hub.Register(client)
		go hub.ReadPump(client)
		go hub.WritePump(client)
	}
}
