package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades a dashboard connection and keeps it registered until the
// client goes away. Must run behind RequireUserID.
func (h *Hub) ServeWS(c *gin.Context) {
	userID := CurrentUserID(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.AddClient(userID, conn)
	log.Info().Str("user_id", userID).Int("clients", h.ClientsCount()).Msg("dashboard connected")

	defer func() {
		h.RemoveClient(conn)
		log.Info().Str("user_id", userID).Int("clients", h.ClientsCount()).Msg("dashboard disconnected")
	}()

	// Reads only keep the connection alive; dashboards never send commands.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user_id", userID).Msg("websocket error")
			}
			return
		}
	}
}
