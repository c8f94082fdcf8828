package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"taskboard-api/internal/middleware"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/response"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSHandler upgrades authenticated clients onto the board event hub
type WSHandler struct {
	hub       *realtime.Hub
	access    realtime.AccessChecker
	mover     realtime.CardMover
	jwtSecret string
	logger    *zap.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(
	hub *realtime.Hub,
	access realtime.AccessChecker,
	mover realtime.CardMover,
	jwtSecret string,
	logger *zap.Logger,
) *WSHandler {
	return &WSHandler{
		hub:       hub,
		access:    access,
		mover:     mover,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// HandleWebSocket handles GET /ws?token=...
// Browsers cannot set an Authorization header on a websocket upgrade, so the
// token arrives as a query parameter instead.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "token query parameter is required")
		return
	}

	userID, err := middleware.ParseUserToken(token, h.jwtSecret)
	if err != nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("Websocket connected",
		zap.String("user_id", userID.String()),
	)

	client := realtime.NewClient(h.hub, conn, userID)
	client.Run(h.access, h.mover, h.logger)
}
