package router

import (
	"github.com/gin-gonic/gin"
	redis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/client"
	"taskboard-api/internal/config"
	"taskboard-api/internal/handler"
	"taskboard-api/internal/metrics"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/service"
)

// Setup wires repositories, services, the realtime hub and all routes
func Setup(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	s3Client client.S3ClientInterface,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*gin.Engine, *realtime.Hub) {
	if cfg.Server.Mode == "release" || cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.Metrics(m))

	// Repositories
	boardRepo := repository.NewBoardRepository(db)
	cardRepo := repository.NewCardRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Realtime hub, bridged across processes through redis
	hub := realtime.NewHub(redisClient, logger)
	hub.SetConnectionGauge(m.AddWebsocketConnections)
	hub.SetEventCounter(m.IncrementEventPublished)

	// Services
	boardService := service.NewBoardService(boardRepo, cardRepo, m, logger)
	cardService := service.NewCardService(cardRepo, boardRepo, hub, m, logger)
	commentService := service.NewCommentService(commentRepo, cardRepo, boardRepo, hub, logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, cardRepo, boardRepo, s3Client, hub, logger)
	shareService := service.NewShareService(boardRepo, cfg.JWT.Secret, cfg.JWT.ShareTokenTTL.Std(), logger)

	// Handlers
	boardHandler := handler.NewBoardHandler(boardService)
	cardHandler := handler.NewCardHandler(cardService)
	commentHandler := handler.NewCommentHandler(commentService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	shareHandler := handler.NewShareHandler(shareService)
	wsHandler := handler.NewWSHandler(hub, boardService, cardService, cfg.JWT.Secret, logger)
	healthHandler := handler.NewHealthHandler()

	// Health and metrics endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.Server.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)

		// Websocket upgrade authenticates via token query parameter
		api.GET("/ws", wsHandler.HandleWebSocket)

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(cfg.JWT.Secret))
		{
			// Board routes
			authenticated.POST("", boardHandler.CreateBoard)
			authenticated.GET("/my", boardHandler.ListMyBoards)
			authenticated.GET("/:boardId", boardHandler.GetBoard)
			authenticated.PUT("/:boardId", boardHandler.UpdateBoard)
			authenticated.DELETE("/:boardId", boardHandler.DeleteBoard)

			// Share routes
			authenticated.POST("/:boardId/share", shareHandler.IssueShareToken)
			authenticated.POST("/join", shareHandler.JoinBoard)

			// Card routes
			authenticated.POST("/:boardId/cards", cardHandler.CreateCard)
			authenticated.GET("/:boardId/cards", cardHandler.ListCards)
			authenticated.GET("/cards/:cardId", cardHandler.GetCard)
			authenticated.PUT("/cards/:cardId", cardHandler.UpdateCard)
			authenticated.PUT("/cards/:cardId/move", cardHandler.MoveCard)

			// Comment routes
			authenticated.GET("/cards/:cardId/comments", commentHandler.ListComments)
			authenticated.POST("/cards/:cardId/comments", commentHandler.AddComment)

			// Attachment routes
			authenticated.GET("/cards/:cardId/attachments", attachmentHandler.ListAttachments)
			authenticated.POST("/cards/:cardId/attachments", attachmentHandler.RegisterAttachment)
			authenticated.POST("/attachments/:attachmentId/complete", attachmentHandler.CompleteAttachment)
		}
	}

	return r, hub
}
