package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"pathfinder/internal/ai"
	appsvc "pathfinder/internal/app"
	"pathfinder/internal/bootstrap"
	"pathfinder/internal/cache"
	"pathfinder/internal/platform/rabbitmq"
	"pathfinder/internal/repository"
	"pathfinder/internal/search"
	"pathfinder/internal/transport/http/handler"
	"pathfinder/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	roadmapRepo := repository.NewRoadmapRepository(app.MySQL)
	sessionRepo := repository.NewChatSessionRepository(app.MySQL)
	messageRepo := repository.NewChatMessageRepository(app.MySQL)
	questionRepo := repository.NewQuestionRepository(app.MySQL)
	answerRepo := repository.NewAnswerRepository(app.MySQL)

	llmClient := ai.NewOpenAICompatibleClient()
	llmCfg := ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	}
	searchClient := search.NewGoogleClient(search.Config{
		APIKey:   app.Config.Search.APIKey,
		EngineID: app.Config.Search.EngineID,
	})

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSec)*time.Second,
	)
	leaderboardCache := cache.NewLeaderboardCache(
		app.Redis,
		time.Duration(app.Config.Redis.LeaderboardTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	roadmapService := appsvc.NewRoadmapService(roadmapRepo, sessionRepo, messageRepo, leaderboardCache, llmClient, llmCfg)
	chatService := appsvc.NewChatService(
		roadmapRepo,
		sessionRepo,
		messageRepo,
		publisher,
		historyCache,
		llmClient,
		llmCfg,
		app.Config.LLM.MaxContextMessage,
	)
	questionService := appsvc.NewQuestionService(questionRepo, answerRepo, userRepo, llmClient, llmCfg)
	resourceService := appsvc.NewResourceService(searchClient, llmClient, llmCfg, app.Config.Search.ResultCount)

	authHandler := handler.NewAuthHandler(authService)
	roadmapHandler := handler.NewRoadmapHandler(roadmapService, resourceService)
	chatHandler := handler.NewChatHandler(chatService)
	questionHandler := handler.NewQuestionHandler(questionService)

	authJWT := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authJWT, authHandler.Me)

	api.POST("/roadmap", authJWT, roadmapHandler.Generate)
	api.POST("/roadmap/resources", authJWT, roadmapHandler.FindResources)
	api.POST("/roadmap/:id/share", authJWT, roadmapHandler.Share)
	api.GET("/roadmap/share/:shareableId", roadmapHandler.GetShared)

	api.GET("/roadmaps", authJWT, roadmapHandler.List)
	api.DELETE("/roadmaps/:id", authJWT, roadmapHandler.Delete)
	api.POST("/roadmaps/:id/progress", authJWT, roadmapHandler.UpdateProgress)

	api.GET("/leaderboard", roadmapHandler.Leaderboard)

	api.GET("/chat/:roadmapId", authJWT, chatHandler.GetHistory)
	api.POST("/chat/:roadmapId", authJWT, chatHandler.PostMessage)

	api.GET("/questions", questionHandler.List)
	api.GET("/questions/:id", questionHandler.Get)
	api.POST("/questions", authJWT, questionHandler.Create)
	api.POST("/questions/:id/answers", authJWT, questionHandler.AddAnswer)
	api.POST("/questions/answers/:id/upvote", authJWT, questionHandler.UpvoteAnswer)

	return router
}
