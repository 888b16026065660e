package router

import (
	"time"

	"maldamingle/config"
	"maldamingle/internal/handler"
	"maldamingle/internal/middleware"
	"maldamingle/internal/repository"
	"maldamingle/internal/session"
	"maldamingle/internal/ws"
	"maldamingle/pkg/cloudinary"
	"maldamingle/pkg/gemini"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, text gemini.Service) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	profileRepo := repository.NewProfileRepository(db)
	hub := ws.NewHub()
	sessions := session.NewManager(cfg.Mingle, profileRepo, text, hub)

	sessionHandler := handler.NewSessionHandler(cfg, sessions)
	onboardingHandler := handler.NewOnboardingHandler(sessions, cloud)
	socialHandler := handler.NewSocialHandler(sessions)
	chatHandler := handler.NewChatHandler(sessions)
	meHandler := handler.NewMeHandler(sessions)

	sessionMw := middleware.SessionRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		api.POST("/session", sessionHandler.Create)

		authed := api.Group("")
		authed.Use(sessionMw)
		{
			authed.GET("/session", sessionHandler.Get)
			authed.POST("/session/enter", sessionHandler.Enter)
			authed.POST("/session/logout", sessionHandler.Logout)
			authed.PUT("/session/tab", sessionHandler.SetTab)
			authed.PUT("/session/message-mode", sessionHandler.SetMessageViewMode)

			onboarding := authed.Group("/onboarding")
			{
				onboarding.GET("", onboardingHandler.GetDraft)
				onboarding.PATCH("", onboardingHandler.PatchDraft)
				onboarding.POST("/bio", onboardingHandler.GenerateBio)
				onboarding.POST("/photos", onboardingHandler.UploadPhoto)
				onboarding.DELETE("/photos/:index", onboardingHandler.RemovePhoto)
				onboarding.POST("/complete", onboardingHandler.Complete)
			}

			social := authed.Group("/social")
			{
				social.GET("", socialHandler.Get)
				social.POST("/requests", socialHandler.SendRequest)
				social.POST("/requests/:id/accept", socialHandler.Accept)
				social.POST("/requests/:id/decline", socialHandler.Decline)
			}

			authed.GET("/lounge", chatHandler.Lounge)
			authed.POST("/lounge", chatHandler.PostLounge)

			chats := authed.Group("/chats")
			{
				chats.POST("/direct", chatHandler.OpenDirect)
				chats.POST("/random", chatHandler.OpenRandom)
				chats.GET("/active", chatHandler.Active)
				chats.POST("/active/messages", chatHandler.Send)
				chats.DELETE("/active", chatHandler.Close)
			}

			authed.GET("/me/profile", meHandler.GetProfile)
		}

		// WebSocket authenticates via query token; browsers cannot set headers here.
		api.GET("/ws", handler.UpgradePushWS(&cfg.JWT, hub))
	}

	return r
}
