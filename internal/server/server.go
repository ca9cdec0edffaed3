package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"chatguard/internal/handler"
	"chatguard/internal/middleware"
	"chatguard/internal/service"
)

type Server struct {
	router  *gin.Engine
	auth    service.AuthService
	control *service.ControlService
	log     *logrus.Logger
	zlog    *zap.Logger
}

func NewServer(auth service.AuthService, control *service.ControlService, zlog *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:  router,
		auth:    auth,
		control: control,
		log:     logrus.New(),
		zlog:    zlog,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	authHandler := handler.NewAuthHandler(s.auth, s.zlog)
	controlHandler := handler.NewControlHandler(s.control, s.zlog)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated control-plane routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.zlog))
	{
		authRequired.GET("/settings", controlHandler.GetSettings)
		authRequired.POST("/settings", controlHandler.UpdateSettings)
		authRequired.GET("/words", controlHandler.ListWords)
		authRequired.POST("/words", controlHandler.AddWord)
		authRequired.DELETE("/words", controlHandler.RemoveWord)
		authRequired.GET("/stats", controlHandler.GetStats)
		authRequired.GET("/topics", controlHandler.ListTopics)
		authRequired.POST("/topics/toggle", controlHandler.ToggleTopic)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
