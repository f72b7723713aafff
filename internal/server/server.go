package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutriai-worker/internal/config"
	"nutriai-worker/internal/mealplan"
	"nutriai-worker/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// PlanGenerator is the single operation the HTTP layer consumes.
type PlanGenerator interface {
	Generate(ctx context.Context, prefs mealplan.Preferences) (*mealplan.MealPlan, error)
}

// Server represents the HTTP server.
type Server struct {
	router *gin.Engine
	cfg    *config.Config
}

// NewServer creates a new server instance with routes registered.
func NewServer(cfg *config.Config, generator PlanGenerator) *Server {
	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsCfg))

	h := newHandler(cfg, generator)
	router.GET("/health", h.Health)
	router.GET("/", h.Info)

	generate := router.Group("/generate")
	if cfg.AuthSecret != "" {
		generate.Use(middleware.Auth(cfg.AuthSecret))
	}
	generate.POST("", h.Generate)

	return &Server{router: router, cfg: cfg}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("NutriAI worker listening on port %s", s.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
