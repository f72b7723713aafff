package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nutriai-worker/internal/config"
	"nutriai-worker/internal/mealplan"
	"nutriai-worker/internal/metrics"

	"github.com/gin-gonic/gin"
)

const serviceName = "NutriAI Worker Service"

type handler struct {
	cfg       *config.Config
	generator PlanGenerator
}

func newHandler(cfg *config.Config, generator PlanGenerator) *handler {
	return &handler{cfg: cfg, generator: generator}
}

// Health reports liveness.
func (h *handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

// Info describes the service and its runtime health.
func (h *handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName,
		"endpoints": gin.H{
			"health":   "/health",
			"generate": "/generate",
		},
		"sys": metrics.GetSysHealth(h.cfg.MetricsDBPath),
	})
}

// Generate accepts a dietary profile and returns a validated meal plan.
func (h *handler) Generate(c *gin.Context) {
	var prefs mealplan.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	prefs.ApplyDefaults()
	if err := prefs.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.RequestTimeout)
		defer cancel()
	}

	plan, err := h.generator.Generate(ctx, prefs)
	if err != nil {
		var malformed *mealplan.MalformedResponseError
		if errors.As(err, &malformed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Bad AI JSON response: " + err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate meal plan: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}
