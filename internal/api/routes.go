// Package api exposes the validator's read-only status dashboard and the
// local broadcast-channel test backend over HTTP, so integration tests and
// local development can drive a block's lifecycle without a real social
// network. Public read-only routes and authenticated mutating routes live
// in separate gin groups, with auth and rate limiting applied as group
// middleware.
package api

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cliptions/validator/internal/broadcast"
	"github.com/cliptions/validator/internal/orchestrator"
	"github.com/cliptions/validator/internal/store"
)

// APIHandler bundles the collaborators the dashboard and broadcast test
// backend need to serve requests.
type APIHandler struct {
	store   *store.JSONBlockStore
	channel *broadcast.LocalChannel
	hub     *broadcast.Hub
}

// SetupRouter builds the gin engine serving the read-only status dashboard
// (backed by st), the local broadcast test backend (backed by channel and
// hub), and — when orch is non-nil — the authenticated block-lifecycle
// endpoints that drive orch through commit, reveal and payout.
func SetupRouter(st *store.JSONBlockStore, channel *broadcast.LocalChannel, hub *broadcast.Hub, orch *orchestrator.Orchestrator) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var.
	// Development: leave unset (or "*") to allow any origin.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	handler := &APIHandler{store: st, channel: channel, hub: hub}

	// ── Public, read-only endpoints ─────────────────────────────
	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/blocks", handler.handleListBlocks)
		pub.GET("/blocks/:num", handler.handleGetBlock)
		pub.GET("/stream", hub.Subscribe)
	}

	// ── Protected, mutating endpoints: the broadcast test backend ──
	// (standing in for the real social-media API a validator posts to).
	auth := r.Group("/api/v1/broadcast")
	auth.Use(AuthMiddleware())
	auth.Use(NewRateLimiter(60, 10).Middleware())
	{
		auth.POST("/post", handler.handlePost)
		auth.POST("/:id/reply", handler.handleReply)
	}

	// ── Protected, mutating endpoints: the block lifecycle ─────────
	if orch != nil {
		lifecycle := r.Group("/api/v1")
		lifecycle.Use(AuthMiddleware())
		lifecycle.Use(NewRateLimiter(60, 10).Middleware())
		(&blockHandler{orch: orch}).register(lifecycle)
	}

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "cliptions-validator",
	})
}

func (h *APIHandler) handleListBlocks(c *gin.Context) {
	keys, err := h.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": keys})
}

func (h *APIHandler) handleGetBlock(c *gin.Context) {
	num := c.Param("num")
	b, err := h.store.Load(num)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *APIHandler) handlePost(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	post, err := h.channel.Post(context.Background(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *APIHandler) handleReply(c *gin.Context) {
	parentID := c.Param("id")
	var req struct {
		AuthorID string `json:"authorId" binding:"required"`
		Text     string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	post, err := h.channel.RecordReply(parentID, req.AuthorID, req.Text)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, post)
}
