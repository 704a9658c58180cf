// File: internal/proxy/handler.go
package proxy

import (
	"net/http"
	"time"

	"servicehub_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the generic data proxy over HTTP. Unlike the rest of the
// API, the proxy keeps its own flat wire contract ({error, details} and raw
// results) for compatibility with existing callers.
type Handler struct {
	dispatcher *Dispatcher
	store      Store
	logger     *zap.Logger
}

// NewHandler creates a new proxy handler.
func NewHandler(dispatcher *Dispatcher, store Store, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// RegisterRoutes sets up the proxy routes. The POST surface requires an
// authenticated session; health stays open for probes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.POST("/mongodb", authMW, h.dispatch)
	router.GET("/mongodb", h.health)
}

func (h *Handler) dispatch(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be {operation, args}", "details": err.Error()})
		return
	}

	role := ""
	if sess := middleware.GetSessionFromContext(c); sess != nil {
		role = sess.Role
	}

	result, opErr := h.dispatcher.Dispatch(c.Request.Context(), role, req)
	if opErr != nil {
		payload := gin.H{"error": opErr.Message}
		if opErr.Details != "" {
			payload["details"] = opErr.Details
		}
		c.JSON(opErr.Status, payload)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *Handler) health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Document store health check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
