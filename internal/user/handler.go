// File: internal/user/handler.go
package user

import (
	"context"
	"errors"

	"servicehub_backend/internal/common"
	"servicehub_backend/internal/middleware"
	"servicehub_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SessionRevoker tears down provider-side sessions on sign-out.
type SessionRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service shared.Service
	revoker SessionRevoker
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service shared.Service, revoker SessionRevoker, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		revoker: revoker,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	authGroup := router.Group("/auth", authMW)
	{
		authGroup.GET("/me", h.getMe)
		authGroup.POST("/signout", h.signOut)
	}

	adminUserGroup := router.Group("/users/admin", authMW, adminRoleMW)
	{
		adminUserGroup.GET("", h.adminListUsers)
		adminUserGroup.PATCH("/:id/role", h.adminUpdateRole)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	sess := middleware.GetSessionFromContext(c)
	if sess == nil || sess.User == nil {
		// Authenticated but the profile could not be resolved (degraded
		// store). Report it as absent rather than erroring.
		common.RespondWithError(c, common.ErrNotFound.WithDetails("No profile exists for this identity yet."))
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToUserResponse(sess.User))
}

func (h *Handler) signOut(c *gin.Context) {
	identityID := middleware.GetIdentityIDFromContext(c)
	if identityID == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated identity."))
		return
	}
	if err := h.revoker.RevokeRefreshTokens(c.Request.Context(), identityID); err != nil {
		h.logger.Error("Failed to revoke provider sessions on sign-out",
			zap.Error(err), zap.String("identityID", identityID))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not complete sign-out."))
		return
	}
	common.RespondOK(c, "Signed out.", nil)
}

func (h *Handler) adminListUsers(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	users, total, err := h.service.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	common.RespondPaginated(c, "Users retrieved successfully.", responses, common.NewPagination(total, page, pageSize))
}

func (h *Handler) adminUpdateRole(c *gin.Context) {
	id := c.Param("id")

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Admin update role: Invalid request body", zap.Error(err), zap.String("userID", id))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	updated, err := h.service.UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User role updated successfully.", ToUserResponse(updated))
}
