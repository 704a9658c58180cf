// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"servicehub_backend/internal/common"
	"servicehub_backend/internal/firebase"
	"servicehub_backend/internal/guard"
	"servicehub_backend/internal/session"
	"servicehub_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// IdentityIDKey is the context key for the external identity id
	IdentityIDKey = "identityID"
	// SessionKey is the context key for the ResolvedSession
	SessionKey = "resolvedSession"
)

// TokenVerifier is the identity-provider operation the middleware depends on.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// AuthMiddleware verifies the provider ID token, resolves the application
// profile for the identity it carries, and places the composed
// ResolvedSession in the request context. A request that reaches a handler
// through this middleware has a fully resolved session, so downstream guard
// decisions never see a loading state.
func AuthMiddleware(verifier TokenVerifier, userService shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid", zap.String("header", authHeader))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("ID token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired identity token."))
			return
		}

		identity := firebase.IdentityFromToken(token)
		profile, err := userService.ResolveProfile(c.Request.Context(), identity)
		if err != nil {
			// Only invalid input reaches here; store failures surface as an
			// absent profile instead.
			logger.Warn("Profile resolution rejected identity", zap.Error(err), zap.String("identityID", identity.ID))
			common.RespondWithError(c, err)
			return
		}

		sess := session.Compose(&identity, true, profile, true)
		c.Set(IdentityIDKey, identity.ID)
		c.Set(SessionKey, &sess)

		logger.Debug("User authenticated successfully",
			zap.String("identityID", identity.ID),
			zap.String("role", sess.Role),
			zap.Bool("profileResolved", profile != nil),
		)

		c.Next()
	}
}

// GetIdentityIDFromContext retrieves the external identity id from the Gin context.
func GetIdentityIDFromContext(c *gin.Context) string {
	val, exists := c.Get(IdentityIDKey)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}

// GetSessionFromContext retrieves the ResolvedSession from the Gin context.
func GetSessionFromContext(c *gin.Context) *session.ResolvedSession {
	val, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	sess, ok := val.(*session.ResolvedSession)
	if !ok {
		return nil
	}
	return sess
}

// RoleAuthMiddleware enforces a required capability on an authenticated
// session. On failure it responds 403 with the guard's redirect target and
// the access-denied affordance, so clients can both navigate away and show a
// manual back action.
func RoleAuthMiddleware(required, loginPath, fallbackPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSessionFromContext(c)
		if sess == nil {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("No resolved session in context."))
			return
		}

		decision := guard.DecideRole(*sess, required, loginPath, fallbackPath)
		switch decision.Outcome {
		case guard.Allow:
			c.Next()
		case guard.Redirect:
			if decision.Denied != nil {
				common.RespondWithError(c, common.ErrForbidden.WithDetails(gin.H{
					"message":     decision.Denied.Message,
					"redirect_to": decision.RedirectTo,
					"back_path":   decision.Denied.BackPath,
				}))
				return
			}
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails(gin.H{
				"redirect_to": decision.RedirectTo,
			}))
		default:
			// Loading cannot happen behind AuthMiddleware; fail closed.
			common.RespondWithError(c, common.ErrForbidden.WithDetails("Session is still resolving."))
		}
	}
}
