// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"strings"

	"servicehub_backend/internal/common"
	"servicehub_backend/internal/config"
	"servicehub_backend/internal/shared"

	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// ResolveProfile looks up the profile for an external identity, lazily
// creating it on first sight. The insert happens at most once per identity:
// repeated calls short-circuit on the lookup, and a racing first-sight insert
// that loses to a concurrent one is treated as "already exists" and
// re-fetched. Store failures other than not-found (missing users table,
// connection errors) are logged and reported as an absent profile so the
// session degrades to unauthenticated-for-role-purposes instead of failing
// the request.
func (s *ServiceImplementation) ResolveProfile(ctx context.Context, identity shared.Identity) (*shared.User, error) {
	if strings.TrimSpace(identity.ID) == "" {
		return nil, common.ErrBadRequest.WithDetails("Identity id must not be empty.")
	}

	dbUser, err := s.repo.FindByID(ctx, identity.ID)
	if err == nil {
		return DBToShared(dbUser), nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logStoreFailure("lookup", identity.ID, err)
		return nil, nil
	}

	// First sight of this identity: create the profile. Role defaults to
	// customer unless the email is on the bootstrap-admin allow-list.
	role := common.RoleCustomer
	if s.cfg.IsAdminEmail(identity.Email) {
		role = common.RoleAdmin
	}
	newUser := IdentityToDB(identity, role)

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Lost a racing insert for the same identity; the winner's row
			// is authoritative.
			s.logger.Debug("Concurrent profile creation detected, re-fetching",
				zap.String("identityID", identity.ID))
			existing, fetchErr := s.repo.FindByID(ctx, identity.ID)
			if fetchErr != nil {
				s.logStoreFailure("refetch-after-conflict", identity.ID, fetchErr)
				return nil, nil
			}
			return DBToShared(existing), nil
		}
		s.logStoreFailure("create", identity.ID, err)
		return nil, nil
	}

	// Re-read so the caller sees the persisted row, including store-stamped
	// timestamps.
	created, err := s.repo.FindByID(ctx, identity.ID)
	if err != nil {
		s.logStoreFailure("reread-after-create", identity.ID, err)
		return nil, nil
	}

	s.logger.Info("Created user profile on first sign-in",
		zap.String("identityID", identity.ID),
		zap.String("role", role))
	return DBToShared(created), nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id string) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) ListUsers(ctx context.Context, page, pageSize int) ([]shared.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	dbUsers, total, err := s.repo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, common.ErrInternalServer.WithDetails("Could not retrieve users.")
	}
	users := make([]shared.User, len(dbUsers))
	for i := range dbUsers {
		users[i] = *DBToShared(&dbUsers[i])
	}
	return users, total, nil
}

// UpdateUserRole changes a user's role. Roles are only ever mutated through
// this explicit admin action, never by the resolver.
func (s *ServiceImplementation) UpdateUserRole(ctx context.Context, id string, role string) (*shared.User, error) {
	if !common.ValidRole(role) {
		return nil, common.ErrBadRequest.WithDetails("Unknown role: " + role)
	}

	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dbUser.Role = common.NormalizeRole(role)
	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to update user role", zap.Error(err), zap.String("userID", id))
		return nil, err
	}

	s.logger.Info("User role updated",
		zap.String("userID", id),
		zap.String("role", dbUser.Role))
	return DBToShared(dbUser), nil
}

// logStoreFailure records enough detail to diagnose a broken environment
// (table name, error code) without surfacing the raw error to callers.
func (s *ServiceImplementation) logStoreFailure(op, identityID string, err error) {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("identityID", identityID),
		zap.String("table", User{}.TableName()),
		zap.Error(err),
	}
	if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrSchemaMissing.Code {
		s.logger.Error("Profile store schema is missing; profile resolution is degraded until the users table exists", fields...)
		return
	}
	s.logger.Error("Profile store operation failed; continuing without a resolved profile", fields...)
}
