// File: internal/user/adapter.go
package user

import (
	"strings"

	"servicehub_backend/internal/common"
	"servicehub_backend/internal/shared"
)

// DBToShared converts a GORM User model to a shared.User.
func DBToShared(u *User) *shared.User {
	return &shared.User{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Name:       u.Name,
		Phone:      u.Phone,
		Role:       common.NormalizeRole(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// IdentityToDB constructs a new profile row from an external identity. The
// full name is mirrored into the legacy name column so old readers keep
// working.
func IdentityToDB(identity shared.Identity, role string) *User {
	u := &User{
		ID:         identity.ID,
		Role:       role,
		IsVerified: true,
	}
	if email := strings.ToLower(strings.TrimSpace(identity.Email)); email != "" {
		u.Email = &email
	}
	if name := strings.TrimSpace(identity.Name); name != "" {
		nameCopy := name
		u.FullName = &nameCopy
		legacyCopy := name
		u.Name = &legacyCopy
	}
	if phone := strings.TrimSpace(identity.Phone); phone != "" {
		u.Phone = &phone
	}
	return u
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(u *shared.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Name:       u.Name,
		Phone:      u.Phone,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
