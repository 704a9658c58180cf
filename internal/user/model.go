// File: internal/user/model.go
package user

import (
	"servicehub_backend/internal/common"
	"time"
)

// User represents the user profile row in the profile store. The primary key
// is the external identity id, not a synthetic key, which gives the at-most-one
// profile-per-identity invariant for free via the uniqueness constraint.
type User struct {
	ID         string  `gorm:"type:varchar(128);primaryKey"`
	Email      *string `gorm:"type:varchar(255);index"`
	FullName   *string `gorm:"type:varchar(255)"`
	Name       *string `gorm:"type:varchar(255)"` // legacy duplicate of full_name
	Phone      *string `gorm:"type:varchar(32)"`
	Role       string  `gorm:"type:varchar(50);not null;default:'customer'"`
	IsVerified bool    `gorm:"not null;default:false"`
	common.TimestampedModel
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      *string   `json:"email,omitempty"`
	FullName   *string   `json:"full_name,omitempty"`
	Name       *string   `json:"name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateRoleRequest is the admin request body for changing a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin provider customer user"`
}
