// File: internal/category/model.go
package category

import (
	"servicehub_backend/internal/common"
	"time"

	"github.com/google/uuid"
)

// Category represents a service category in the profile store.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name,unique"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_slug,unique"`
	Description *string   `gorm:"type:text"`
	Icon        *string   `gorm:"type:varchar(100)"`
	IsActive    bool      `gorm:"not null;default:true"`
	common.TimestampedModel
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// --- DTOs ---

// CategoryResponse defines the structure for category data sent in API responses.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a Category model to a CategoryResponse DTO.
func ToCategoryResponse(category *Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Icon:        category.Icon,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// AdminUpsertCategoryRequest is the admin request body for creating or
// updating a category.
type AdminUpsertCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Slug        string  `json:"slug" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
