// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"servicehub_backend/internal/common"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for user profile data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	Upsert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// classifyError maps driver errors onto the common error taxonomy so the
// service layer can distinguish conflicts (racing inserts) and a missing
// users table (misconfigured environment) from ordinary failures.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrConflict.WithDetails("A profile with this identity id already exists.")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return common.ErrConflict.WithDetails("A profile with this identity id already exists.")
		case "42P01": // undefined_table
			return common.ErrSchemaMissing.WithDetails(map[string]string{
				"table":      User{}.TableName(),
				"error_code": string(pqErr.Code),
			})
		}
	}
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return common.ErrConflict.WithDetails("A profile with this identity id already exists.")
	}
	if strings.Contains(err.Error(), "does not exist") || strings.Contains(err.Error(), "no such table") {
		return common.ErrSchemaMissing.WithDetails(map[string]string{"table": User{}.TableName()})
	}
	return err
}

// Create inserts a new profile row.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	if user.Email != nil {
		*user.Email = strings.ToLower(strings.TrimSpace(*user.Email))
	}
	return classifyError(r.db.WithContext(ctx).Create(user).Error)
}

// Upsert inserts the profile or updates its mutable columns when the row
// already exists.
func (r *gormRepository) Upsert(ctx context.Context, user *User) error {
	if user.Email != nil {
		*user.Email = strings.ToLower(strings.TrimSpace(*user.Email))
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "name", "phone", "updated_at"}),
		}).
		Create(user).Error
	return classifyError(err)
}

// FindByID retrieves a profile by the external identity id.
func (r *gormRepository) FindByID(ctx context.Context, id string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this identity id.")
		}
		return nil, classifyError(err)
	}
	return &userModel, nil
}

// Update modifies an existing profile row.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	if user.Email != nil {
		*user.Email = strings.ToLower(strings.TrimSpace(*user.Email))
	}
	return classifyError(r.db.WithContext(ctx).Save(user).Error)
}

// List returns a page of profiles ordered by creation time, plus the total count.
func (r *gormRepository) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	var users []User
	var total int64

	if err := r.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, classifyError(err)
	}
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, classifyError(err)
	}
	return users, total, nil
}
