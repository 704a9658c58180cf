package category

import (
	"context"
	"testing"

	"servicehub_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCategoryRepository is a mock type for category.Repository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, includeInactive bool) ([]Category, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAdminCreateCategory_GeneratesSlugFromName(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(c *Category) bool {
		return c.Slug == "home-cleaning" && c.Name == "Home Cleaning" && c.IsActive
	})).Return(nil).Once()

	created, err := svc.AdminCreateCategory(ctx, AdminUpsertCategoryRequest{Name: "  Home Cleaning  "})

	require.NoError(t, err)
	assert.Equal(t, "home-cleaning", created.Slug)
	assert.NotEqual(t, uuid.Nil, created.ID)
	mockRepo.AssertExpectations(t)
}

func TestAdminCreateCategory_ExplicitSlugIsNormalized(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	created, err := svc.AdminCreateCategory(ctx, AdminUpsertCategoryRequest{
		Name: "Appliance Repair",
		Slug: "Appliance & Repair!",
	})

	require.NoError(t, err)
	assert.Equal(t, "appliance-repair", created.Slug)
}

func TestAdminCreateCategory_ConflictPropagates(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(common.ErrConflict).Once()

	created, err := svc.AdminCreateCategory(ctx, AdminUpsertCategoryRequest{Name: "Plumbing"})

	assert.Nil(t, created)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestAdminUpdateCategory(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	id := uuid.New()
	inactive := false
	existing := &Category{ID: id, Name: "Old Name", Slug: "old-name", IsActive: true}

	mockRepo.On("FindByID", ctx, id).Return(existing, nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(c *Category) bool {
		return c.Name == "New Name" && c.Slug == "new-name" && !c.IsActive
	})).Return(nil).Once()

	updated, err := svc.AdminUpdateCategory(ctx, id, AdminUpsertCategoryRequest{
		Name:     "New Name",
		IsActive: &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)
	assert.False(t, updated.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestAdminUpdateCategory_NotFound(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	id := uuid.New()
	mockRepo.On("FindByID", ctx, id).Return(nil, common.ErrNotFound).Once()

	updated, err := svc.AdminUpdateCategory(ctx, id, AdminUpsertCategoryRequest{Name: "Whatever"})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, common.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetAllCategories_FiltersInactiveByDefault(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("FindAll", ctx, false).Return([]Category{{Name: "Plumbing"}}, nil).Once()

	categories, err := svc.GetAllCategories(ctx, false)

	require.NoError(t, err)
	assert.Len(t, categories, 1)
	mockRepo.AssertExpectations(t)
}
