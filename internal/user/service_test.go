package user

import (
	"context"
	"errors"
	"testing"

	"servicehub_backend/internal/common"
	"servicehub_backend/internal/config"
	"servicehub_backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockUserRepository is a mock type for user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]User), args.Get(1).(int64), args.Error(2)
}

func testService(repo Repository, adminEmails ...string) *ServiceImplementation {
	cfg := &config.Config{AdminEmails: adminEmails}
	return NewService(repo, cfg, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestResolveProfile_ExistingProfileReturnedAsIs(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo)
	ctx := context.Background()

	existing := &User{
		ID:    "uid-1",
		Email: strPtr("someone@example.com"),
		Role:  common.RoleProvider,
	}
	mockRepo.On("FindByID", ctx, "uid-1").Return(existing, nil).Once()

	profile, err := svc.ResolveProfile(ctx, shared.Identity{ID: "uid-1", Email: "someone@example.com"})

	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, "uid-1", profile.ID)
	assert.Equal(t, common.RoleProvider, profile.Role)
	// No create on the repeat path.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestResolveProfile_FirstSightCreatesCustomerProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo, "boss@example.com")
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, "uid-new").Return(nil, common.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.ID == "uid-new" && u.Role == common.RoleCustomer && u.IsVerified
	})).Return(nil).Once()
	created := &User{ID: "uid-new", Email: strPtr("new@example.com"), Role: common.RoleCustomer}
	mockRepo.On("FindByID", ctx, "uid-new").Return(created, nil).Once()

	profile, err := svc.ResolveProfile(ctx, shared.Identity{ID: "uid-new", Email: "new@example.com", Name: "New User"})

	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, common.RoleCustomer, profile.Role)
	mockRepo.AssertExpectations(t)
}

func TestResolveProfile_AllowListedEmailGetsAdminRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo, "boss@example.com")
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, "uid-admin").Return(nil, common.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Role == common.RoleAdmin
	})).Return(nil).Once()
	created := &User{ID: "uid-admin", Email: strPtr("boss@example.com"), Role: common.RoleAdmin}
	mockRepo.On("FindByID", ctx, "uid-admin").Return(created, nil).Once()

	profile, err := svc.ResolveProfile(ctx, shared.Identity{ID: "uid-admin", Email: "Boss@Example.com"})

	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, common.RoleAdmin, profile.Role)
	mockRepo.AssertExpectations(t)
}

func TestResolveProfile_ConflictOnCreateTreatedAsExisting(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, "uid-race").Return(nil, common.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(common.ErrConflict).Once()
	winner := &User{ID: "uid-race", Role: common.RoleCustomer}
	mockRepo.On("FindByID", ctx, "uid-race").Return(winner, nil).Once()

	profile, err := svc.ResolveProfile(ctx, shared.Identity{ID: "uid-race", Email: "race@example.com"})

	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, "uid-race", profile.ID)
	mockRepo.AssertExpectations(t)
}

func TestResolveProfile_SchemaMissingDegradesToNilProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, "uid-x").Return(nil, common.ErrSchemaMissing).Once()

	profile, err := svc.ResolveProfile(ctx, shared.Identity{ID: "uid-x"})

	// A broken store must not fail the request; the session just has no profile.
	assert.NoError(t, err)
	assert.Nil(t, profile)
	mockRepo.AssertExpectations(t)
}

func TestResolveProfile_ConnectionErrorDegradesToNilProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, "uid-y").Return(nil, errors.New("dial tcp: connection refused")).Once()

	profile, err := svc.ResolveProfile(ctx, shared.Identity{ID: "uid-y"})

	assert.NoError(t, err)
	assert.Nil(t, profile)
	mockRepo.AssertExpectations(t)
}

func TestResolveProfile_EmptyIdentityIDRejected(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo)

	profile, err := svc.ResolveProfile(context.Background(), shared.Identity{ID: "  "})

	assert.Nil(t, profile)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()

	t.Run("valid role is persisted", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := testService(mockRepo)

		existing := &User{ID: "uid-1", Role: common.RoleCustomer}
		mockRepo.On("FindByID", ctx, "uid-1").Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Role == common.RoleProvider
		})).Return(nil).Once()

		updated, err := svc.UpdateUserRole(ctx, "uid-1", common.RoleProvider)

		assert.NoError(t, err)
		assert.Equal(t, common.RoleProvider, updated.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("legacy user role normalizes to customer", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := testService(mockRepo)

		existing := &User{ID: "uid-1", Role: common.RoleProvider}
		mockRepo.On("FindByID", ctx, "uid-1").Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Role == common.RoleCustomer
		})).Return(nil).Once()

		updated, err := svc.UpdateUserRole(ctx, "uid-1", common.RoleUserLegacy)

		assert.NoError(t, err)
		assert.Equal(t, common.RoleCustomer, updated.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := testService(mockRepo)

		updated, err := svc.UpdateUserRole(ctx, "uid-1", "superuser")

		assert.Nil(t, updated)
		assert.True(t, errors.Is(err, common.ErrBadRequest))
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestListUsers_ClampsPagination(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := testService(mockRepo)
	ctx := context.Background()

	mockRepo.On("List", ctx, 0, 20).Return([]User{{ID: "uid-1"}}, int64(1), nil).Once()

	users, total, err := svc.ListUsers(ctx, -1, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)
	mockRepo.AssertExpectations(t)
}
