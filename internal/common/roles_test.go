package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleCustomer, NormalizeRole(RoleUserLegacy))
	assert.Equal(t, RoleAdmin, NormalizeRole(RoleAdmin))
	assert.Equal(t, RoleProvider, NormalizeRole(RoleProvider))
	assert.Equal(t, "superuser", NormalizeRole("superuser"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleProvider))
	assert.True(t, ValidRole(RoleCustomer))
	assert.True(t, ValidRole(RoleUserLegacy))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}

func TestAPIError_WithDetailsKeepsSentinelMatching(t *testing.T) {
	err := ErrConflict.WithDetails("row exists")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	// The sentinel itself must stay untouched.
	assert.Nil(t, ErrConflict.Details)
}
