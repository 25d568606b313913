package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleDevotee))
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.False(t, RoleDevotee.AtLeast(RoleAdmin))
	assert.False(t, RoleAdmin.AtLeast(RoleSuperAdmin))
	assert.False(t, Role(0).AtLeast(RoleDevotee), "unknown roles are never privileged")
	assert.False(t, RoleAdmin.AtLeast(Role(9)))
}

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleAdmin, RoleDevotee} {
		got, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	got, err := ParseRole(" admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, got)

	_, err = ParseRole("Owner")
	assert.Error(t, err)
}

func TestAccount_Public(t *testing.T) {
	a := &Account{ID: "id", Email: "a@b.com", Name: "A", IsActive: true, Role: RoleAdmin, PasswordHash: "secret"}
	p := a.Public()

	assert.Equal(t, "Admin", p.RoleName)
	assert.Equal(t, 2, p.UserRoleID)
	assert.True(t, p.IsActive)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}
