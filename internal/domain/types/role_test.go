package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ROLE_USER":  RoleUser,
		"role_admin": RoleAdmin,
		"admin":      RoleAdmin,
		" user ":     RoleUser,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRole("ROLE_SUPERUSER")
	var unk ErrUnknownRole
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "ROLE_SUPERUSER", unk.Name)
}

func TestRoleSet_NoHierarchy(t *testing.T) {
	admin := NewRoleSet(RoleAdmin)
	user := NewRoleSet(RoleUser)

	assert.False(t, admin.Intersects(user), "admin must not imply user")
	assert.True(t, admin.Intersects(NewRoleSet(RoleUser, RoleAdmin)))
	assert.False(t, RoleSet(0).Intersects(admin))
	assert.True(t, RoleSet(0).Empty())
}

func TestRoleSet_NamesStableOrder(t *testing.T) {
	s := NewRoleSet(RoleAdmin, RoleUser)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, s.Names())

	back, err := ParseRoleSet(s.Names())
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = ParseRoleSet([]string{"ROLE_USER", "nope"})
	assert.Error(t, err)
}
