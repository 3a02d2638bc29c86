package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast(RoleAdmin, RoleMember))
	assert.True(t, AtLeast(RoleMember, RoleMember))
	assert.False(t, AtLeast(RoleMember, RoleAdmin))
	assert.False(t, AtLeast(99, RoleMember))
	assert.False(t, AtLeast(0, 0))

	assert.True(t, IsAdmin(RoleAdmin))
	assert.False(t, IsAdmin(RoleMember))
}
