package usermgmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserGroup_Membership(t *testing.T) {
	g := NewUserGroup("admins")

	assert.Empty(t, g.Users)
	assert.Empty(t, g.Groups)

	g.AddUser("alice")
	g.AddUser("bob")
	g.AddGroup("group.kitchen")

	assert.True(t, g.HasUser("alice"))
	assert.False(t, g.HasUser("carol"))
	assert.True(t, g.HasGroup("group.kitchen"))
	assert.Equal(t, []string{"alice", "bob"}, g.Users)

	assert.True(t, g.RemoveUser("alice"))
	assert.False(t, g.RemoveUser("alice"))
	assert.Equal(t, []string{"bob"}, g.Users)

	assert.True(t, g.RemoveGroup("group.kitchen"))
	assert.False(t, g.RemoveGroup("group.kitchen"))
	assert.Empty(t, g.Groups)
}

func TestUserGroup_RemoveFirstOccurrenceOnly(t *testing.T) {
	g := &UserGroup{Name: "g", Users: []string{"a", "b", "a"}}

	assert.True(t, g.RemoveUser("a"))
	assert.Equal(t, []string{"b", "a"}, g.Users)
}

func TestUserGroup_CloneIsDeep(t *testing.T) {
	g := &UserGroup{Name: "g", Users: []string{"a"}, Groups: []string{"x"}}
	c := g.clone()

	g.Users[0] = "changed"
	g.SetName("renamed")

	assert.Equal(t, "g", c.Name)
	assert.Equal(t, []string{"a"}, c.Users)
	assert.Equal(t, []string{"x"}, c.Groups)
}
