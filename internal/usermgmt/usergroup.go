package usermgmt

import "slices"

// UserGroup stores usernames and the access groups they may use.
//
// Users holds usernames by value. A username stays in the list after the
// user is deleted from the UserManager.
type UserGroup struct {
	Name   string
	Users  []string
	Groups []string
}

// NewUserGroup creates an empty usergroup.
func NewUserGroup(name string) *UserGroup {
	return &UserGroup{Name: name, Users: []string{}, Groups: []string{}}
}

// SetName renames the usergroup.
func (g *UserGroup) SetName(name string) {
	g.Name = name
}

// HasUser reports whether username is listed in the usergroup.
func (g *UserGroup) HasUser(username string) bool {
	return slices.Contains(g.Users, username)
}

// HasGroup reports whether the access group is listed in the usergroup.
func (g *UserGroup) HasGroup(group string) bool {
	return slices.Contains(g.Groups, group)
}

// AddUser appends username to the member list.
func (g *UserGroup) AddUser(username string) {
	g.Users = append(g.Users, username)
}

// AddGroup appends an access group.
func (g *UserGroup) AddGroup(group string) {
	g.Groups = append(g.Groups, group)
}

// RemoveUser removes the first occurrence of username.
// It returns false if username is not listed.
func (g *UserGroup) RemoveUser(username string) bool {
	return removeFirst(&g.Users, username)
}

// RemoveGroup removes the first occurrence of the access group.
// It returns false if the group is not listed.
func (g *UserGroup) RemoveGroup(group string) bool {
	return removeFirst(&g.Groups, group)
}

// clone returns a deep copy so a failed save can restore the previous state.
func (g *UserGroup) clone() UserGroup {
	return UserGroup{
		Name:   g.Name,
		Users:  slices.Clone(g.Users),
		Groups: slices.Clone(g.Groups),
	}
}

func removeFirst(list *[]string, value string) bool {
	i := slices.Index(*list, value)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}
