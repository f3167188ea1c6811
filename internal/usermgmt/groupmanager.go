package usermgmt

import (
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultGroupsFile is used when NewUserGroupManager gets an empty path.
const DefaultGroupsFile = "groups.yaml"

// UserGroupManager creates, reads, updates and deletes usergroups. Membership
// operations that take a *UserGroup expect a group returned by this manager.
type UserGroupManager struct {
	groups []*UserGroup
	store  *yamlStore
	log    logrus.FieldLogger
	mutex  sync.RWMutex
}

// NewUserGroupManager creates a usergroup manager backed by path and loads
// its usergroups. If path is empty, it uses "groups.yaml" in the current directory.
func NewUserGroupManager(path string, opts ...Option) (*UserGroupManager, error) {
	if path == "" {
		path = DefaultGroupsFile
	}
	o := newOptions(opts)

	m := &UserGroupManager{
		store: newYAMLStore(path),
		log:   o.log.WithField("file", path),
	}

	if _, err := m.ReadGroups(); err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the backing file path.
func (m *UserGroupManager) Path() string {
	return m.store.path
}

// ReadGroups reloads all usergroups from the backing file and returns copies
// of them. Pointers previously returned by Group or GroupAt are no longer
// owned by the manager afterwards.
func (m *UserGroupManager) ReadGroups() ([]UserGroup, error) {
	records, err := loadRecords[groupRecord](m.store)
	if err != nil {
		return nil, err
	}

	groups := make([]*UserGroup, 0, len(records))
	for _, r := range records {
		if slices.ContainsFunc(groups, func(g *UserGroup) bool { return g.Name == r.Name }) {
			m.log.WithField("group", r.Name).Warn("duplicate usergroup in groups file, keeping the first entry")
			continue
		}
		g := NewUserGroup(r.Name)
		g.Users = append(g.Users, r.Value.Users...)
		g.Groups = append(g.Groups, r.Value.Groups...)
		groups = append(groups, g)
	}

	m.mutex.Lock()
	m.groups = groups
	m.mutex.Unlock()

	return copyGroups(groups), nil
}

// UserGroups returns copies of the usergroups in collection order.
func (m *UserGroupManager) UserGroups() []UserGroup {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return copyGroups(m.groups)
}

// Group returns the usergroup with the given name, or nil.
//
// The result is the manager's own record. Treat it as a handle: read it, or
// pass it back to the membership operations of the same manager. Calling its
// mutating methods directly skips validation, locking and saving. Use
// UserGroups for copies that are safe to modify.
func (m *UserGroupManager) Group(name string) *UserGroup {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if i := m.indexOf(name); i >= 0 {
		return m.groups[i]
	}
	return nil
}

// GroupAt returns the usergroup at the 1-based position used by numbered
// lists, or nil. The result is the same handle Group returns.
func (m *UserGroupManager) GroupAt(index int) *UserGroup {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if index < 1 || index > len(m.groups) {
		return nil
	}
	return m.groups[index-1]
}

// HasGroup reports whether a usergroup with the given name exists.
func (m *UserGroupManager) HasGroup(name string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.indexOf(name) >= 0
}

// CreateGroup adds an empty usergroup and saves the groups file.
func (m *UserGroupManager) CreateGroup(name string) bool {
	return report(m.log, "create_group", logrus.Fields{"group": name}, m.createGroup(name))
}

// DeleteUsergroup removes the usergroup with the given name.
func (m *UserGroupManager) DeleteUsergroup(name string) bool {
	return report(m.log, "delete_usergroup", logrus.Fields{"group": name}, m.deleteGroup(name))
}

// UpdateUsergroupName renames a usergroup, keeping its member lists.
func (m *UserGroupManager) UpdateUsergroupName(oldName, newName string) bool {
	fields := logrus.Fields{"group": oldName, "new_group": newName}
	return report(m.log, "update_usergroup_name", fields, m.renameGroup(oldName, newName))
}

// AddUserToUsergroup adds username to group. The user must exist in users
// and must not be a member yet.
func (m *UserGroupManager) AddUserToUsergroup(username string, group *UserGroup, users *UserManager) bool {
	fields := logrus.Fields{"user": username, "group": groupName(group)}
	return report(m.log, "add_user_to_usergroup", fields, m.addUser(username, group, users))
}

// RemoveUserFromUsergroup removes username from group.
func (m *UserGroupManager) RemoveUserFromUsergroup(username string, group *UserGroup) bool {
	fields := logrus.Fields{"user": username, "group": groupName(group)}
	return report(m.log, "remove_user_from_usergroup", fields, m.removeUser(username, group))
}

// AddGroupToUsergroup adds an access group to group. Access group
// identifiers are not validated.
func (m *UserGroupManager) AddGroupToUsergroup(accessGroup string, group *UserGroup) bool {
	fields := logrus.Fields{"access_group": accessGroup, "group": groupName(group)}
	return report(m.log, "add_group_to_usergroup", fields, m.addAccessGroup(accessGroup, group))
}

// RemoveGroupFromUsergroup removes an access group from group.
func (m *UserGroupManager) RemoveGroupFromUsergroup(accessGroup string, group *UserGroup) bool {
	fields := logrus.Fields{"access_group": accessGroup, "group": groupName(group)}
	return report(m.log, "remove_group_from_usergroup", fields, m.removeAccessGroup(accessGroup, group))
}

// UpdateUserInUsergroup replaces the first occurrence of oldUsername with
// newUsername in every usergroup. It is the second half of a user rename:
// newUsername must already exist in users. The groups file is saved once
// after the scan, and only if some usergroup listed oldUsername; when none
// did, nothing is written and the call still succeeds.
func (m *UserGroupManager) UpdateUserInUsergroup(oldUsername, newUsername string, users *UserManager) bool {
	fields := logrus.Fields{"user": oldUsername, "new_user": newUsername}
	return report(m.log, "update_user_in_usergroup", fields, m.replaceUser(oldUsername, newUsername, users))
}

// Backup copies the groups file to dst.
func (m *UserGroupManager) Backup(dst string) error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.store.backup(dst)
}

func (m *UserGroupManager) createGroup(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.indexOf(name) >= 0 {
		return fmt.Errorf("usergroup '%s': %w", name, ErrNameCollision)
	}

	return m.apply(func() {
		m.groups = append(m.groups, NewUserGroup(name))
	})
}

func (m *UserGroupManager) deleteGroup(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	i := m.indexOf(name)
	if i < 0 {
		return fmt.Errorf("usergroup '%s': %w", name, ErrNotFound)
	}

	return m.apply(func() {
		m.groups = slices.Delete(m.groups, i, i+1)
	})
}

func (m *UserGroupManager) renameGroup(oldName, newName string) error {
	if err := validateName(newName); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.indexOf(newName) >= 0 {
		return fmt.Errorf("usergroup '%s': %w", newName, ErrNameCollision)
	}
	i := m.indexOf(oldName)
	if i < 0 {
		return fmt.Errorf("usergroup '%s': %w", oldName, ErrNotFound)
	}

	return m.apply(func() {
		m.groups[i].SetName(newName)
	})
}

func (m *UserGroupManager) addUser(username string, group *UserGroup, users *UserManager) error {
	if users == nil || !users.HasUser(username) {
		return fmt.Errorf("user '%s': %w", username, ErrNotFound)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.owned(group); err != nil {
		return err
	}
	if group.HasUser(username) {
		return fmt.Errorf("user '%s' in usergroup '%s': %w", username, group.Name, ErrAlreadyMember)
	}

	return m.apply(func() {
		group.AddUser(username)
	})
}

func (m *UserGroupManager) removeUser(username string, group *UserGroup) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.owned(group); err != nil {
		return err
	}
	if !group.HasUser(username) {
		return fmt.Errorf("user '%s' in usergroup '%s': %w", username, group.Name, ErrNotAMember)
	}

	return m.apply(func() {
		group.RemoveUser(username)
	})
}

func (m *UserGroupManager) addAccessGroup(accessGroup string, group *UserGroup) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.owned(group); err != nil {
		return err
	}
	if group.HasGroup(accessGroup) {
		return fmt.Errorf("group '%s' in usergroup '%s': %w", accessGroup, group.Name, ErrAlreadyMember)
	}

	return m.apply(func() {
		group.AddGroup(accessGroup)
	})
}

func (m *UserGroupManager) removeAccessGroup(accessGroup string, group *UserGroup) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.owned(group); err != nil {
		return err
	}
	if !group.HasGroup(accessGroup) {
		return fmt.Errorf("group '%s' in usergroup '%s': %w", accessGroup, group.Name, ErrNotAMember)
	}

	return m.apply(func() {
		group.RemoveGroup(accessGroup)
	})
}

func (m *UserGroupManager) replaceUser(oldUsername, newUsername string, users *UserManager) error {
	if users == nil || !users.HasUser(newUsername) {
		return fmt.Errorf("user '%s': %w", newUsername, ErrNotFound)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	changed := false
	for _, g := range m.groups {
		if slices.Contains(g.Users, oldUsername) {
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	return m.apply(func() {
		for _, g := range m.groups {
			if i := slices.Index(g.Users, oldUsername); i >= 0 {
				g.Users[i] = newUsername
			}
		}
	})
}

// apply runs mutate and saves the groups file. If saving fails every
// usergroup is restored in place, so pointers held by callers stay valid.
// Callers must hold the write lock.
func (m *UserGroupManager) apply(mutate func()) error {
	previous := slices.Clone(m.groups)
	values := make([]UserGroup, len(previous))
	for i, g := range previous {
		values[i] = g.clone()
	}

	mutate()

	if err := m.save(); err != nil {
		m.groups = previous
		for i, g := range previous {
			*g = values[i]
		}
		return fmt.Errorf("failed to save usergroups: %w", err)
	}
	return nil
}

func (m *UserGroupManager) save() error {
	records := make([]record[groupRecord], 0, len(m.groups))
	for _, g := range m.groups {
		records = append(records, record[groupRecord]{
			Name:  g.Name,
			Value: groupRecord{Users: g.Users, Groups: g.Groups},
		})
	}
	return saveRecords(m.store, records)
}

// owned checks that group is one of this manager's usergroups.
func (m *UserGroupManager) owned(group *UserGroup) error {
	if group == nil || !slices.Contains(m.groups, group) {
		return fmt.Errorf("usergroup '%s': %w", groupName(group), ErrNotFound)
	}
	return nil
}

func (m *UserGroupManager) indexOf(name string) int {
	return slices.IndexFunc(m.groups, func(g *UserGroup) bool { return g.Name == name })
}

func groupName(group *UserGroup) string {
	if group == nil {
		return ""
	}
	return group.Name
}

func copyGroups(groups []*UserGroup) []UserGroup {
	out := make([]UserGroup, len(groups))
	for i, g := range groups {
		out[i] = g.clone()
	}
	return out
}
