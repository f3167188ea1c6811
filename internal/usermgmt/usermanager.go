package usermgmt

import (
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultUsersFile is used when NewUserManager gets an empty path.
const DefaultUsersFile = "users.yaml"

// UserManager creates, reads, updates and deletes users. It owns the user
// collection loaded from its backing file and rewrites the whole file after
// every successful change.
type UserManager struct {
	users []User
	store *yamlStore
	log   logrus.FieldLogger
	mutex sync.RWMutex
}

// NewUserManager creates a user manager backed by path and loads its users.
// If path is empty, it uses "users.yaml" in the current directory.
func NewUserManager(path string, opts ...Option) (*UserManager, error) {
	if path == "" {
		path = DefaultUsersFile
	}
	o := newOptions(opts)

	m := &UserManager{
		store: newYAMLStore(path),
		log:   o.log.WithField("file", path),
	}

	if _, err := m.ReadUsers(); err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the backing file path.
func (m *UserManager) Path() string {
	return m.store.path
}

// ReadUsers reloads all users from the backing file and returns them.
// A missing or empty file results in no users.
func (m *UserManager) ReadUsers() ([]User, error) {
	records, err := loadRecords[userRecord](m.store)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(records))
	for _, r := range records {
		if slices.ContainsFunc(users, func(u User) bool { return u.Username == r.Name }) {
			m.log.WithField("user", r.Name).Warn("duplicate username in users file, keeping the first entry")
			continue
		}
		users = append(users, User{Username: r.Name, Password: r.Value.Password})
	}

	m.mutex.Lock()
	m.users = users
	m.mutex.Unlock()

	return slices.Clone(users), nil
}

// Users returns a copy of the users in collection order.
func (m *UserManager) Users() []User {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return slices.Clone(m.users)
}

// User returns the user with the given username.
func (m *UserManager) User(username string) (User, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if i := m.indexOf(username); i >= 0 {
		return m.users[i], true
	}
	return User{}, false
}

// UserAt returns the user at the 1-based position used by numbered lists.
func (m *UserManager) UserAt(index int) (User, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if index < 1 || index > len(m.users) {
		return User{}, false
	}
	return m.users[index-1], true
}

// HasUser reports whether a user with the given username exists.
func (m *UserManager) HasUser(username string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.indexOf(username) >= 0
}

// CreateUser adds a user and saves the users file.
// It fails if username is empty, parses as an integer or is already taken.
func (m *UserManager) CreateUser(username, password string) bool {
	return report(m.log, "create_user", logrus.Fields{"user": username}, m.createUser(username, password))
}

// UpdateUserUsername renames a user. Usergroups are not updated; call
// UserGroupManager.UpdateUserInUsergroup afterwards to keep them in sync.
func (m *UserManager) UpdateUserUsername(oldUsername, newUsername string) bool {
	fields := logrus.Fields{"user": oldUsername, "new_user": newUsername}
	return report(m.log, "update_user_username", fields, m.updateUsername(oldUsername, newUsername))
}

// UpdateUserPassword replaces the password digest of a user.
func (m *UserManager) UpdateUserPassword(username, password string) bool {
	return report(m.log, "update_user_password", logrus.Fields{"user": username}, m.updatePassword(username, password))
}

// DeleteUser removes a user. The username is left in any usergroup that
// lists it.
func (m *UserManager) DeleteUser(username string) bool {
	return report(m.log, "delete_user", logrus.Fields{"user": username}, m.deleteUser(username))
}

// Backup copies the users file to dst.
func (m *UserManager) Backup(dst string) error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.store.backup(dst)
}

func (m *UserManager) createUser(username, password string) error {
	if err := validateName(username); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.indexOf(username) >= 0 {
		return fmt.Errorf("user '%s': %w", username, ErrNameCollision)
	}

	return m.apply(func() {
		m.users = append(m.users, NewUser(username, password))
	})
}

func (m *UserManager) updateUsername(oldUsername, newUsername string) error {
	if err := validateName(newUsername); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.indexOf(newUsername) >= 0 {
		return fmt.Errorf("user '%s': %w", newUsername, ErrNameCollision)
	}
	i := m.indexOf(oldUsername)
	if i < 0 {
		return fmt.Errorf("user '%s': %w", oldUsername, ErrNotFound)
	}

	return m.apply(func() {
		m.users[i].Username = newUsername
	})
}

func (m *UserManager) updatePassword(username, password string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	i := m.indexOf(username)
	if i < 0 {
		return fmt.Errorf("user '%s': %w", username, ErrNotFound)
	}

	return m.apply(func() {
		m.users[i].SetPassword(password)
	})
}

func (m *UserManager) deleteUser(username string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	i := m.indexOf(username)
	if i < 0 {
		return fmt.Errorf("user '%s': %w", username, ErrNotFound)
	}

	return m.apply(func() {
		m.users = slices.Delete(m.users, i, i+1)
	})
}

// apply runs mutate and saves the users file. If saving fails the previous
// collection is restored. Callers must hold the write lock.
func (m *UserManager) apply(mutate func()) error {
	previous := slices.Clone(m.users)

	mutate()

	if err := m.save(); err != nil {
		m.users = previous
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

func (m *UserManager) save() error {
	records := make([]record[userRecord], 0, len(m.users))
	for _, u := range m.users {
		records = append(records, record[userRecord]{Name: u.Username, Value: userRecord{Password: u.Password}})
	}
	return saveRecords(m.store, records)
}

func (m *UserManager) indexOf(username string) int {
	return slices.IndexFunc(m.users, func(u User) bool { return u.Username == username })
}
