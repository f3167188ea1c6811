package console

import (
	"fmt"
	"strconv"
)

func (c *Console) createUser(args []string) error {
	var username, password string
	fs := c.newFlagSet("create-user")
	stringFlag(fs, &username, "u", "username", "The username of the user you'd like to add.")
	stringFlag(fs, &password, "p", "password", "The password of the user you'd like to add.")
	if err := parse(fs, args); err != nil {
		return err
	}

	users, err := c.openUsers()
	if err != nil {
		return err
	}

	if username == "" {
		if username, err = c.askNonEmpty("Username"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = c.askNewPassword(); err != nil {
			return err
		}
	}

	if users.HasUser(username) {
		return fmt.Errorf("%w: a user with the username %q already exists", ErrOperation, username)
	}
	if !users.CreateUser(username, password) {
		return fmt.Errorf("%w: could not create the user %s", ErrOperation, username)
	}
	fmt.Fprintf(c.out, "Successfully created the user %s\n", username)
	return nil
}

func (c *Console) readUsers([]string) error {
	users, err := c.openUsers()
	if err != nil {
		return err
	}

	list := users.Users()
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No users found.")
		return nil
	}
	for _, u := range list {
		fmt.Fprintf(c.out, "Username: %s & Password: %s\n", u.Username, u.Password)
	}
	return nil
}

func (c *Console) readUser(args []string) error {
	var username string
	fs := c.newFlagSet("read-user")
	stringFlag(fs, &username, "u", "username", "The username of the user you'd like to see.")
	if err := parse(fs, args); err != nil {
		return err
	}

	users, err := c.openUsers()
	if err != nil {
		return err
	}
	if username == "" {
		if username, err = c.selectUser(users); err != nil {
			return err
		}
	}

	u, ok := users.User(username)
	if !ok {
		return fmt.Errorf("%w: there is no user by the username %s", ErrOperation, username)
	}
	fmt.Fprintf(c.out, "Username: %s & Password: %s\n", u.Username, u.Password)
	return nil
}

// updateUser edits the username, the password or both. A username change is
// propagated into every usergroup that lists the old name.
func (c *Console) updateUser(args []string) error {
	var username string
	fs := c.newFlagSet("update-user")
	stringFlag(fs, &username, "u", "username", "The username of the user you'd like to edit.")
	if err := parse(fs, args); err != nil {
		return err
	}

	users, groups, err := c.openBoth()
	if err != nil {
		return err
	}
	if username == "" {
		if username, err = c.selectUser(users); err != nil {
			return err
		}
	}
	if !users.HasUser(username) {
		return fmt.Errorf("%w: the given user does not exist", ErrOperation)
	}

	var field int
	for {
		fmt.Fprintln(c.out, "What fields of this user would you like to edit?")
		fmt.Fprintln(c.out, "[1] The username")
		fmt.Fprintln(c.out, "[2] The password")
		fmt.Fprintln(c.out, "[3] All above fields")
		answer, err := c.ask("")
		if err != nil {
			return err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= 3 {
			field = n
			break
		}
	}

	if field == 1 || field == 3 {
		for {
			newUsername, err := c.askNonEmpty("Please type the new username for this user")
			if err != nil {
				return err
			}
			if !users.UpdateUserUsername(username, newUsername) {
				fmt.Fprintln(c.out, "This username is already taken or not allowed!")
				continue
			}
			if !groups.UpdateUserInUsergroup(username, newUsername, users) {
				return fmt.Errorf("%w: renamed %s to %s but the usergroups still list %s", ErrOperation, username, newUsername, username)
			}
			fmt.Fprintf(c.out, "Successfully changed the username %s to %s!\n", username, newUsername)
			username = newUsername
			break
		}
	}

	if field == 2 || field == 3 {
		password, err := c.askNewPassword()
		if err != nil {
			return err
		}
		if !users.UpdateUserPassword(username, password) {
			return fmt.Errorf("%w: could not change the password of %s", ErrOperation, username)
		}
		fmt.Fprintf(c.out, "Successfully changed the password of %s!\n", username)
	}
	return nil
}

// deleteUser removes a user after confirmation. Usergroups that still list
// the username are reported but left unchanged.
func (c *Console) deleteUser(args []string) error {
	var username string
	var yes bool
	fs := c.newFlagSet("delete-user")
	stringFlag(fs, &username, "u", "username", "The username of the user you'd like to delete.")
	fs.BoolVar(&yes, "y", false, "Do not ask for confirmation.")
	if err := parse(fs, args); err != nil {
		return err
	}

	users, groups, err := c.openBoth()
	if err != nil {
		return err
	}
	if username == "" {
		if username, err = c.selectUser(users); err != nil {
			return err
		}
	}

	if !yes {
		ok, err := c.confirm("Are you sure you want to delete the user with username: " + username)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	if !users.DeleteUser(username) {
		return fmt.Errorf("%w: the user %s does not exist", ErrOperation, username)
	}
	fmt.Fprintf(c.out, "Successfully deleted user with username: %s\n", username)

	for _, g := range groups.UserGroups() {
		if g.HasUser(username) {
			fmt.Fprintf(c.out, "Note: the usergroup %s still lists %s\n", g.Name, username)
		}
	}
	return nil
}

func (c *Console) backupUsers(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: backup-users <file>", ErrUsage)
	}
	users, err := c.openUsers()
	if err != nil {
		return err
	}
	if err := users.Backup(args[0]); err != nil {
		return fmt.Errorf("backup users: %w", err)
	}
	fmt.Fprintf(c.out, "User database backed up to '%s' successfully!\n", args[0])
	return nil
}
