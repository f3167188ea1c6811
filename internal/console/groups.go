package console

import (
	"fmt"
	"strings"

	"hass-users/internal/usermgmt"
)

func (c *Console) createUsergroup(args []string) error {
	var name string
	fs := c.newFlagSet("create-usergroup")
	stringFlag(fs, &name, "ug", "user-group", "The name of the group you'd like to add.")
	if err := parse(fs, args); err != nil {
		return err
	}

	groups, err := c.openGroups()
	if err != nil {
		return err
	}
	if name == "" {
		if name, err = c.askNonEmpty("User group"); err != nil {
			return err
		}
	}

	if !groups.CreateGroup(name) {
		if groups.HasGroup(name) {
			return fmt.Errorf("%w: a group with the name %q already exists", ErrOperation, name)
		}
		return fmt.Errorf("%w: could not create the group %s", ErrOperation, name)
	}
	fmt.Fprintf(c.out, "Successfully created a group with the name %s\n", name)
	return nil
}

func (c *Console) readGroups([]string) error {
	groups, err := c.openGroups()
	if err != nil {
		return err
	}

	list := groups.UserGroups()
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No usergroups found.")
		return nil
	}
	for _, g := range list {
		c.printGroup(g)
	}
	return nil
}

func (c *Console) readGroup(args []string) error {
	var name string
	fs := c.newFlagSet("read-group")
	stringFlag(fs, &name, "ug", "user-group", "The name of the group you'd like to read the data from.")
	if err := parse(fs, args); err != nil {
		return err
	}

	groups, err := c.openGroups()
	if err != nil {
		return err
	}
	if name == "" {
		if name, err = c.selectGroup(groups); err != nil {
			return err
		}
	}

	g := groups.Group(name)
	if g == nil {
		return fmt.Errorf("%w: there is no group by the groupname %s", ErrOperation, name)
	}
	c.printGroup(*g)
	return nil
}

func (c *Console) printGroup(g usermgmt.UserGroup) {
	fmt.Fprintln(c.out, "------")
	fmt.Fprintf(c.out, "Name of the usergroup: %s\n", g.Name)
	fmt.Fprintf(c.out, "Users in this usergroup: [%s]\n", strings.Join(g.Users, ", "))
	fmt.Fprintf(c.out, "Access groups in this usergroup: [%s]\n", strings.Join(g.Groups, ", "))
}

func (c *Console) updateUsergroupName(args []string) error {
	var name, newName string
	fs := c.newFlagSet("update-usergroup-name")
	stringFlag(fs, &name, "ug", "user-group", "The name of the usergroup you'd like to update.")
	stringFlag(fs, &newName, "n", "new-name", "The new name of this usergroup.")
	if err := parse(fs, args); err != nil {
		return err
	}

	groups, err := c.openGroups()
	if err != nil {
		return err
	}
	if name == "" {
		if name, err = c.selectGroup(groups); err != nil {
			return err
		}
	}
	if !groups.HasGroup(name) {
		return fmt.Errorf("%w: there is no usergroup with the name %s", ErrOperation, name)
	}
	if newName == "" {
		if newName, err = c.askNonEmpty("New name"); err != nil {
			return err
		}
	}

	if !groups.UpdateUsergroupName(name, newName) {
		if usermgmt.IsInteger(newName) {
			return fmt.Errorf("%w: an integer as usergroup name is not supported", ErrOperation)
		}
		return fmt.Errorf("%w: there is already a group named %s", ErrOperation, newName)
	}
	fmt.Fprintf(c.out, "The group %s has successfully been renamed to %s.\n", name, newName)
	return nil
}

func (c *Console) deleteUsergroup(args []string) error {
	var name string
	var yes bool
	fs := c.newFlagSet("delete-usergroup")
	stringFlag(fs, &name, "ug", "user-group", "The name of the usergroup you'd like to delete.")
	fs.BoolVar(&yes, "y", false, "Do not ask for confirmation.")
	if err := parse(fs, args); err != nil {
		return err
	}

	groups, err := c.openGroups()
	if err != nil {
		return err
	}
	if name == "" {
		if name, err = c.selectGroup(groups); err != nil {
			return err
		}
	}

	if !yes {
		ok, err := c.confirm("Are you sure you want to delete the usergroup with name: " + name)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	if !groups.DeleteUsergroup(name) {
		return fmt.Errorf("%w: the usergroup %s does not exist", ErrOperation, name)
	}
	fmt.Fprintf(c.out, "Successfully deleted the group with name: %s\n", name)
	return nil
}

// membership resolves the username and usergroup for the user membership
// commands, prompting for whichever was not given.
func (c *Console) membership(name string, args []string) (string, *usermgmt.UserGroup, *usermgmt.UserManager, *usermgmt.UserGroupManager, error) {
	var username, groupName string
	fs := c.newFlagSet(name)
	stringFlag(fs, &username, "u", "username", "The username of the user.")
	stringFlag(fs, &groupName, "ug", "user-group", "The name of the usergroup you'd like to update.")
	if err := parse(fs, args); err != nil {
		return "", nil, nil, nil, err
	}

	users, groups, err := c.openBoth()
	if err != nil {
		return "", nil, nil, nil, err
	}
	if username == "" {
		if username, err = c.selectUser(users); err != nil {
			return "", nil, nil, nil, err
		}
	}
	if groupName == "" {
		if groupName, err = c.selectGroup(groups); err != nil {
			return "", nil, nil, nil, err
		}
	}

	if !users.HasUser(username) {
		return "", nil, nil, nil, fmt.Errorf("%w: the user %s does not exist", ErrOperation, username)
	}
	group := groups.Group(groupName)
	if group == nil {
		return "", nil, nil, nil, fmt.Errorf("%w: there is no usergroup with the name %s", ErrOperation, groupName)
	}
	return username, group, users, groups, nil
}

func (c *Console) addUserToUsergroup(args []string) error {
	username, group, users, groups, err := c.membership("add-user-to-usergroup", args)
	if err != nil {
		return err
	}

	if !groups.AddUserToUsergroup(username, group, users) {
		return fmt.Errorf("%w: the user %s is already in the usergroup %s", ErrOperation, username, group.Name)
	}
	fmt.Fprintf(c.out, "The user %s has successfully been added to the usergroup %s.\n", username, group.Name)
	return nil
}

func (c *Console) removeUserFromUsergroup(args []string) error {
	username, group, _, groups, err := c.membership("remove-user-from-usergroup", args)
	if err != nil {
		return err
	}

	if !groups.RemoveUserFromUsergroup(username, group) {
		return fmt.Errorf("%w: the user %s is not in the usergroup %s", ErrOperation, username, group.Name)
	}
	fmt.Fprintf(c.out, "The user %s has successfully been removed from the usergroup %s.\n", username, group.Name)
	return nil
}

// accessGroup resolves the access group and usergroup for the access group
// membership commands.
func (c *Console) accessGroup(name string, args []string) (string, *usermgmt.UserGroup, *usermgmt.UserGroupManager, error) {
	var accessGroup, groupName string
	fs := c.newFlagSet(name)
	stringFlag(fs, &accessGroup, "g", "groupname", "The name of the access group.")
	stringFlag(fs, &groupName, "ug", "user-group", "The name of the usergroup you'd like to update.")
	if err := parse(fs, args); err != nil {
		return "", nil, nil, err
	}

	groups, err := c.openGroups()
	if err != nil {
		return "", nil, nil, err
	}
	if accessGroup == "" {
		if accessGroup, err = c.askNonEmpty("Groupname"); err != nil {
			return "", nil, nil, err
		}
	}
	if groupName == "" {
		if groupName, err = c.selectGroup(groups); err != nil {
			return "", nil, nil, err
		}
	}

	group := groups.Group(groupName)
	if group == nil {
		return "", nil, nil, fmt.Errorf("%w: there is no usergroup with the name %s", ErrOperation, groupName)
	}
	return accessGroup, group, groups, nil
}

func (c *Console) addGroupToUsergroup(args []string) error {
	accessGroup, group, groups, err := c.accessGroup("add-group-to-usergroup", args)
	if err != nil {
		return err
	}

	if !groups.AddGroupToUsergroup(accessGroup, group) {
		return fmt.Errorf("%w: the group %s is already in the usergroup %s", ErrOperation, accessGroup, group.Name)
	}
	fmt.Fprintf(c.out, "The group %s has successfully been added to the usergroup %s.\n", accessGroup, group.Name)
	return nil
}

func (c *Console) removeGroupFromUsergroup(args []string) error {
	accessGroup, group, groups, err := c.accessGroup("remove-group-from-usergroup", args)
	if err != nil {
		return err
	}

	if !groups.RemoveGroupFromUsergroup(accessGroup, group) {
		return fmt.Errorf("%w: the group %s is not in the usergroup %s", ErrOperation, accessGroup, group.Name)
	}
	fmt.Fprintf(c.out, "The group %s has successfully been removed from the usergroup %s.\n", accessGroup, group.Name)
	return nil
}

func (c *Console) backupGroups(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: backup-groups <file>", ErrUsage)
	}
	groups, err := c.openGroups()
	if err != nil {
		return err
	}
	if err := groups.Backup(args[0]); err != nil {
		return fmt.Errorf("backup usergroups: %w", err)
	}
	fmt.Fprintf(c.out, "Usergroup database backed up to '%s' successfully!\n", args[0])
	return nil
}
