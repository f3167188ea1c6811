package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"hass-users/internal/usermgmt"
)

var (
	ErrUsage          = errors.New("invalid usage")
	ErrAborted        = errors.New("aborted")
	ErrNoUsers        = errors.New("there are no users")
	ErrNoGroups       = errors.New("there are no usergroups")
	ErrOperation      = errors.New("operation failed")
	ErrUnknownCommand = errors.New("unknown command")
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Paths names the backing files the console operates on.
type Paths struct {
	Users  string
	Groups string
}

// Console runs hass-users commands against the backing files in Paths,
// reading answers from in and writing results to out.
type Console struct {
	paths Paths
	log   logrus.FieldLogger
	in    *bufio.Reader
	out   io.Writer
	tty   int
}

// New creates a console. Passwords are read without echo when in is a terminal.
func New(paths Paths, in io.Reader, out io.Writer, log logrus.FieldLogger) *Console {
	c := &Console{
		paths: paths,
		log:   log,
		in:    bufio.NewReader(in),
		out:   out,
		tty:   -1,
	}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		c.tty = int(f.Fd())
	}
	return c
}

type command struct {
	name  string
	usage string
	help  string
	run   func(c *Console, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"create-user", "-u <username> [-p <password>]", "Create a user", (*Console).createUser},
		{"read-users", "", "List all users", (*Console).readUsers},
		{"read-user", "[-u <username>]", "Show one user", (*Console).readUser},
		{"update-user", "[-u <username>]", "Change the username and/or password of a user", (*Console).updateUser},
		{"delete-user", "[-u <username>] [-y]", "Delete a user", (*Console).deleteUser},
		{"create-usergroup", "-ug <name>", "Create a usergroup", (*Console).createUsergroup},
		{"read-groups", "", "List all usergroups with their members", (*Console).readGroups},
		{"read-group", "[-ug <name>]", "Show one usergroup", (*Console).readGroup},
		{"update-usergroup-name", "[-ug <name>] -n <new-name>", "Rename a usergroup", (*Console).updateUsergroupName},
		{"delete-usergroup", "[-ug <name>] [-y]", "Delete a usergroup", (*Console).deleteUsergroup},
		{"add-user-to-usergroup", "[-u <username>] [-ug <name>]", "Add a user to a usergroup", (*Console).addUserToUsergroup},
		{"remove-user-from-usergroup", "[-u <username>] [-ug <name>]", "Remove a user from a usergroup", (*Console).removeUserFromUsergroup},
		{"add-group-to-usergroup", "-g <group> [-ug <name>]", "Add an access group to a usergroup", (*Console).addGroupToUsergroup},
		{"remove-group-from-usergroup", "-g <group> [-ug <name>]", "Remove an access group from a usergroup", (*Console).removeGroupFromUsergroup},
		{"backup-users", "<file>", "Copy the users file", (*Console).backupUsers},
		{"backup-groups", "<file>", "Copy the groups file", (*Console).backupGroups},
		{"shell", "", "Interactive user management shell", (*Console).shell},
		{"help", "", "Show this help", (*Console).help},
	}
}

// Run executes the command named by args[0] with the remaining arguments.
func (c *Console) Run(args []string) error {
	if len(args) == 0 {
		c.PrintHelp()
		return ErrUsage
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(c, args[1:])
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
}

// PrintHelp displays help information for all commands.
func (c *Console) PrintHelp() {
	fmt.Fprintln(c.out, "Creates, updates, reads and deletes users and usergroups.")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Commands:")
	for _, cmd := range commands {
		line := cmd.name
		if cmd.usage != "" {
			line += " " + cmd.usage
		}
		fmt.Fprintf(c.out, "  %-52s - %s\n", line, cmd.help)
	}
}

func (c *Console) help([]string) error {
	c.PrintHelp()
	return nil
}

// shell runs an interactive loop accepting the same commands as Run.
func (c *Console) shell([]string) error {
	fmt.Fprintln(c.out, "hass-users user management")
	fmt.Fprintln(c.out, "Type 'help' for available commands or 'quit' to exit.")

	for {
		fmt.Fprint(c.out, "hass-users> ")
		input, err := c.in.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			if strings.TrimSpace(input) == "" {
				fmt.Fprintln(c.out)
				return nil
			}
		}

		parts := strings.Fields(input)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "quit", "exit":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		case "shell":
			continue
		}

		if err := c.Run(parts); err != nil {
			if errors.Is(err, ErrUnknownCommand) {
				fmt.Fprintf(c.out, "Unknown command: %s\n", parts[0])
				fmt.Fprintln(c.out, "Type 'help' for available commands.")
				continue
			}
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}

func (c *Console) openUsers() (*usermgmt.UserManager, error) {
	return usermgmt.NewUserManager(c.paths.Users, usermgmt.WithLogger(c.log))
}

func (c *Console) openGroups() (*usermgmt.UserGroupManager, error) {
	return usermgmt.NewUserGroupManager(c.paths.Groups, usermgmt.WithLogger(c.log))
}

func (c *Console) openBoth() (*usermgmt.UserManager, *usermgmt.UserGroupManager, error) {
	users, err := c.openUsers()
	if err != nil {
		return nil, nil, err
	}
	groups, err := c.openGroups()
	if err != nil {
		return nil, nil, err
	}
	return users, groups, nil
}
