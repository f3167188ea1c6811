package console

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hass-users/internal/usermgmt"
)

// ask prints prompt and reads one line. If EOF occurs after some input was
// read, the partial line is returned.
func (c *Console) ask(prompt string) (string, error) {
	if _, err := fmt.Fprintf(c.out, "%s: ", prompt); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askNonEmpty repeats prompt until a non-empty answer is given.
func (c *Console) askNonEmpty(prompt string) (string, error) {
	for {
		answer, err := c.ask(prompt)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// askPassword reads a password, without echo when the console is attached
// to a terminal.
func (c *Console) askPassword(prompt string) (string, error) {
	if c.tty < 0 {
		return c.ask(prompt)
	}
	if _, err := fmt.Fprintf(c.out, "%s: ", prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(c.tty)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// askNewPassword reads a password twice and repeats until both match.
func (c *Console) askNewPassword() (string, error) {
	for {
		password, err := c.askPassword("Password")
		if err != nil {
			return "", err
		}
		confirm, err := c.askPassword("Repeat for confirmation")
		if err != nil {
			return "", err
		}
		if password == confirm {
			return password, nil
		}
		fmt.Fprintln(c.out, "Error: the two entered values do not match")
	}
}

// confirm asks a yes/no question; anything but y/yes counts as no.
func (c *Console) confirm(question string) (bool, error) {
	answer, err := c.ask(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// selectUser prints the numbered user list and reads a username or a
// 1-based index.
func (c *Console) selectUser(users *usermgmt.UserManager) (string, error) {
	list := users.Users()
	names := make([]string, len(list))
	for i, u := range list {
		names[i] = u.Username
	}

	return c.choose("user", names,
		func(i int) (string, bool) {
			u, ok := users.UserAt(i)
			return u.Username, ok
		},
		users.HasUser,
	)
}

// selectGroup prints the numbered usergroup list and reads a name or a
// 1-based index.
func (c *Console) selectGroup(groups *usermgmt.UserGroupManager) (string, error) {
	list := groups.UserGroups()
	names := make([]string, len(list))
	for i, g := range list {
		names[i] = g.Name
	}

	return c.choose("usergroup", names,
		func(i int) (string, bool) {
			if g := groups.GroupAt(i); g != nil {
				return g.Name, true
			}
			return "", false
		},
		groups.HasGroup,
	)
}

// choose implements numbered selection. Names can never parse as integers,
// so an integer answer is always an index.
func (c *Console) choose(noun string, names []string, at func(int) (string, bool), exists func(string) bool) (string, error) {
	if len(names) == 0 {
		if noun == "user" {
			return "", ErrNoUsers
		}
		return "", ErrNoGroups
	}

	for i, name := range names {
		fmt.Fprintf(c.out, "[%d] %s\n", i+1, name)
	}

	for {
		answer, err := c.askNonEmpty(fmt.Sprintf("Please type the name of the %s you'd like to use", noun))
		if err != nil {
			return "", err
		}

		if usermgmt.IsInteger(answer) {
			if n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(answer), "_", "")); err == nil {
				if name, ok := at(n); ok {
					return name, nil
				}
			}
			fmt.Fprintf(c.out, "%s is not a valid number!\n", answer)
			continue
		}

		if exists(answer) {
			return answer, nil
		}
		fmt.Fprintf(c.out, "The given %s does not exist!\n", noun)
	}
}

// newFlagSet creates a flag set whose errors are returned instead of exiting.
func (c *Console) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

// stringFlag registers a flag under a short and a long name.
func stringFlag(fs *flag.FlagSet, p *string, short, long, usage string) {
	fs.StringVar(p, short, "", usage)
	fs.StringVar(p, long, "", usage)
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}
