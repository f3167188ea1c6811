// Package main is the entry point for the hass-users application.
//
// This package provides the command-line interface (CLI) for managing the
// users and usergroups of a home automation installation. Every command loads
// the backing files, runs one operation and exits, which keeps it suitable
// for scripting as well as interactive administration.
//
// Usage:
//
//	hass-users create-user -u alice           # Add a user, prompting for the password
//	hass-users read-groups                    # List usergroups with their members
//	hass-users add-user-to-usergroup          # Pick a user and a usergroup from numbered lists
//	hass-users shell                          # Launch the interactive shell
//	hass-users init-config                    # Write the effective settings to the config file
//	hass-users help                           # Show help
//
// Global flags select the config file (-config), override the backing files
// (-users, -groups) and enable debug logging (-debug).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"hass-users/internal/config"
	"hass-users/internal/console"
	"hass-users/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var configPath, usersFile, groupsFile string
	var debug bool

	fs := flag.NewFlagSet("hass-users", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "Path of the INI config file.")
	fs.StringVar(&usersFile, "users", "", "Path of the users file.")
	fs.StringVar(&groupsFile, "groups", "", "Path of the usergroups file.")
	fs.BoolVar(&debug, "debug", false, "Log every operation.")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if usersFile != "" {
		cfg.UsersFile = usersFile
	}
	if groupsFile != "" {
		cfg.GroupsFile = groupsFile
	}
	if debug {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}

	rest := fs.Args()
	if len(rest) > 0 && rest[0] == "init-config" {
		return initConfig(cfg, configPath, stdout, stderr)
	}

	log.WithFields(logrus.Fields{
		"users":  cfg.UsersFile,
		"groups": cfg.GroupsFile,
	}).Debug("backing files")

	c := console.New(console.Paths{Users: cfg.UsersFile, Groups: cfg.GroupsFile}, stdin, stdout, log)
	if err := c.Run(rest); err != nil {
		switch {
		case errors.Is(err, console.ErrUnknownCommand):
			fmt.Fprintf(stderr, "Unknown command: %s\n", rest[0])
			c.PrintHelp()
		case errors.Is(err, console.ErrUsage) && len(rest) == 0:
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// initConfig writes cfg to path, or to the default config location when
// path is empty.
func initConfig(cfg *config.Config, path string, stdout, stderr io.Writer) int {
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		path = p
	}
	if err := cfg.Save(path); err != nil {
		fmt.Fprintf(stderr, "Error writing config: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Configuration written to '%s'\n", path)
	return 0
}
