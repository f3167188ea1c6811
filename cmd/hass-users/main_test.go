package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hass-users/internal/config"
	"hass-users/internal/usermgmt"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(config.EnvUsersFile, "")
	t.Setenv(config.EnvGroupsFile, "")
	t.Setenv(config.EnvLogLevel, "")
	return dir
}

func TestRun_CreatesUserInConfigDir(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"create-user", "-u", "alice", "-p", "pw1"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Successfully created the user alice")

	m, err := usermgmt.NewUserManager(filepath.Join(dir, "hass-users", "users.yaml"))
	require.NoError(t, err)
	assert.True(t, m.HasUser("alice"))
}

func TestRun_FlagOverrides(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	users := filepath.Join(dir, "u.yaml")
	groups := filepath.Join(dir, "g.yaml")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-users", users, "-groups", groups, "-debug", "create-usergroup", "-ug", "admins"},
		strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stderr.String(), "level=debug")

	m, err := usermgmt.NewUserGroupManager(groups)
	require.NoError(t, err)
	assert.True(t, m.HasGroup("admins"))
}

func TestRun_Failures(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run([]string{"frobnicate"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Unknown command: frobnicate")
	assert.Contains(t, stdout.String(), "Commands:")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"read-user", "-u", "ghost"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error: operation failed")

	assert.Equal(t, 1, run(nil, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"-nope"}, strings.NewReader(""), &stdout, &stderr))
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.ini")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = loud\nformat = xml\n"), 0o600))
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run([]string{"-config", path, "read-users"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Invalid configuration")
	assert.Contains(t, stderr.String(), "2 errors occurred")
}

func TestRun_InitConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.ini")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", path, "-users", "/srv/users.yaml", "init-config"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/users.yaml", cfg.UsersFile)
}
