// Package console implements the hass-users command surface on top of usermgmt.
//
// Features:
//   - One subcommand per record operation (create-user, add-user-to-usergroup, ...)
//   - Numbered selection when a username or usergroup name is not given
//   - Hidden password prompts with confirmation on terminals
//   - Confirmation before deletes
//   - An interactive shell accepting the same subcommands
//
// Each subcommand constructs fresh managers, so every command sees the
// current state of the backing files.
package console
