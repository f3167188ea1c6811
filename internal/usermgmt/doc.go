// Package usermgmt provides user account and usergroup management for hass-users.
//
// Features:
//   - User records with SHA-512 password digests, persisted to a YAML file
//   - Usergroups holding ordered member usernames and access-group identifiers
//   - Whole-file persistence after every successful mutation (temp file + rename)
//   - Cross-collection checks: membership and rename propagation validate against a UserManager
//   - Backup of either backing file
//
// Usage:
//  1. Create a UserManager with NewUserManager and a UserGroupManager with NewUserGroupManager
//  2. Use CreateUser, UpdateUserUsername, UpdateUserPassword, DeleteUser for accounts
//  3. Use CreateGroup, UpdateUsergroupName, DeleteUsergroup for usergroups
//  4. Use AddUserToUsergroup, RemoveUserFromUsergroup, AddGroupToUsergroup and
//     RemoveGroupFromUsergroup to edit membership
//  5. After renaming a user, call UpdateUserInUsergroup so usergroups follow the new name
//
// Every mutating operation reports success as a bool. The reason for a
// failure is written to the manager's logger; the sentinel errors in errors.go
// name the possible reasons.
//
// Deleting a user does not remove the username from usergroups. Renaming a
// user only updates usergroups when UpdateUserInUsergroup is called as well;
// skipping that step leaves the old username behind as a dangling reference.
package usermgmt
