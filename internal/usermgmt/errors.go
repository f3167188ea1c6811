package usermgmt

import "errors"

var (
	// naming errors
	ErrNameCollision = errors.New("name already exists")
	ErrReservedName  = errors.New("an integer as name is not supported")
	ErrEmptyName     = errors.New("name cannot be empty")

	// lookup errors
	ErrNotFound = errors.New("not found")

	// membership errors
	ErrAlreadyMember = errors.New("already a member")
	ErrNotAMember    = errors.New("not a member")
)
