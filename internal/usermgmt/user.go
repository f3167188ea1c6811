package usermgmt

import (
	"crypto/sha512"
	"encoding/hex"
)

// User represents a user account in the system.
type User struct {
	Username string
	// Password holds the hex encoded SHA-512 digest, never the plaintext.
	Password string
}

// NewUser creates a user and digests the plaintext password.
func NewUser(username, password string) User {
	u := User{Username: username}
	u.SetPassword(password)
	return u
}

// SetPassword replaces the stored digest with the digest of password.
func (u *User) SetPassword(password string) {
	u.Password = HashPassword(password)
}

// HashPassword returns the hex encoded SHA-512 digest of the UTF-8 bytes of password.
func HashPassword(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}
