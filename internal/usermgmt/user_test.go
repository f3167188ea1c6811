package usermgmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"ascii", "pw1", "74e65264f45665748b385eb67d7531f285cee07d729e0ca18151d2e97be1837d5974b2a3747ad3db3310f0f98cec7fa622620ebd84e28cdc9fa3cc4e91be1b14"},
		{"empty", "", "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"},
		{"utf8", "pässwörd", "72c7fe1bd33b785746a9c94f9b80d2591cd38f3c13c8aa43f7537f32a2a8c5f9b5d1cee16b69f0212e0e39a94d83f57bcf3a26bae776007cebb01f0d6311273e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HashPassword(tt.password))
		})
	}
}

func TestNewUser_StoresDigestOnly(t *testing.T) {
	u := NewUser("alice", "pw1")

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, HashPassword("pw1"), u.Password)
	assert.NotContains(t, u.Password, "pw1")
}

func TestUser_SetPassword(t *testing.T) {
	u := NewUser("alice", "pw1")
	u.SetPassword("pw2")

	assert.Equal(t, HashPassword("pw2"), u.Password)
}
