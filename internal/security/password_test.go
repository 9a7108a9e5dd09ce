package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("Password1!")
	require.NoError(t, err)

	ok, err := VerifyPassword("Password1!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("Password2!", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("Password1!")
	require.NoError(t, err)
	second, err := HashPassword("Password1!")
	require.NoError(t, err)

	assert.NotEqual(t, string(first), string(second))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not argon", "$bcrypt$v=19$t=3,m=65536,p=2$c2FsdA$aGFzaA"},
		{"too few parts", "$argon2id$v=19$t=3,m=65536,p=2"},
		{"wrong version", "$argon2id$v=18$t=3,m=65536,p=2$c2FsdA$aGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyPassword("whatever", []byte(tc.hash))
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}

func TestHashPasswordWithParams(t *testing.T) {
	params := Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}
	hash, err := HashPasswordWithParams("Password1!", params)
	require.NoError(t, err)

	ok, err := VerifyPassword("Password1!", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}
