package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong password", hash)
	req.NoError(err)
	req.False(match)
}

func TestHashIsSalted(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("same password")
	req.NoError(err)
	second, err := HashPassword("same password")
	req.NoError(err)

	// Two digests of the same password must differ through the salt.
	req.NotEqual(first, second)
}

func TestComparePassword_MalformedDigest(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"not a phc string", "plainhash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"missing segments", "$argon2id$v=19$m=65536,t=3,p=2"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA"},
		{"bad hash encoding", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := ComparePassword("whatever", tt.digest)
			req.Error(err)
			req.False(match)
		})
	}
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid request", RegisterRequest{"Ann", "ann@x.com", "pw1"}, false},
		{"missing name", RegisterRequest{"", "ann@x.com", "pw1"}, true},
		{"missing email", RegisterRequest{"Ann", "", "pw1"}, true},
		{"missing password", RegisterRequest{"Ann", "ann@x.com", ""}, true},
		{"malformed email", RegisterRequest{"Ann", "notanemail", "pw1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateLogin(LoginRequest{"ann@x.com", "pw1"}))
	req.Error(ValidateLogin(LoginRequest{"", "pw1"}))
	req.Error(ValidateLogin(LoginRequest{"ann@x.com", ""}))
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("a-long-enough-password-for-benchmarking")
	}
}
