package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("rahasia-banget")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia-banget", hash)

	assert.NoError(t, CheckPasswordHash(hash, "rahasia-banget"))
	assert.Error(t, CheckPasswordHash(hash, "salah"))
}

func TestValidateRegisterInput(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "budi", "budi@example.com", "password123", false},
		{"username terlalu pendek", "ab", "budi@example.com", "password123", true},
		{"email tidak valid", "budi", "bukan-email", "password123", true},
		{"password terlalu pendek", "budi", "budi@example.com", "1234567", true},
		{"semua kosong", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegisterInput(tt.userName, tt.email, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLoginInput(t *testing.T) {
	assert.NoError(t, ValidateLoginInput("budi", "password123"))
	assert.Error(t, ValidateLoginInput("", "password123"))
	assert.Error(t, ValidateLoginInput("budi", ""))
}

func TestValidateChangePassword(t *testing.T) {
	assert.NoError(t, ValidateChangePassword("lama12345", "baru12345"))
	assert.Error(t, ValidateChangePassword("", "baru12345"))
	assert.Error(t, ValidateChangePassword("lama12345", "pendek"))
}
