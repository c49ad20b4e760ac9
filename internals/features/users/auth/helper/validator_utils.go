package helper

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

/* ====================== PASSWORD ====================== */

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

/* ====================== INPUT VALIDATION ====================== */

func ValidateRegisterInput(userName, email, password string) error {
	if strings.TrimSpace(userName) == "" {
		return errors.New("Username wajib diisi")
	}
	if len(strings.TrimSpace(userName)) < 3 {
		return errors.New("Username minimal 3 karakter")
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return errors.New("Format email tidak valid")
	}
	return validatePassword(password)
}

func ValidateLoginInput(identifier, password string) error {
	if strings.TrimSpace(identifier) == "" {
		return errors.New("Email atau username wajib diisi")
	}
	if password == "" {
		return errors.New("Password wajib diisi")
	}
	return nil
}

func ValidateChangePassword(current, next string) error {
	if current == "" {
		return errors.New("Password lama wajib diisi")
	}
	return validatePassword(next)
}

func validatePassword(p string) error {
	if len(p) < 8 {
		return errors.New("Password minimal 8 karakter")
	}
	return nil
}
