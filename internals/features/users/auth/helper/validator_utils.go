package helpers

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	reLetter   = regexp.MustCompile(`[A-Za-z]`)
	reNumber   = regexp.MustCompile(`[0-9]`)
	reEmail    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	reUserName = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)
)

func isAlphaNumeric(s string) bool {
	return reLetter.MatchString(s) && reNumber.MatchString(s)
}

// Validasi Email (regex simple)
func isValidEmail(email string) bool {
	return reEmail.MatchString(email)
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !isAlphaNumeric(password) {
		return errors.New("password must contain letters and numbers")
	}
	return nil
}

func ValidateRegisterInput(userName, email, password string) error {
	userName = strings.TrimSpace(userName)
	if len(userName) < 3 || len(userName) > 50 {
		return errors.New("userName must be 3-50 characters")
	}
	if !reUserName.MatchString(userName) {
		return errors.New("userName may only contain letters, numbers, dot, dash and underscore")
	}
	if !isValidEmail(strings.TrimSpace(email)) {
		return errors.New("invalid email format")
	}
	return ValidatePassword(password)
}

func ValidateLoginInput(identifier, password string) error {
	if strings.TrimSpace(identifier) == "" {
		return errors.New("identifier is required")
	}
	if password == "" {
		return errors.New("password is required")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
