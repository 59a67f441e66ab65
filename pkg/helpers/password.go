package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately above the library default; password hashing is
// a rare operation here and the accounts gate the whole admin area.
const bcryptCost = 12

// HashPassword hashes the plain text password using bcrypt.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword checks the password policy and returns every violated
// rule as a human-readable reason. An empty slice means the password is
// acceptable.
func ValidatePassword(password string) []string {
	var reasons []string
	if len(password) < 8 {
		reasons = append(reasons, "Password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		reasons = append(reasons, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		reasons = append(reasons, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "Password must contain at least one number")
	}
	if !hasSymbol {
		reasons = append(reasons, "Password must contain at least one special character")
	}
	return reasons
}
