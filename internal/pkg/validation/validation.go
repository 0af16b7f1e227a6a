package validation

import (
	"regexp"
	"unicode"
)

// emailRe matches the Express validator: /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phoneRe matches the Express Joi rule: exactly ten digits.
var phoneRe = regexp.MustCompile(`^[0-9]{10}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidName enforces the Express Joi rule: 3 to 20 characters.
func IsValidName(name string) bool {
	return len(name) >= 3 && len(name) <= 20
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// IsValidPassword: 8-30 characters with at least one letter and one digit.
func IsValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 30 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
