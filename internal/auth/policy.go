package auth

import "strings"

// Strength is the advisory quality score of a password, independent of
// ValidPassword.
type Strength string

const (
	StrengthWeak       Strength = "WEAK"
	StrengthModerate   Strength = "MODERATE"
	StrengthStrong     Strength = "STRONG"
	StrengthVeryStrong Strength = "VERY_STRONG"
)

// specialChars is the fixed special-character set accepted by the policy.
const specialChars = "@$!%*?&"

// ValidPassword reports whether a password satisfies the policy: at least
// 8 characters with at least one lowercase letter, one uppercase letter, one
// digit and one character from the special set.
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return classCount(password) == 4
}

// PasswordStrength classifies a password by the number of satisfied character
// classes. Anything shorter than 8 characters is WEAK regardless of classes;
// all four classes plus length 12 or more is VERY_STRONG.
func PasswordStrength(password string) Strength {
	if len(password) < 8 {
		return StrengthWeak
	}
	switch classes := classCount(password); {
	case classes == 4 && len(password) >= 12:
		return StrengthVeryStrong
	case classes == 4:
		return StrengthStrong
	case classes == 3:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func classCount(password string) int {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	count := 0
	for _, ok := range []bool{lower, upper, digit, special} {
		if ok {
			count++
		}
	}
	return count
}
