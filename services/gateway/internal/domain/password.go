package domain

import "fmt"

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

// ValidatePassword enforces the baseline signup password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d characters", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}

// ValidateUsername keeps usernames storable and unambiguous.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(username) > 100 {
		return fmt.Errorf("%w: username must be <= 100 characters", ErrInvalidInput)
	}
	return nil
}
