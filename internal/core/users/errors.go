package users

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when the username or email is taken
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for a wrong email/password pair
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsConflict checks if an error is a duplicate account error
func IsConflict(err error) bool {
	return errors.Is(err, ErrUserExists)
}
