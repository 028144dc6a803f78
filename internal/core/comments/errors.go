package comments

import "errors"

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrInvalidID indicates a malformed comment identifier
	ErrInvalidID = errors.New("invalid comment ID")

	// ErrPostNotFound indicates the post being commented on doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrContentEmpty indicates comment content is empty
	ErrContentEmpty = errors.New("comment content is required")

	// ErrContentTooLong indicates comment content exceeds MaxContentLength
	ErrContentTooLong = errors.New("comment content exceeds 1000 characters")

	// ErrNotAuthorized indicates the requester may not delete the comment
	ErrNotAuthorized = errors.New("not authorized to delete this comment")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrPostNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentEmpty) ||
		errors.Is(err, ErrContentTooLong) ||
		errors.Is(err, ErrInvalidID)
}
