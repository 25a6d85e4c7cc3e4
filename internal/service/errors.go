package service

import "errors"

// Pipeline failure kinds. Callers classify with errors.Is; the wrapped chain carries
// the underlying cause for logs.
var (
	ErrMissingDescription = errors.New("product description is required")
	ErrMissingImages      = errors.New("at least one moodboard image is required")
	ErrUpload             = errors.New("image upload failed")
	ErrGeneration         = errors.New("brand book generation failed")
	ErrIncompleteResult   = errors.New("generated brand book is incomplete")
)

// IsValidation reports whether err is a client input problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingDescription) || errors.Is(err, ErrMissingImages)
}
