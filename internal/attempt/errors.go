package attempt

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInactive         = errors.New("quiz is not active")
	ErrInvalidReference = errors.New("invalid question or option reference")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrNotSubmitted     = errors.New("attempt not submitted")
)
