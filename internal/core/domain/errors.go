package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	ErrCourseNotFound  = errors.New("course not found")
	ErrInvalidCourseID = errors.New("invalid course id")

	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrInvalidOrder       = errors.New("invalid order request")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrForgedSignature    = errors.New("payment signature mismatch")
)
