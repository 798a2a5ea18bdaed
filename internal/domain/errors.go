package domain

import "errors"

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrConfig              = errors.New("config error")
	ErrInvalidSignature    = errors.New("invalid token signature")
	ErrTokenExpired        = errors.New("token expired")
	ErrMalformedToken      = errors.New("malformed token")
	ErrUnknownRole         = errors.New("unknown role")
	ErrTransient           = errors.New("transient backend failure")
)
