// Package common holds the error taxonomy shared by the session, user, item
// and purchase packages. Handlers recover every one of these at the boundary
// of the operation that raised it and turn it into a redirect with a message.
package common

import "errors"

var (
	// session errors
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")

	// account errors
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInUse         = errors.New("user is still referenced by items or purchases")

	// purchase errors
	ErrItemUnavailable   = errors.New("item unavailable")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// input errors
	ErrMalformedInput = errors.New("malformed input")
)
