// Package services defines the business logic for users and messages.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrEmptyNickname is returned when a user-creation request carries an
	// empty or whitespace-only nickname.
	ErrEmptyNickname = errors.New("nickname is empty")

	// ErrNicknameTooLong is returned when a nickname exceeds the configured
	// maximum length.
	ErrNicknameTooLong = errors.New("nickname too long")

	// ErrEmptyUserID is returned when a message-creation request carries an
	// empty or whitespace-only user id.
	ErrEmptyUserID = errors.New("user id is empty")

	// ErrEmptyText is returned when a message-creation request carries an
	// empty or whitespace-only text.
	ErrEmptyText = errors.New("message text is empty")

	// ErrTextTooLong is returned when a message text exceeds the configured
	// maximum length.
	ErrTextTooLong = errors.New("message text too long")

	// ErrUserNotFound indicates that the referenced author does not exist.
	ErrUserNotFound = errors.New("user not found")
)
