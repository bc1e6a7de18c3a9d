package repository

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("email is already registered")
	// ErrUnknownOwner is returned when a video references a user id that has no account.
	ErrUnknownOwner = errors.New("insert or update on table \"videos\" violates foreign key constraint \"videos_user_id_fkey\"")
)
