package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserIDRequired    = errors.New("user id is required")
	ErrInvalidUserID     = errors.New("user id must not contain a slash")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrNoExpenseData     = errors.New("no expense data found")
	ErrAccountBusy       = errors.New("account is busy")
)

// The messages below end up in job results and are shown to users

type workspaceNotFoundError struct {
	userID string
}

func (e *workspaceNotFoundError) Error() string {
	return fmt.Sprintf("Workspace Doc with ID %s not found.", e.userID)
}

func (e *workspaceNotFoundError) Is(target error) bool {
	return target == ErrWorkspaceNotFound
}

type noExpenseDataError struct {
	email string
}

func (e *noExpenseDataError) Error() string {
	return fmt.Sprintf("No expense data found for %s.", e.email)
}

func (e *noExpenseDataError) Is(target error) bool {
	return target == ErrNoExpenseData
}

type accountBusyError struct {
	userID string
}

func (e *accountBusyError) Error() string {
	return fmt.Sprintf("Another job is already running for account %s.", e.userID)
}

func (e *accountBusyError) Is(target error) bool {
	return target == ErrAccountBusy
}
