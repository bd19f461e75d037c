package core

import "errors"

var (
	// ErrInvalidIssue indicates an Issue failed validation.
	ErrInvalidIssue = errors.New("invalid issue")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyTitle indicates the issue Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyContent indicates a Content or Text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidNamespace indicates a namespace is empty or contains a separator.
	ErrInvalidNamespace = errors.New("invalid namespace")
)
