package core

import (
	"fmt"
	"strings"
)

// NamespaceSeparator separates the namespace from the ID in storage keys.
const NamespaceSeparator = ":"

func ValidateIssue(issue *Issue) error {
	if issue == nil {
		return fmt.Errorf("%w: issue is nil", ErrInvalidIssue)
	}

	if strings.TrimSpace(issue.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIssue, ErrEmptyTitle)
	}

	if strings.TrimSpace(issue.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIssue, ErrEmptyContent)
	}

	return nil
}

func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if err := ValidateNamespace(doc.Namespace); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}

func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("%w: namespace is empty", ErrInvalidNamespace)
	}
	if strings.Contains(namespace, NamespaceSeparator) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidNamespace, namespace, NamespaceSeparator)
	}
	return nil
}
