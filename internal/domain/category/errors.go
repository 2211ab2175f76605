package category

import "errors"

var (
	// ErrCategoryNotFound indicates the category doesn't exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrRuleNotFound indicates the rule doesn't exist.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrDefaultCategory indicates an attempt to delete a default category.
	ErrDefaultCategory = errors.New("default categories cannot be deleted")
	// ErrInvalidInput indicates invalid input for category operations.
	ErrInvalidInput = errors.New("invalid category input")
)
