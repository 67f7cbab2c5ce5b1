package core

import (
	"errors"
	"fmt"
)

// Error taxonomy roots. Callers classify failures with errors.Is against
// these; specific sentinels below wrap the matching root.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDependency = errors.New("dependency failure")
)

var (
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidType          = fmt.Errorf("%w: type must be income or expense", ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: date is required", ErrValidation)
	ErrInvalidPeriod        = fmt.Errorf("%w: period must be a calendar month with 4-digit year", ErrValidation)
	ErrMissingCategory      = fmt.Errorf("%w: category is required", ErrValidation)
	ErrEmptyCategoryName    = fmt.Errorf("%w: category name is empty", ErrValidation)
	ErrCategoryNameTooLong  = fmt.Errorf("%w: category name too long (max 100 characters)", ErrValidation)
	ErrDescriptionTooLong   = fmt.Errorf("%w: description too long (max 255 characters)", ErrValidation)
	ErrAmbiguousCategoryRef = fmt.Errorf("%w: exactly one of category id or new category name must be provided", ErrValidation)
)
