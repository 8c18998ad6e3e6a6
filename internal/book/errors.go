package book

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingManifest is returned when a book directory has no book.json.
	ErrMissingManifest = errors.New("book directory has no " + ManifestName)

	// ErrManifestNotEmpty is returned when book.json does not hold an empty
	// blueprint_book.blueprints array.
	ErrManifestNotEmpty = errors.New("manifest blueprints must be an empty array")

	// ErrMissingIndex is returned for a child with neither an embedded
	// index nor an index prefix in its name.
	ErrMissingIndex = errors.New("missing index")

	// ErrInvalidIndex is returned for an embedded index that is a number
	// but not a non-negative integer.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrDuplicateIndex is returned when two children of one book resolve
	// to the same index.
	ErrDuplicateIndex = errors.New("duplicate index")

	// ErrFileAlreadyExists is returned instead of overwriting a file or
	// reusing a directory.
	ErrFileAlreadyExists = errors.New("file already exists")
)

// IndexError describes a child that cannot be placed in its book.
type IndexError struct {
	Err   error  // ErrMissingIndex, ErrInvalidIndex or ErrDuplicateIndex
	Path  string // offending child
	Other string // conflicting sibling, for ErrDuplicateIndex
	Index uint64 // shared index, for ErrDuplicateIndex
	Raw   string // embedded index text, for ErrInvalidIndex
}

func (e *IndexError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDuplicateIndex):
		return fmt.Sprintf("%v %d: %s and %s", e.Err, e.Index, e.Other, e.Path)
	case e.Raw != "":
		return fmt.Sprintf("%s: %v %s", e.Path, e.Err, e.Raw)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

func (e *IndexError) Unwrap() error { return e.Err }
