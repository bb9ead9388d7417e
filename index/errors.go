package index

import "errors"

var (
	// ErrInvalidLimit indicates a non-positive search limit.
	ErrInvalidLimit = errors.New("search limit must be greater than zero")

	// ErrEmptyVector indicates a search with an empty query vector.
	ErrEmptyVector = errors.New("query vector cannot be empty")

	// ErrEmptyDocument indicates an upsert of a document without content.
	ErrEmptyDocument = errors.New("document content cannot be empty")
)
