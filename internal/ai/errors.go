package ai

import "errors"

var (
	// ErrEmptyDocument is returned before any model call when the document
	// text is empty after trimming whitespace.
	ErrEmptyDocument = errors.New("document text is empty")
	// ErrEmptyQuestion is returned when a chat request has no question.
	ErrEmptyQuestion = errors.New("chat question is empty")
)
