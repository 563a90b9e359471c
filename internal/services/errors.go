package services

import "errors"

var (
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrSessionNotActive is returned when answering a session that already completed.
	ErrSessionNotActive = errors.New("interview session is not active")

	ErrInvalidProfile      = errors.New("candidate profile is required")
	ErrUnsupportedFileType = errors.New("invalid file format. Please upload PDF, DOC, or DOCX")
	ErrEmptyDocument       = errors.New("no text content found in document")

	// ErrAllModelsFailed never leaves the generators; they fall back instead.
	ErrAllModelsFailed = errors.New("all candidate models failed or are not available for this API key")
)
