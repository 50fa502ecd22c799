package parser

import (
	"fmt"

	"github.com/cwrap/cwrap/internal/cursor"
)

// ParseError represents a parse that produced no usable translation unit.
// It wraps cursor.ErrFatalParse.
type ParseError struct {
	Message string
	File    string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns cursor.ErrFatalParse.
func (e *ParseError) Unwrap() error {
	return cursor.ErrFatalParse
}

// UnsupportedLanguageError is returned when attempting to parse an unsupported language.
type UnsupportedLanguageError struct {
	Language string
}

// Error implements the error interface.
func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Language)
}

// Unwrap returns cursor.ErrFatalParse.
func (e *UnsupportedLanguageError) Unwrap() error {
	return cursor.ErrFatalParse
}

// FileReadError is returned when a file cannot be read.
type FileReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error and cursor.ErrFatalParse.
func (e *FileReadError) Unwrap() []error {
	return []error{e.Err, cursor.ErrFatalParse}
}
