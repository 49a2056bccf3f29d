package xltrans

import (
	"errors"
	"fmt"
)

// ErrSheetNotFound indicates a requested sheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrEmptyTranslation indicates the translator returned no text.
var ErrEmptyTranslation = errors.New("empty translation")

// TranslationError reports that one piece of cell text could not be
// translated. It never aborts a run.
type TranslationError struct {
	Text   string
	Source string
	Target string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate %q (%s→%s): %v", e.Text, e.Source, e.Target, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// DocumentIOError reports a failure to open or save a workbook.
type DocumentIOError struct {
	Op   string // "open" or "save"
	Path string // empty for readers and writers
	Err  error
}

func (e *DocumentIOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s workbook: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s workbook %q: %v", e.Op, e.Path, e.Err)
}

func (e *DocumentIOError) Unwrap() error {
	return e.Err
}

// CellFailure records a translation failure at a master coordinate.
type CellFailure struct {
	Ref CellRef
	Err *TranslationError
}

func (f CellFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Ref, f.Err)
}
