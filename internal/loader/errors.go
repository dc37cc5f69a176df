package loader

import "fmt"

// SourceNotFoundError reports that one of the twelve month files is absent.
type SourceNotFoundError struct {
	Month int
	Path  string
	Err   error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("month %d: source %s not found", e.Month, e.Path)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// MissingFieldError reports a definition block without a required key.
// Block is the 1-based document index inside Source.
type MissingFieldError struct {
	Source string
	Block  int
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s block %d: missing required field %q", e.Source, e.Block, e.Field)
}

// MalformedTypeError reports a field whose shape or value cannot be used.
// Field is empty when the block itself is not a mapping.
type MalformedTypeError struct {
	Source string
	Block  int
	Field  string
	Want   string
	Got    string
}

func (e *MalformedTypeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s block %d: want %s, got %s", e.Source, e.Block, e.Want, e.Got)
	}
	return fmt.Sprintf("%s block %d: field %q: want %s, got %s", e.Source, e.Block, e.Field, e.Want, e.Got)
}

// InvalidDateError reports a month/day pair that does not exist in the
// reference leap year (for example 04/31).
type InvalidDateError struct {
	Source string
	Block  int
	Month  int
	Day    int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("%s block %d: %02d/%02d is not a valid date", e.Source, e.Block, e.Month, e.Day)
}
