package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeImportRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidType   = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeImportInvalidLength = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeImportInvalidRange  = "ERR_IMPORT_INVALID_RANGE"
)

var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrMalformedCSV is returned when a record cannot be decoded
	ErrMalformedCSV = errors.New("CSV parsing error")
)

// RowError is a field-level problem in one row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("column '%s': %s", e.Column, e.Message)
	}
	return e.Message
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{
		Row:     row,
		Column:  column,
		Code:    code,
		Message: message,
	}
}

// NewRowErrorWithValue creates a new RowError with the invalid value
func NewRowErrorWithValue(row int, column, code, message, value string) RowError {
	return RowError{
		Row:     row,
		Column:  column,
		Code:    code,
		Message: message,
		Value:   value,
	}
}

// ErrorCollection keeps the first maxErrors entries and counts the rest
type ErrorCollection[T any] struct {
	items      []T
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection[T any](maxErrors int) *ErrorCollection[T] {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection[T]{
		items:     make([]T, 0),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection[T]) Add(item T) {
	ec.totalCount++
	if len(ec.items) < ec.maxErrors {
		ec.items = append(ec.items, item)
	}
}

// Errors returns the collected errors
func (ec *ErrorCollection[T]) Errors() []T {
	return ec.items
}

// TotalCount returns the total number of errors including those not collected
func (ec *ErrorCollection[T]) TotalCount() int {
	return ec.totalCount
}

// IsTruncated returns true if some errors were not collected due to the limit
func (ec *ErrorCollection[T]) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}
