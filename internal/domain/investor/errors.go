package investor

import (
	"errors"
	"fmt"

	"github.com/fundledger/backend/internal/domain/shared"
)

// ErrorKind classifies failures so callers can filter without parsing messages
type ErrorKind string

const (
	KindRowFormat   ErrorKind = "ROW_FORMAT"
	KindResolution  ErrorKind = "RESOLUTION"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindConflict    ErrorKind = "CONFLICT"
	KindBatchSource ErrorKind = "BATCH_SOURCE"
)

// Error codes carried by *shared.DomainError
const (
	CodeRowFormat   = "ROW_FORMAT_ERROR"
	CodeBatchSource = "BATCH_SOURCE_ERROR"
)

var (
	ErrInvestorNotFound = shared.NewDomainError("NOT_FOUND", "Investor not found")
	ErrRowFormat        = shared.NewDomainError(CodeRowFormat, "Malformed row")
	ErrBatchSource      = shared.NewDomainError(CodeBatchSource, "Batch could not be read")
)

// NewRowFormatError reports a malformed or missing field
func NewRowFormatError(format string, args ...any) *shared.DomainError {
	return shared.NewDomainError(CodeRowFormat, fmt.Sprintf(format, args...))
}

// NewBatchSourceError reports a batch that cannot be parsed at all
func NewBatchSourceError(message string, err error) *shared.DomainError {
	return shared.WrapDomainError(CodeBatchSource, message, err)
}

// NewInvestorConflictError reports a single-create for a name already taken
func NewInvestorConflictError(name string) *shared.DomainError {
	return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Investor with name '%s' already exists", name))
}

// KindOf maps an error onto the failure taxonomy.
// Anything unrecognised is treated as a resolution failure.
func KindOf(err error) ErrorKind {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return KindResolution
	}
	switch de.Code {
	case CodeRowFormat, shared.ErrInvalidInput.Code:
		return KindRowFormat
	case shared.ErrNotFound.Code:
		return KindNotFound
	case shared.ErrAlreadyExists.Code:
		return KindConflict
	case CodeBatchSource:
		return KindBatchSource
	default:
		return KindResolution
	}
}
