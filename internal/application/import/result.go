package importapp

import (
	"fmt"

	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/investor"
	csvimport "github.com/fundledger/backend/internal/infrastructure/import"
	"github.com/google/uuid"
)

// StatusCompleted is the status of every batch that reached row processing
const StatusCompleted = "completed"

// RowOutcome classifies how one row ended
type RowOutcome string

const (
	RowSuccess RowOutcome = "success"
	RowIgnored RowOutcome = "ignored"
	RowFailed  RowOutcome = "failed"
)

// RowFailure is the structured record of one failed row
type RowFailure struct {
	Row     int                `json:"row"`
	Kind    investor.ErrorKind `json:"kind"`
	Message string             `json:"message"`
}

func newRowFailure(row int, err error) *RowFailure {
	return &RowFailure{Row: row, Kind: investor.KindOf(err), Message: err.Error()}
}

// String renders the failure as "Row {n}: {message}"
func (f RowFailure) String() string {
	return fmt.Sprintf("Row %d: %s", f.Row, f.Message)
}

// ImportResult summarizes one batch. Failures keep row order.
type ImportResult struct {
	ImportID          uuid.UUID
	Status            string
	SuccessfulImports int
	FailedImports     int
	IgnoredImports    int
	Failures          []RowFailure
}

func newImportResult() *ImportResult {
	return &ImportResult{Status: StatusCompleted, Failures: make([]RowFailure, 0)}
}

func (r *ImportResult) record(outcome RowOutcome, failure *RowFailure) {
	switch outcome {
	case RowSuccess:
		r.SuccessfulImports++
	case RowIgnored:
		r.IgnoredImports++
	case RowFailed:
		r.FailedImports++
		r.Failures = append(r.Failures, *failure)
	}
}

// TotalRows returns the number of rows the batch processed
func (r *ImportResult) TotalRows() int {
	return r.SuccessfulImports + r.FailedImports + r.IgnoredImports
}

// Errors returns the failures rendered as "Row {n}: {message}"
func (r *ImportResult) Errors() []string {
	out := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.String()
	}
	return out
}

// errorDetails converts at most limit failures for the history record.
// A non-positive limit keeps every failure.
func (r *ImportResult) errorDetails(limit int) []bulk.ImportErrorDetail {
	if limit <= 0 {
		limit = len(r.Failures) + 1
	}
	collected := csvimport.NewErrorCollection[bulk.ImportErrorDetail](limit)
	for _, f := range r.Failures {
		collected.Add(bulk.ImportErrorDetail{Row: f.Row, Kind: string(f.Kind), Message: f.Message})
	}
	return collected.Errors()
}
