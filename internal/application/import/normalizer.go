package importapp

import (
	"strings"
	"time"

	"github.com/fundledger/backend/internal/domain/investor"
	csvimport "github.com/fundledger/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

// Batch column headers
const (
	ColumnInvestorName        = "Investor Name"
	ColumnInvestorType        = "Investor Type"
	ColumnInvestorCountry     = "Investor Country"
	ColumnInvestorDateAdded   = "Investor Date Added"
	ColumnInvestorLastUpdated = "Investor Last Updated"
	ColumnAssetClass          = "Commitment Asset Class"
	ColumnAmount              = "Commitment Amount"
	ColumnCurrency            = "Commitment Currency"
)

// HeaderAliases maps legacy header spellings onto the canonical columns
var HeaderAliases = map[string]string{
	"Investory Type": ColumnInvestorType,
}

var rowValidator = csvimport.NewFieldValidator(
	csvimport.Field(ColumnInvestorName).Required().MaxLength(255).Build(),
	csvimport.Field(ColumnInvestorType).Required().MaxLength(100).Build(),
	csvimport.Field(ColumnInvestorCountry).Required().MaxLength(100).Build(),
	csvimport.Field(ColumnInvestorDateAdded).Date().Build(),
	csvimport.Field(ColumnInvestorLastUpdated).Date().Build(),
	csvimport.Field(ColumnAssetClass).Required().MaxLength(100).Build(),
	csvimport.Field(ColumnAmount).Required().Decimal().MinValue(decimal.Zero).MaxScale(investor.AmountScale).Build(),
	csvimport.Field(ColumnCurrency).Required().MaxLength(10).Build(),
)

// RequiredColumns returns the headers every batch must carry
func RequiredColumns() []string {
	return rowValidator.RequiredColumns()
}

// InvestorFields are the typed investor values of one row
type InvestorFields struct {
	Name         string
	InvestorType string
	Country      string
	CreatedAt    time.Time // zero when the column is absent
	UpdatedAt    time.Time
}

// CommitmentFields are the typed commitment values of one row
type CommitmentFields struct {
	AssetClass string
	Amount     decimal.Decimal
	Currency   string
}

// NormalizedRecord is a row that passed normalization
type NormalizedRecord struct {
	Row        int
	Investor   InvestorFields
	Commitment CommitmentFields
}

// Normalize types and validates one row. It has no side effects; every
// field problem in the row is reported in a single ROW_FORMAT failure.
func Normalize(row csvimport.Row) (NormalizedRecord, *RowFailure) {
	if errs := rowValidator.ValidateRow(row); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return NormalizedRecord{}, newRowFailure(row.Number, investor.NewRowFormatError("%s", strings.Join(msgs, "; ")))
	}

	// The validator has already checked these parse
	amount, _ := decimal.NewFromString(row.Get(ColumnAmount))

	return NormalizedRecord{
		Row: row.Number,
		Investor: InvestorFields{
			Name:         row.Get(ColumnInvestorName),
			InvestorType: row.Get(ColumnInvestorType),
			Country:      row.Get(ColumnInvestorCountry),
			CreatedAt:    parseDate(row.Get(ColumnInvestorDateAdded)),
			UpdatedAt:    parseDate(row.Get(ColumnInvestorLastUpdated)),
		},
		Commitment: CommitmentFields{
			AssetClass: row.Get(ColumnAssetClass),
			Amount:     amount,
			Currency:   row.Get(ColumnCurrency),
		},
	}, nil
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(csvimport.DefaultDateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
