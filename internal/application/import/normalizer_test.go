package importapp

import (
	"testing"
	"time"

	"github.com/fundledger/backend/internal/domain/investor"
	csvimport "github.com/fundledger/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRowData() map[string]string {
	return map[string]string{
		ColumnInvestorName:        "Ioo Gryffindor fund",
		ColumnInvestorType:        "fund manager",
		ColumnInvestorCountry:     "Singapore",
		ColumnInvestorDateAdded:   "2000-07-06",
		ColumnInvestorLastUpdated: "2024-02-21",
		ColumnAssetClass:          "Infrastructure",
		ColumnAmount:              "15000000",
		ColumnCurrency:            "GBP",
	}
}

func TestNormalize(t *testing.T) {
	t.Run("types every field", func(t *testing.T) {
		rec, failure := Normalize(csvimport.NewRow(1, validRowData()))

		require.Nil(t, failure)
		assert.Equal(t, 1, rec.Row)
		assert.Equal(t, "Ioo Gryffindor fund", rec.Investor.Name)
		assert.Equal(t, "fund manager", rec.Investor.InvestorType)
		assert.Equal(t, "Singapore", rec.Investor.Country)
		assert.Equal(t, time.Date(2000, 7, 6, 0, 0, 0, 0, time.UTC), rec.Investor.CreatedAt)
		assert.Equal(t, time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC), rec.Investor.UpdatedAt)
		assert.Equal(t, "Infrastructure", rec.Commitment.AssetClass)
		assert.True(t, rec.Commitment.Amount.Equal(decimal.NewFromInt(15000000)))
		assert.Equal(t, "GBP", rec.Commitment.Currency)
	})

	t.Run("leaves absent dates zero", func(t *testing.T) {
		data := validRowData()
		delete(data, ColumnInvestorDateAdded)
		data[ColumnInvestorLastUpdated] = "  "

		rec, failure := Normalize(csvimport.NewRow(1, data))

		require.Nil(t, failure)
		assert.True(t, rec.Investor.CreatedAt.IsZero())
		assert.True(t, rec.Investor.UpdatedAt.IsZero())
	})

	t.Run("accepts fractional amounts", func(t *testing.T) {
		data := validRowData()
		data[ColumnAmount] = "1500.75"

		rec, failure := Normalize(csvimport.NewRow(1, data))

		require.Nil(t, failure)
		assert.Equal(t, "1500.75", rec.Commitment.Amount.String())
	})

	tests := []struct {
		name     string
		column   string
		value    string
		contains string
	}{
		{"non-numeric amount", ColumnAmount, "abc", "'abc' is not a valid number"},
		{"negative amount", ColumnAmount, "-5", "value must be at least 0"},
		{"amount finer than cents", ColumnAmount, "100.005", "value must have at most 2 decimal places"},
		{"missing name", ColumnInvestorName, "", "column 'Investor Name': missing required value"},
		{"missing currency", ColumnCurrency, " ", "column 'Commitment Currency': missing required value"},
		{"malformed date", ColumnInvestorDateAdded, "06/07/2000", "'06/07/2000' is not a valid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validRowData()
			data[tt.column] = tt.value

			_, failure := Normalize(csvimport.NewRow(4, data))

			require.NotNil(t, failure)
			assert.Equal(t, 4, failure.Row)
			assert.Equal(t, investor.KindRowFormat, failure.Kind)
			assert.Contains(t, failure.Message, tt.contains)
		})
	}

	t.Run("reports every bad field in one failure", func(t *testing.T) {
		data := validRowData()
		data[ColumnInvestorName] = ""
		data[ColumnAmount] = "lots"

		_, failure := Normalize(csvimport.NewRow(2, data))

		require.NotNil(t, failure)
		assert.Contains(t, failure.Message, "Investor Name")
		assert.Contains(t, failure.Message, "'lots' is not a valid number")
	})
}

func TestRequiredColumns(t *testing.T) {
	assert.ElementsMatch(t, []string{
		ColumnInvestorName,
		ColumnInvestorType,
		ColumnInvestorCountry,
		ColumnAssetClass,
		ColumnAmount,
		ColumnCurrency,
	}, RequiredColumns())
}

func TestHeaderAliases_LegacyInvestorType(t *testing.T) {
	data := []byte("Investor Name,Investory Type,Investor Country,Commitment Asset Class,Commitment Amount,Commitment Currency\n" +
		"Mjd Jedi fund,bank,China,Private Equity,72000000,GBP\n")

	rows, err := parseBatch(data)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bank", rows[0].Get(ColumnInvestorType))
}
