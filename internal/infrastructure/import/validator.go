package csvimport

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDateFormat is the layout for date columns
const DefaultDateFormat = "2006-01-02"

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
)

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column     string
	Type       FieldType
	Required   bool
	MaxLength  int
	MinValue   *decimal.Decimal
	MaxScale   int32 // decimal places allowed, negative for unlimited
	DateFormat string
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column:     column,
			Type:       TypeString,
			MaxScale:   -1,
			DateFormat: DefaultDateFormat,
		},
	}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Date sets the field type to date
func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

// DateFormat sets the expected date layout
func (b *FieldRuleBuilder) DateFormat(format string) *FieldRuleBuilder {
	b.rule.DateFormat = format
	return b
}

// MaxLength sets the maximum length
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets the minimum numeric value
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// MaxScale limits the number of decimal places
func (b *FieldRuleBuilder) MaxScale(places int32) *FieldRuleBuilder {
	b.rule.MaxScale = places
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator checks rows against an ordered rule set
type FieldValidator struct {
	rules []FieldRule
}

// NewFieldValidator creates a new field validator
func NewFieldValidator(rules ...FieldRule) *FieldValidator {
	return &FieldValidator{rules: rules}
}

// RequiredColumns returns the columns covered by required rules
func (v *FieldValidator) RequiredColumns() []string {
	var cols []string
	for _, r := range v.rules {
		if r.Required {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// ValidateRow returns the row's errors in rule order
func (v *FieldValidator) ValidateRow(row Row) []RowError {
	var errs []RowError

	for _, rule := range v.rules {
		value := row.Get(rule.Column)

		if value == "" {
			if rule.Required {
				errs = append(errs, NewRowError(row.Number, rule.Column, ErrCodeImportRequiredField,
					"missing required value"))
			}
			continue
		}

		if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			errs = append(errs, NewRowErrorWithValue(row.Number, rule.Column, ErrCodeImportInvalidLength,
				fmt.Sprintf("length must be at most %d", rule.MaxLength), value))
			continue
		}

		switch rule.Type {
		case TypeDecimal:
			d, err := decimal.NewFromString(value)
			if err != nil {
				errs = append(errs, NewRowErrorWithValue(row.Number, rule.Column, ErrCodeImportInvalidType,
					fmt.Sprintf("'%s' is not a valid number", value), value))
				continue
			}
			if rule.MinValue != nil && d.LessThan(*rule.MinValue) {
				errs = append(errs, NewRowErrorWithValue(row.Number, rule.Column, ErrCodeImportInvalidRange,
					fmt.Sprintf("value must be at least %s", rule.MinValue.String()), value))
			}
			if rule.MaxScale >= 0 && !d.Equal(d.Truncate(rule.MaxScale)) {
				errs = append(errs, NewRowErrorWithValue(row.Number, rule.Column, ErrCodeImportInvalidRange,
					fmt.Sprintf("value must have at most %d decimal places", rule.MaxScale), value))
			}
		case TypeDate:
			if _, err := time.Parse(rule.DateFormat, value); err != nil {
				errs = append(errs, NewRowErrorWithValue(row.Number, rule.Column, ErrCodeImportInvalidType,
					fmt.Sprintf("'%s' is not a valid date, expected format %s", value, rule.DateFormat), value))
			}
		}
	}

	return errs
}
