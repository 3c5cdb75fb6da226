package persistence

import (
	"errors"
	"strings"

	"github.com/fundledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique constraint failure.
// TranslateError covers both drivers; the message checks catch connections
// opened without it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// translateWriteError maps unique violations onto ErrAlreadyExists
func translateWriteError(err error, message string) error {
	if isUniqueViolation(err) {
		return shared.WrapDomainError(shared.ErrAlreadyExists.Code, message, err)
	}
	return err
}

// translateReadError maps a missing record onto ErrNotFound
func translateReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
