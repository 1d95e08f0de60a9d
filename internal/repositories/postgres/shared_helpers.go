package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// getDB prefers the transaction handle when one is supplied.
func getDB(base, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return base
}

// wrapDBError wraps a database error with the failing operation while
// keeping gorm.ErrRecordNotFound visible to errors.Is.
func wrapDBError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, gorm.ErrRecordNotFound)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// applyPagination applies limit/offset with sane defaults.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
