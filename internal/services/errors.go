package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Service errors mapped to HTTP status codes by the handlers.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
)

// InvalidStudentIDsError rejects a whole enrollment batch and names the ids
// that are not existing students.
type InvalidStudentIDsError struct {
	IDs []uint
}

func (e *InvalidStudentIDsError) Error() string {
	return fmt.Sprintf("invalid student ids: %v", e.IDs)
}

func (e *InvalidStudentIDsError) Unwrap() error {
	return ErrValidationFailed
}

// DuplicateMobilesError rejects a user creation batch and names the mobile
// numbers that collide, either within the batch or with existing users.
type DuplicateMobilesError struct {
	Mobiles []string
}

func (e *DuplicateMobilesError) Error() string {
	return fmt.Sprintf("mobile numbers already in use: %s", strings.Join(e.Mobiles, ", "))
}

func (e *DuplicateMobilesError) Unwrap() error {
	return ErrConflict
}

// translateNotFound converts the storage layer's missing-record error into
// the service level sentinel.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
