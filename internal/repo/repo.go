package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrDuplicate = errors.New("duplicate")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// DuplicateError reports which account role already holds the value of Field
// ("email" or "username").
type DuplicateError struct {
	Role  string
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Role, e.Field)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// MissingProductsError lists product ids that do not exist.
type MissingProductsError struct {
	IDs []uint
}

func (e *MissingProductsError) Error() string {
	return "unknown product ids: " + joinIDs(e.IDs)
}

// UnlistedProductsError lists product ids that no vendor sells.
type UnlistedProductsError struct {
	IDs []uint
}

func (e *UnlistedProductsError) Error() string {
	return "no vendor sells product ids: " + joinIDs(e.IDs)
}

func joinIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
