package db

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not be a unique violation")
	}

	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected generic duplicate key detection")
	}
	if !IsUniqueViolation(pgErr, "idx_users_email") {
		t.Fatal("expected constraint name detection")
	}
	if IsUniqueViolation(pgErr, "idx_products_sku") {
		t.Fatal("unexpected match for unrelated constraint")
	}

	sqliteErr := errors.New("UNIQUE constraint failed: subscribers.email")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected sqlite unique violation detection")
	}

	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatal("expected gorm duplicated key detection")
	}
}
