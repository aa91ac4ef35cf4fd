package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("PgxDriverError", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23505", ConstraintName: "uk_users_email"}
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("PqDriverError", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "uk_users_handle"}
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("GormSentinel", func(t *testing.T) {
		assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	})

	t.Run("WrappedDriverError", func(t *testing.T) {
		// The repository wrap keeps the driver error inspectable
		err := fmt.Errorf("%w: %w", ErrDuplicateKey, &pgconn.PgError{Code: "23505"})
		assert.True(t, IsUniqueViolation(err))
		assert.True(t, errors.Is(err, ErrDuplicateKey))
	})

	t.Run("OtherErrors", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(errors.New("connection refused")))
		assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
		assert.False(t, IsUniqueViolation(nil))
	})
}

func TestUniqueViolationConstraint(t *testing.T) {
	t.Run("PgxConstraintName", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23505", ConstraintName: "uk_users_email"}
		assert.Equal(t, "uk_users_email", UniqueViolationConstraint(err))
	})

	t.Run("PqConstraintName", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "uk_users_handle"}
		assert.Equal(t, "uk_users_handle", UniqueViolationConstraint(err))
	})

	t.Run("SurvivesRepositoryWrap", func(t *testing.T) {
		driverErr := &pgconn.PgError{Code: "23505", ConstraintName: "uk_orders_user_game"}
		err := fmt.Errorf("%w: %w", ErrDuplicateKey, driverErr)
		assert.Equal(t, "uk_orders_user_game", UniqueViolationConstraint(err))
	})

	t.Run("NonUniqueErrors", func(t *testing.T) {
		assert.Equal(t, "", UniqueViolationConstraint(errors.New("boom")))
		assert.Equal(t, "", UniqueViolationConstraint(&pgconn.PgError{Code: "23503", ConstraintName: "fk_orders_user"}))
		assert.Equal(t, "", UniqueViolationConstraint(nil))
	})
}
