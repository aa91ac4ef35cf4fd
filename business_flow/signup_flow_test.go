package businessflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/playvault/game-store/repository"
	"github.com/stretchr/testify/assert"
)

func TestDuplicateSignupError(t *testing.T) {
	t.Run("EmailIndex", func(t *testing.T) {
		err := fmt.Errorf("%w: %w", repository.ErrDuplicateKey,
			&pgconn.PgError{Code: "23505", ConstraintName: "uk_users_email"})
		assert.Equal(t, ErrEmailAlreadyExists, duplicateSignupError(err))
	})

	t.Run("HandleIndex", func(t *testing.T) {
		err := fmt.Errorf("%w: %w", repository.ErrDuplicateKey,
			&pgconn.PgError{Code: "23505", ConstraintName: "uk_users_handle"})
		assert.Equal(t, ErrHandleAlreadyExists, duplicateSignupError(err))
	})

	t.Run("UnknownConstraint", func(t *testing.T) {
		assert.Equal(t, ErrHandleAlreadyExists, duplicateSignupError(errors.New("duplicate key")))
	})
}
