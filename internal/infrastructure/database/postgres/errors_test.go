package postgres

import (
	"fmt"
	"testing"

	domainUser "fourwheeler-backend/internal/domain/user"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: emailIndex}

	name, ok := uniqueConstraint(fmt.Errorf("create: %w", pgErr))
	assert.True(t, ok)
	assert.Equal(t, emailIndex, name)

	_, ok = uniqueConstraint(&pgconn.PgError{Code: "23503", ConstraintName: "fk_favorites_user"})
	assert.False(t, ok)

	_, ok = uniqueConstraint(nil)
	assert.False(t, ok)
}

func TestDuplicateUserError(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username", usernameIndex, domainUser.ErrUsernameTaken},
		{"email", emailIndex, domainUser.ErrEmailTaken},
		{"driver message", `duplicate key value violates unique constraint "idx_users_email"`, domainUser.ErrEmailTaken},
		{"other", "users_pkey", domainUser.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, duplicateUserError(tt.constraint), tt.want)
		})
	}
}
