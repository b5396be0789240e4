package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"knowledge-assistant/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserRepository_FindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock, zap.NewNop())
	id := uuid.New()
	now := time.Now()

	cols := []string{"id", "username", "email", "first_name", "last_name", "password", "role",
		"email_verified", "is_active", "created_at", "updated_at", "deleted_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1 AND deleted_at IS NULL")).
		WithArgs("alice@x.io").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(id, "alice", "alice@x.io", "Alice", "", "hash", entity.RoleUser,
				true, true, now, now, (*time.Time)(nil)))

	user, err := repo.FindByEmail(context.Background(), "alice@x.io")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock, zap.NewNop())
	now := time.Now()
	user := &entity.User{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:      "alice",
		Email:         "alice@x.io",
		PasswordHash:  "hash",
		Role:          entity.RoleUser,
		EmailVerified: true,
		IsActive:      true,
	}

	anyArgs := make([]any, 11)
	for i := range anyArgs {
		anyArgs[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec("INSERT INTO users").
		WithArgs(anyArgs...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err = repo.Create(context.Background(), user)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
