package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
	repo "github.com/ttogle918/KOCRUIT/internal/auth/repository/postgres"
)

var userColumns = []string{"id", "email", "name", "role", "password_hash", "created_at", "updated_at"}

// TestGetByEmail covers the GetByEmail repository method.
func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	userEmail := "test@example.com"
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", userEmail, "Test", "manager", "hash", time.Now(), time.Now()))

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, domain.RoleManager, user.Role)
	})

	t.Run("role casing is normalized on read", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", userEmail, "Test", "ADMIN", "hash", time.Now(), time.Now()))

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err) // Should return nil user, nil error
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, userEmail)
		assert.Error(t, err)
	})
}

func TestGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", "test@example.com", "Test", "user", "", time.Now(), time.Now()))

		user, err := r.GetByID(ctx, "user-123")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

// TestCreate covers the Create repository method.
func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	now := time.Now()
	userToCreate := &domain.User{
		ID:           "user-123",
		Email:        "new@example.com",
		Name:         "New",
		Role:         domain.RoleUser,
		PasswordHash: "new-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(userToCreate.ID, userToCreate.Email, userToCreate.Name, "user",
				userToCreate.PasswordHash, userToCreate.CreatedAt, userToCreate.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := r.Create(ctx, userToCreate)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(userToCreate.ID, userToCreate.Email, userToCreate.Name, "user",
				userToCreate.PasswordHash, userToCreate.CreatedAt, userToCreate.UpdatedAt).
			WillReturnError(fmt.Errorf("unique violation"))

		err := r.Create(ctx, userToCreate)
		assert.Error(t, err)
	})
}

func TestList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("u-1", "a@example.com", "A", "user", "", time.Now(), time.Now()).
				AddRow("u-2", "b@example.com", "B", "admin", "hash", time.Now(), time.Now()))

		users, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, domain.RoleAdmin, users[1].Role)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.List(ctx)
		assert.Error(t, err)
	})
}

func TestUpdateRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET role").
			WithArgs("manager", "user-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := r.UpdateRole(ctx, "user-123", domain.RoleManager)
		assert.NoError(t, err)
	})
}
