package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/repository"
)

var userRowColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash",
	"is_superuser", "is_active", "is_parent", "is_deleted",
	"age", "address", "city", "country", "pin_code", "profile_photo", "created_at", "updated_at",
}

func userRow(rows *pgxmock.Rows, id int64, email string, superuser, active bool) *pgxmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "Ada", "Lovelace", email, "hash",
		superuser, active, !superuser, false,
		36, "1 Analytical Way", "London", "UK", "N1", "", now, now)
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, first_name").
			WithArgs("ada@example.com").
			WillReturnRows(userRow(pgxmock.NewRows(userRowColumns), 7, "ada@example.com", false, true))

		user, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, 36, user.Age)
		assert.True(t, user.IsParent)
		assert.True(t, user.Permitted())
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, first_name").
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("compares case-insensitively", func(t *testing.T) {
		mock.ExpectQuery(`FROM users WHERE lower\(email\)=lower\(\$1\)`).
			WithArgs("Ada@Example.com").
			WillReturnRows(userRow(pgxmock.NewRows(userRowColumns), 7, "ada@example.com", false, true))

		user, err := repo.GetByEmail(ctx, "Ada@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewUserRepository(mock)
	user := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "hash", IsParent: true}
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ada", "Lovelace", "ada@example.com", "hash", false, false, true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(11), user.ID)
	assert.True(t, user.CreatedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryApplyProfileUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewUserRepository(mock)
	city := "Paris"
	age := 40

	mock.ExpectQuery(`UPDATE users SET age=\$1, city=\$2, updated_at=NOW\(\) WHERE id=\$3`).
		WithArgs(40, "Paris", int64(7)).
		WillReturnRows(userRow(pgxmock.NewRows(userRowColumns), 7, "ada@example.com", false, true))

	user, err := repo.ApplyProfileUpdate(context.Background(), 7, domain.ProfileUpdate{City: &city, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryApplyEmptyProfileUpdateReads(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewUserRepository(mock)
	mock.ExpectQuery("SELECT id, first_name").
		WithArgs(int64(7)).
		WillReturnRows(userRow(pgxmock.NewRows(userRowColumns), 7, "ada@example.com", false, true))

	_, err = repo.ApplyProfileUpdate(context.Background(), 7, domain.ProfileUpdate{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryActivate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewUserRepository(mock)
	ctx := context.Background()

	mock.ExpectExec("UPDATE users SET is_active=TRUE").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.Activate(ctx, 7))

	mock.ExpectExec("UPDATE users SET is_active=TRUE").
		WithArgs(int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.Activate(ctx, 8), pgx.ErrNoRows)

	mock.ExpectExec("UPDATE users SET is_active=TRUE").
		WithArgs(int64(9)).
		WillReturnError(errors.New("conn reset"))
	assert.EqualError(t, repo.Activate(ctx, 9), "conn reset")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListActiveAdmins(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewUserRepository(mock)
	rows := pgxmock.NewRows(userRowColumns)
	userRow(rows, 1, "root@example.com", true, true)
	userRow(rows, 2, "ops@example.com", true, true)

	mock.ExpectQuery("FROM users WHERE is_superuser=TRUE").WillReturnRows(rows)

	admins, err := repo.ListActiveAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "ops@example.com", admins[1].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
