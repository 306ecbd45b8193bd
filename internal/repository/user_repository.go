package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/persistence"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ApplyProfileUpdate(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
	Activate(ctx context.Context, id int64) error
	ListActiveAdmins(ctx context.Context) ([]domain.User, error)
}

const userColumns = `id, first_name, last_name, email, password_hash,
        is_superuser, is_active, is_parent, is_deleted,
        COALESCE(age, 0), COALESCE(address, ''), COALESCE(city, ''), COALESCE(country, ''),
        COALESCE(pin_code, ''), COALESCE(profile_photo, ''), created_at, updated_at`

type userRepository struct {
	db persistence.DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db persistence.DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.IsSuperuser,
		&user.IsActive,
		&user.IsParent,
		&user.IsDeleted,
		&user.Age,
		&user.Address,
		&user.City,
		&user.Country,
		&user.PinCode,
		&user.ProfilePhoto,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (first_name, last_name, email, password_hash, is_superuser, is_active, is_parent)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.IsSuperuser,
		user.IsActive,
		user.IsParent,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email)=lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// ApplyProfileUpdate writes the non-nil fields of update and returns the stored account.
func (r *userRepository) ApplyProfileUpdate(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return r.GetByID(ctx, id)
	}

	args := []any{}
	sets := []string{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if update.FirstName != nil {
		set("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		set("last_name", *update.LastName)
	}
	if update.Age != nil {
		set("age", *update.Age)
	}
	if update.Address != nil {
		set("address", *update.Address)
	}
	if update.City != nil {
		set("city", *update.City)
	}
	if update.Country != nil {
		set("country", *update.Country)
	}
	if update.PinCode != nil {
		set("pin_code", *update.PinCode)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at=NOW() WHERE id=$%d AND is_deleted=FALSE RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	return scanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *userRepository) Activate(ctx context.Context, id int64) error {
	const query = `
        UPDATE users SET is_active=TRUE, updated_at=NOW()
        WHERE id=$1 AND is_deleted=FALSE`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) ListActiveAdmins(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + `
        FROM users WHERE is_superuser=TRUE AND is_active=TRUE AND is_deleted=FALSE
        ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *user)
	}
	return admins, rows.Err()
}
