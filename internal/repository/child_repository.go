package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/persistence"
)

// ChildRepository encapsulates child persistence. Every read is scoped to a parent.
type ChildRepository interface {
	Create(ctx context.Context, child *domain.Child) error
	GetOwned(ctx context.Context, parentID, childID int64) (*domain.Child, error)
	ListByParent(ctx context.Context, parentID int64, filter domain.ChildFilter) ([]domain.Child, error)
	ApplyUpdate(ctx context.Context, parentID, childID int64, update domain.ChildUpdate) (*domain.Child, error)
}

const childColumns = `id, parent_id, name, age, COALESCE(additional_info, ''), is_deleted, created_at, updated_at`

type childRepository struct {
	db persistence.DB
}

// NewChildRepository instantiates repository.
func NewChildRepository(db persistence.DB) ChildRepository {
	return &childRepository{db: db}
}

func scanChild(row pgx.Row) (*domain.Child, error) {
	var child domain.Child
	if err := row.Scan(
		&child.ID,
		&child.ParentID,
		&child.Name,
		&child.Age,
		&child.AdditionalInfo,
		&child.IsDeleted,
		&child.CreatedAt,
		&child.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *childRepository) Create(ctx context.Context, child *domain.Child) error {
	const query = `
        INSERT INTO children (parent_id, name, age, additional_info)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		child.ParentID,
		child.Name,
		child.Age,
		child.AdditionalInfo,
	).Scan(&child.ID, &child.CreatedAt, &child.UpdatedAt)
}

func (r *childRepository) GetOwned(ctx context.Context, parentID, childID int64) (*domain.Child, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE id=$1 AND parent_id=$2 AND is_deleted=FALSE`
	return scanChild(r.db.QueryRow(ctx, query, childID, parentID))
}

func (r *childRepository) ListByParent(ctx context.Context, parentID int64, filter domain.ChildFilter) ([]domain.Child, error) {
	args := []any{parentID}
	clauses := []string{"parent_id=$1", "is_deleted=FALSE"}

	if filter.Name != nil && *filter.Name != "" {
		args = append(args, *filter.Name)
		clauses = append(clauses, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Age != nil {
		args = append(args, *filter.Age)
		clauses = append(clauses, fmt.Sprintf("age=$%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, startOfDay(*filter.StartDate))
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, startOfDay(*filter.EndDate).AddDate(0, 0, 1))
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := `SELECT ` + childColumns + ` FROM children WHERE ` +
		strings.Join(clauses, " AND ") + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := []domain.Child{}
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, *child)
	}
	return children, rows.Err()
}

// ApplyUpdate writes the non-nil fields of update to an owned, live child.
func (r *childRepository) ApplyUpdate(ctx context.Context, parentID, childID int64, update domain.ChildUpdate) (*domain.Child, error) {
	if update.Empty() {
		return r.GetOwned(ctx, parentID, childID)
	}

	args := []any{}
	sets := []string{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Age != nil {
		set("age", *update.Age)
	}
	if update.AdditionalInfo != nil {
		set("additional_info", *update.AdditionalInfo)
	}

	args = append(args, childID, parentID)
	query := fmt.Sprintf(`UPDATE children SET %s, updated_at=NOW()
        WHERE id=$%d AND parent_id=$%d AND is_deleted=FALSE
        RETURNING %s`, strings.Join(sets, ", "), len(args)-1, len(args), childColumns)

	return scanChild(r.db.QueryRow(ctx, query, args...))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
