package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const todoColumns = `
	id,
	title,
	description,
	category,
	status,
	deadline,
	priority,
	archived,
	completed_at,
	user_id,
	created_at,
	modified_at
`

func checkRowsAffectedOne(cmdTag pgconn.CommandTag) error {
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type TodoRepository interface {
	Create(ctx context.Context, t *Todo) error
	GetByID(ctx context.Context, id, userID int64) (*Todo, error)
	List(ctx context.Context, userID int64, f ListFilter) ([]Todo, int64, error)
	Update(ctx context.Context, t *Todo) error
	Delete(ctx context.Context, id, userID int64) error

	ListCompletedBetween(ctx context.Context, userID int64, from, to time.Time) ([]Todo, error)
	ListDueBetween(ctx context.Context, userID int64, from, to time.Time) ([]Todo, error)
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) TodoRepository {
	return &PostgresRepo{db: db}
}

func scanTodo(row pgx.Row, t *Todo) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Category,
		&t.Status,
		&t.Deadline,
		&t.Priority,
		&t.Archived,
		&t.CompletedAt,
		&t.UserID,
		&t.CreatedAt,
		&t.ModifiedAt,
	)
}

func collectTodos(rows pgx.Rows) ([]Todo, error) {
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		var t Todo
		if err := scanTodo(rows, &t); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *PostgresRepo) Create(ctx context.Context, t *Todo) error {
	query := `
		INSERT INTO todos (
			title,
			description,
			category,
			status,
			deadline,
			priority,
			archived,
			completed_at,
			user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, modified_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		t.Title,
		t.Description,
		t.Category,
		t.Status,
		t.Deadline,
		t.Priority,
		t.Archived,
		t.CompletedAt,
		t.UserID,
	).Scan(
		&t.ID,
		&t.CreatedAt,
		&t.ModifiedAt,
	)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id, userID int64) (*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	var t Todo
	if err := scanTodo(r.db.QueryRow(ctx, query, id, userID), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &t, nil
}

// buildPredicate renders the filter into a WHERE clause shared by the count
// and the windowed fetch, so both always see the same matching set.
func buildPredicate(userID int64, f ListFilter) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}

	if len(f.Categories) > 0 {
		cats := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			cats[i] = string(c)
		}
		args = append(args, cats)
		clauses = append(clauses, fmt.Sprintf("category = ANY($%d)", len(args)))
	}

	if len(f.Statuses) > 0 {
		sts := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			sts[i] = string(s)
		}
		args = append(args, sts)
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	if f.DeadlineFrom != nil {
		args = append(args, *f.DeadlineFrom)
		clauses = append(clauses, fmt.Sprintf("deadline >= $%d", len(args)))
	}

	if f.DeadlineTo != nil {
		args = append(args, *f.DeadlineTo)
		clauses = append(clauses, fmt.Sprintf("deadline < $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *PostgresRepo) List(ctx context.Context, userID int64, f ListFilter) ([]Todo, int64, error) {
	where, args := buildPredicate(userID, f)

	var total int64
	countQuery := `SELECT COUNT(*) FROM todos WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	listQuery := fmt.Sprintf(
		`SELECT %s FROM todos WHERE %s ORDER BY deadline, id LIMIT $%d OFFSET $%d`,
		todoColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	todos, err := collectTodos(rows)
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (r *PostgresRepo) Update(ctx context.Context, t *Todo) error {
	query := `
		UPDATE todos
		SET
			title = $1,
			description = $2,
			category = $3,
			status = $4,
			deadline = $5,
			priority = $6,
			archived = $7,
			completed_at = $8,
			modified_at = now()
		WHERE id = $9 AND user_id = $10
		RETURNING modified_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		t.Title,
		t.Description,
		t.Category,
		t.Status,
		t.Deadline,
		t.Priority,
		t.Archived,
		t.CompletedAt,
		t.ID,
		t.UserID,
	).Scan(&t.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	cmdTag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}

	return checkRowsAffectedOne(cmdTag)
}

func (r *PostgresRepo) ListCompletedBetween(ctx context.Context, userID int64, from, to time.Time) ([]Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		  AND status = $2
		  AND completed_at >= $3 AND completed_at < $4
		ORDER BY deadline, id
	`

	rows, err := r.db.Query(ctx, query, userID, StatusDone, from, to)
	if err != nil {
		return nil, err
	}

	return collectTodos(rows)
}

func (r *PostgresRepo) ListDueBetween(ctx context.Context, userID int64, from, to time.Time) ([]Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		  AND status <> $2
		  AND deadline >= $3 AND deadline < $4
		ORDER BY deadline, id
	`

	rows, err := r.db.Query(ctx, query, userID, StatusDone, from, to)
	if err != nil {
		return nil, err
	}

	return collectTodos(rows)
}
