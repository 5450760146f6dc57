package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const todoColumns = `id::text, created_by::text, title, description, due_date, priority, completed, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) repoer {
	return &postgresRepo{pool: pool}
}

func scanTodo(row pgx.Row) (*Todo, error) {
	var (
		t        Todo
		priority string
	)
	err := row.Scan(
		&t.ID,
		&t.CreatedBy,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&priority,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	t.Priority = Priority(priority)
	return &t, nil
}

func (r *postgresRepo) Create(ctx context.Context, ownerID string, req CreateTodoIn) (*Todo, error) {
	stmt := fmt.Sprintf(`
	INSERT INTO todos (
		created_by, title, description, due_date, priority
	)
	VALUES (
		$1, $2, $3, $4, $5
	)
	RETURNING %s`, todoColumns)

	return scanTodo(r.pool.QueryRow(
		ctx,
		stmt,
		ownerID,
		req.Title,
		req.Description,
		req.DueDate.ptr(),
		string(req.Priority),
	))
}

func (r *postgresRepo) List(ctx context.Context, ownerID string) ([]Todo, error) {
	stmt := fmt.Sprintf(`
	SELECT %s
	FROM todos
	WHERE created_by = $1
	ORDER BY created_at`, todoColumns)

	rows, err := r.pool.Query(ctx, stmt, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, ownerID, id string) (*Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTodoNotFound
	}

	stmt := fmt.Sprintf(`
	SELECT %s
	FROM todos
	WHERE id = $1 AND created_by = $2`, todoColumns)

	return scanTodo(r.pool.QueryRow(ctx, stmt, id, ownerID))
}

// Update builds the SET clause from the non-nil fields only. With no fields
// it returns the current todo. updated_at is bumped on every real update.
func (r *postgresRepo) Update(ctx context.Context, ownerID, id string, req UpdateTodoIn) (*Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTodoNotFound
	}
	if req.empty() {
		return r.GetByID(ctx, ownerID, id)
	}

	setParts := []string{}
	args := []any{id, ownerID}
	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.DueDate.Set {
		set("due_date", req.DueDate.Value.ptr())
	}
	if req.Priority != nil {
		set("priority", string(*req.Priority))
	}
	if req.Completed != nil {
		set("completed", *req.Completed)
	}
	set("updated_at", time.Now().UTC())

	stmt := fmt.Sprintf(`
	UPDATE todos
	SET %s
	WHERE id = $1 AND created_by = $2
	RETURNING %s`, strings.Join(setParts, ", "), todoColumns)

	return scanTodo(r.pool.QueryRow(ctx, stmt, args...))
}

func (r *postgresRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrTodoNotFound
	}

	stmt := `DELETE FROM todos WHERE id = $1 AND created_by = $2`

	result, err := r.pool.Exec(ctx, stmt, id, ownerID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}
