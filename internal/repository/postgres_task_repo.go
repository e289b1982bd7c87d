package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskman/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// Create はタスクを作成する。
// priorityのCHECK制約やNOT NULL制約違反はValidationエラーとして返す。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, due_date, category, priority, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		task.ID, task.UserID, task.Title, task.Description, task.DueDate,
		task.Category, string(task.Priority), task.Completed, task.CreatedAt,
	)
	if err != nil {
		return classifyPQError("failed to insert task", err)
	}
	return nil
}

// ListByUserID はユーザーが所有する全タスクを期限日の昇順で返す。
func (r *PostgresTaskRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, due_date, category, priority, completed, created_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY due_date ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*model.Task, 0)
	for rows.Next() {
		var (
			task     model.Task
			priority string
		)
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Description, &task.DueDate,
			&task.Category, &priority, &task.Completed, &task.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Priority = model.Priority(priority)
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
