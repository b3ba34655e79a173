package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"taskdesk/internal/models"
)

// CreateTask inserts a task owned by userID. New tasks always start out in
// "processing"; the completion worker flips them later.
func CreateTask(db *sql.DB, userID int, name string) (models.Task, error) {
	var task models.Task
	err := db.QueryRow(
		`INSERT INTO tasks (user_id, name, status) VALUES ($1, $2, $3)
		 RETURNING id, user_id, name, status, created_at, updated_at`,
		userID, name, models.StatusProcessing,
	).Scan(&task.ID, &task.UserID, &task.Name, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

func GetTaskByID(db *sql.DB, id int) (models.Task, error) {
	var task models.Task
	err := db.QueryRow(
		"SELECT id, user_id, name, status, created_at, updated_at FROM tasks WHERE id = $1",
		id,
	).Scan(&task.ID, &task.UserID, &task.Name, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("fetching task %d: %w", id, err)
	}
	return task, nil
}

func ListTasksByUser(db *sql.DB, userID int) ([]models.Task, error) {
	rows, err := db.Query(
		"SELECT id, user_id, name, status, created_at, updated_at FROM tasks WHERE user_id = $1",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for user %d: %w", userID, err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		err := rows.Scan(&task.ID, &task.UserID, &task.Name, &task.Status, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}

// UpdateTask applies a partial patch: nil fields keep their current value.
// The owner column is never touched.
func UpdateTask(db *sql.DB, id int, name, status *string) (models.Task, error) {
	_, err := db.Exec(`
		UPDATE tasks
		SET name = COALESCE(NULLIF($1, ''), name),
			status = COALESCE(NULLIF($2, ''), status),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`,
		name, status, id,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("updating task %d: %w", id, err)
	}
	return GetTaskByID(db, id)
}

// CompleteTask moves a task to "completed" only if it still exists and is
// still processing, and reports whether a row actually changed. The guard
// keeps the completion worker from resurrecting deleted tasks or clobbering
// a status the owner already changed.
func CompleteTask(db *sql.DB, id int) (bool, error) {
	res, err := db.Exec(
		"UPDATE tasks SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND status = $3",
		models.StatusCompleted, id, models.StatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("completing task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("completing task %d: %w", id, err)
	}
	return affected > 0, nil
}

func DeleteTask(db *sql.DB, id int) error {
	if _, err := db.Exec("DELETE FROM tasks WHERE id = $1", id); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}
