package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"taskdesk/internal/models"
)

// CreateUser inserts a new user with an already-hashed password. A duplicate
// email surfaces as ErrDuplicate.
func CreateUser(db *sql.DB, name, email, hashedPassword string) (models.User, error) {
	var user models.User
	err := db.QueryRow(
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3)
		 RETURNING id, name, email, created_at, updated_at`,
		name, email, hashedPassword,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func GetUserByID(db *sql.DB, id int) (models.User, error) {
	var user models.User
	err := db.QueryRow(
		"SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("fetching user %d: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail also returns the stored password hash so login can verify
// credentials without the hash ever touching the User model.
func GetUserByEmail(db *sql.DB, email string) (models.User, string, error) {
	var user models.User
	var hash string
	err := db.QueryRow(
		"SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1",
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &hash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", ErrNotFound
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("fetching user by email: %w", err)
	}
	return user, hash, nil
}

// DeleteUser removes the user and all tasks they own in one transaction, so
// a partial failure cannot leave orphaned tasks behind. It returns the
// deleted user and the IDs of the removed tasks so the caller can cancel any
// pending completion jobs.
func DeleteUser(db *sql.DB, id int) (models.User, []int, error) {
	tx, err := db.Begin()
	if err != nil {
		return models.User{}, nil, fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	var user models.User
	err = tx.QueryRow(
		"SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, nil, ErrNotFound
	}
	if err != nil {
		return models.User{}, nil, fmt.Errorf("fetching user %d: %w", id, err)
	}

	rows, err := tx.Query("SELECT id FROM tasks WHERE user_id = $1", id)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("listing tasks for user %d: %w", id, err)
	}
	var taskIDs []int
	for rows.Next() {
		var taskID int
		if err := rows.Scan(&taskID); err != nil {
			rows.Close()
			return models.User{}, nil, fmt.Errorf("scanning task id: %w", err)
		}
		taskIDs = append(taskIDs, taskID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.User{}, nil, fmt.Errorf("iterating tasks for user %d: %w", id, err)
	}

	if _, err := tx.Exec("DELETE FROM tasks WHERE user_id = $1", id); err != nil {
		return models.User{}, nil, fmt.Errorf("deleting tasks for user %d: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM users WHERE id = $1", id); err != nil {
		return models.User{}, nil, fmt.Errorf("deleting user %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, nil, fmt.Errorf("committing delete of user %d: %w", id, err)
	}
	return user, taskIDs, nil
}
