package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const selectUser = `
SELECT id, username, email, name, role, created_at, updated_at
FROM users`

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO users (id, username, email, name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  username = EXCLUDED.username,
  email = EXCLUDED.email,
  name = EXCLUDED.name,
  role = EXCLUDED.role,
  updated_at = now()`,
		user.ID, user.Username, user.Email, user.Name, user.Role)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.one(ctx, selectUser+` WHERE id = $1`, userID)
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.one(ctx, selectUser+` WHERE lower(username) = lower($1)`, username)
}

func (r *PGRepo) one(ctx context.Context, query string, arg string) (User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *PGRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx, selectUser+` ORDER BY lower(username)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser tolerates a NULL name and a NULL updated_at, which falls back to
// created_at.
func scanUser(row rowScanner) (User, error) {
	var (
		user      User
		name      sql.NullString
		updatedAt sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &name, &user.Role, &user.CreatedAt, &updatedAt)
	if err != nil {
		return User{}, err
	}
	user.Name = name.String
	user.UpdatedAt = user.CreatedAt
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	return user, nil
}
