package users

import "context"

// Repo stores the user directory. Usernames are unique and IDs are derived
// from them (see IDFor), so Upsert is idempotent for the seeded users.
type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// List returns users ordered by username.
	List(ctx context.Context) ([]User, error)
}
