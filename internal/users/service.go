package users

import (
	"context"
	"errors"
	"strings"
)

var errNotConfigured = errors.New("users service not configured")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Seed adds any default user whose username is not taken yet.
func (s *Service) Seed(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return errNotConfigured
	}
	for _, u := range SeedUsers() {
		_, err := s.Repo.GetByUsername(ctx, u.Username)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, ErrNotFound):
			return err
		}
		if err := s.Repo.Upsert(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// Directory lists users, optionally only those holding role.
func (s *Service) Directory(ctx context.Context, role string) ([]User, error) {
	if s == nil || s.Repo == nil {
		return nil, errNotConfigured
	}
	all, err := s.Repo.List(ctx)
	if err != nil || role == "" {
		return all, err
	}
	out := make([]User, 0, len(all))
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// RoleOf resolves the role of userID for the auth middleware.
func (s *Service) RoleOf(ctx context.Context, userID string) (string, bool) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", false
	}
	return user.Role, true
}
