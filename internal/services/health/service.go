package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB      Pinger
	Timeout time.Duration
}

// NewService constructs a new health service. A nil db means in-memory storage.
func NewService(db Pinger) *Service {
	return &Service{DB: db, Timeout: 2 * time.Second}
}

// Status reports whether the service can reach its dependencies.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	if s == nil || s.DB == nil {
		return map[string]any{"ok": true, "storage": "memory"}, true
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		return map[string]any{"ok": false, "storage": "postgres", "error": err.Error()}, false
	}
	return map[string]any{"ok": true, "storage": "postgres"}, true
}
