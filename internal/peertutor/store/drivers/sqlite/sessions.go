package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	return mapConstraint(r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:         s.ID,
		UserID:     s.UserID,
		Persistent: s.Persistent,
		ExpiresAt:  s.ExpiresAt.UTC(),
		CreatedAt:  s.CreatedAt.UTC(),
	}))
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row, err := r.q.GetSessionByID(ctx, id)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	return r.q.DeleteSession(ctx, id)
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	return r.q.DeleteUserSessions(ctx, userID)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredSessions(ctx, now.UTC())
}
