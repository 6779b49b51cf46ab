package sqlite

import (
	"context"
	"time"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/domain"
)

type sessionsRepo struct {
	q querier
}

// Replace is a single atomic upsert keyed by the unique user_id. A concurrent
// reader sees either the old row or the new one, never both and never neither,
// which is what enforces the at-most-one-session-per-user invariant without
// any explicit locking.
func (r *sessionsRepo) Replace(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (user_id, refresh_token, expires_at, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE SET
		     refresh_token = excluded.refresh_token,
		     expires_at    = excluded.expires_at,
		     created_at    = excluded.created_at`,
		s.UserID, s.RefreshToken, s.ExpiresAt.UTC(),
	)
	return err
}

func (r *sessionsRepo) Get(ctx context.Context, userID string) (domain.Session, error) {
	var s domain.Session
	err := r.q.QueryRowContext(ctx,
		`SELECT user_id, refresh_token, expires_at, created_at
		 FROM sessions WHERE user_id = ?`, userID,
	).Scan(&s.UserID, &s.RefreshToken, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, before time.Time) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, before.UTC())
	return err
}
