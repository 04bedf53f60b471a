package database

import (
	"context"
	"errors"
	"serwer-detekcji/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateSessionParams struct {
	ID           uuid.UUID
	UserID       int64
	SessionToken string
	ExpiresAt    time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO user_sessions (id, user_id, session_token, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.UserID, arg.SessionToken, arg.ExpiresAt)
	return err
}

// GetUserBySessionToken zwraca właściciela tokenu tylko wtedy, gdy token
// nadal figuruje w rejestrze sesji i nie wygasł. Brak wpisu oznacza
// odwołaną sesję, nawet jeśli sam podpis JWT jest poprawny.
func (q *Queries) GetUserBySessionToken(ctx context.Context, sessionToken string) (*models.User, error) {
	query := `
		SELECT ` + prefixedUserColumns + `
		FROM users u
		JOIN user_sessions s ON u.id = s.user_id
		WHERE s.session_token = $1 AND s.expires_at > NOW()
	`
	return scanUser(q.db.QueryRow(ctx, query, sessionToken))
}

const prefixedUserColumns = `
		u.id, u.email, u.full_name, u.phone_number, u.password_hash,
		u.package_id, u.is_active, u.is_verified, u.created_at, u.updated_at`

func (q *Queries) ListSessionsForUser(ctx context.Context, userID int64) ([]models.UserSession, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM user_sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.UserSession
	for rows.Next() {
		var session models.UserSession
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.ExpiresAt,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if sessions == nil {
		return []models.UserSession{}, nil
	}

	return sessions, nil
}

func (q *Queries) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID int64) error {
	query := `DELETE FROM user_sessions WHERE id = $1 AND user_id = $2`
	_, err := q.db.Exec(ctx, query, sessionID, userID)
	return err
}

func (q *Queries) DeleteSessionByToken(ctx context.Context, sessionToken string) error {
	query := `DELETE FROM user_sessions WHERE session_token = $1`
	_, err := q.db.Exec(ctx, query, sessionToken)
	return err
}

func (q *Queries) DeleteAllSessionsForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM user_sessions WHERE user_id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

func (q *Queries) GetSessionByToken(ctx context.Context, sessionToken string) (*models.UserSession, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM user_sessions
		WHERE session_token = $1
	`
	var session models.UserSession
	err := q.db.QueryRow(ctx, query, sessionToken).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}
