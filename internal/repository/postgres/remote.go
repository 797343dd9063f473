package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alurecine/daily-whisper/internal/model"
)

var _ model.RemoteDatabase = (*Remote)(nil)

// Remote implements the mirror database over postgres.
type Remote struct {
	db *Connection
}

func NewRemote(db *Connection) *Remote {
	return &Remote{
		db: db,
	}
}

func (r *Remote) SaveUser(ctx context.Context, user model.UserDTO) error {
	query := `
		INSERT INTO users (id, name, email, profile_image_url, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, $4, NULLIF($5, '0001-01-01T00:00:00Z'::timestamptz), NULLIF($6, '0001-01-01T00:00:00Z'::timestamptz))
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.ProfileImageURL,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (r *Remote) FetchUser(ctx context.Context, id string) (*model.UserDTO, error) {
	query := `
		SELECT id::text, name, email, profile_image_url,
		       COALESCE(created_at, '0001-01-01T00:00:00Z'::timestamptz),
		       COALESCE(updated_at, '0001-01-01T00:00:00Z'::timestamptz)
		FROM users
		WHERE id = $1::uuid`

	var user model.UserDTO
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.ProfileImageURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	return &user, nil
}

func (r *Remote) SaveAudioEntry(ctx context.Context, entry model.AudioEntryDTO) error {
	query := `
		INSERT INTO audio_entries (id, user_id, date, file_url, duration, emotion)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			file_url = EXCLUDED.file_url,
			duration = EXCLUDED.duration,
			emotion = EXCLUDED.emotion`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Date, entry.FileURL, entry.Duration, entry.Emotion,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert audio entry: %w", err)
	}

	return nil
}

func (r *Remote) FetchAudioEntries(ctx context.Context, userID string, limit int) ([]model.AudioEntryDTO, error) {
	query := `
		SELECT id::text, user_id::text, date, file_url, duration, emotion
		FROM audio_entries
		WHERE user_id = $1::uuid
		ORDER BY date DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select audio entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AudioEntryDTO
	for rows.Next() {
		var entry model.AudioEntryDTO
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Date, &entry.FileURL, &entry.Duration, &entry.Emotion)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
