package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alurecine/daily-whisper/internal/model"
)

var _ model.EntryStore = (*EntryRepository)(nil)

type EntryRepository struct {
	db *Connection
}

func NewEntryRepository(db *Connection) *EntryRepository {
	return &EntryRepository{
		db: db,
	}
}

const entryColumns = `id, owner_id, created_at, duration, emotion, file_ref, remote_url`

func (r *EntryRepository) Create(ctx context.Context, entry model.Entry) (model.Entry, error) {
	query := `
		INSERT INTO entries (id, owner_id, created_at, duration, emotion, file_ref, remote_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID.String(), entry.OwnerID.String(), entry.CreatedAt.UnixNano(),
		entry.Duration, string(entry.Emotion), entry.FileRef, entry.RemoteURL,
	)
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}

	return entry, nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = ?`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Entry{}, model.ErrNotFound
		}
		return model.Entry{}, fmt.Errorf("failed to select entry: %w", err)
	}

	return entry, nil
}

func (r *EntryRepository) All(ctx context.Context) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *EntryRepository) CountInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM entries WHERE owner_id = ? AND created_at >= ? AND created_at < ?`

	var count int
	err := r.db.QueryRowContext(ctx, query, ownerID.String(), from.UnixNano(), to.UnixNano()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}

func (r *EntryRepository) Unsynced(ctx context.Context, ownerID uuid.UUID) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE owner_id = ? AND remote_url = '' ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to select unsynced entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SetEmotion writes the emotion label. The label is settable once; a
// second write returns ErrEmotionSet.
func (r *EntryRepository) SetEmotion(ctx context.Context, id uuid.UUID, emotion model.Emotion) error {
	query := `UPDATE entries SET emotion = ? WHERE id = ? AND emotion = ''`

	res, err := r.db.ExecContext(ctx, query, string(emotion), id.String())
	if err != nil {
		return fmt.Errorf("failed to update emotion: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from an already-labeled one.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return model.ErrEmotionSet
	}

	return nil
}

func (r *EntryRepository) SetRemoteURL(ctx context.Context, id uuid.UUID, remoteURL string) error {
	query := `UPDATE entries SET remote_url = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, remoteURL, id.String())
	if err != nil {
		return fmt.Errorf("failed to update remote url: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM entries WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.Entry, error) {
	var (
		entry       model.Entry
		id, ownerID string
		emotion     string
		createdAt   int64
	)
	err := row.Scan(&id, &ownerID, &createdAt, &entry.Duration, &emotion, &entry.FileRef, &entry.RemoteURL)
	if err != nil {
		return model.Entry{}, err
	}

	if entry.ID, err = uuid.Parse(id); err != nil {
		return model.Entry{}, fmt.Errorf("failed to parse entry id: %w", err)
	}
	if entry.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return model.Entry{}, fmt.Errorf("failed to parse owner id: %w", err)
	}
	entry.CreatedAt = time.Unix(0, createdAt)
	entry.Emotion = model.Emotion(emotion)

	return entry, nil
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
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
