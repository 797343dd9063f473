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

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, name, email, avatar_ref, avatar_url, tier, created_at, updated_at`

// FetchOrCreate returns the device user, creating it on first use. The
// table never holds more than one row.
func (r *UserRepository) FetchOrCreate(ctx context.Context) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("failed to select user: %w", err)
	}

	user = model.User{
		ID:        uuid.New(),
		Tier:      model.TierBase,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	insert := `
		INSERT INTO users (id, name, email, avatar_ref, avatar_url, tier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, insert,
		user.ID.String(), user.Name, user.Email, user.AvatarRef, user.AvatarURL,
		string(user.Tier), user.CreatedAt.UnixNano(), user.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (model.User, error) {
	query := `UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, name, email, time.Now().UnixNano(), id.String())
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return model.User{}, fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return model.User{}, model.ErrNotFound
	}

	return r.getByID(ctx, id)
}

func (r *UserRepository) SetAvatarRef(ctx context.Context, id uuid.UUID, ref string) error {
	query := `UPDATE users SET avatar_ref = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, ref, time.Now().UnixNano(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update avatar reference: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) SetTier(ctx context.Context, id uuid.UUID, tier model.Tier) error {
	query := `UPDATE users SET tier = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, string(tier), time.Now().UnixNano(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update tier: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) getByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to select user: %w", err)
	}

	return user, nil
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		user                 model.User
		id, tier             string
		createdAt, updatedAt int64
	)
	err := row.Scan(&id, &user.Name, &user.Email, &user.AvatarRef, &user.AvatarURL, &tier, &createdAt, &updatedAt)
	if err != nil {
		return model.User{}, err
	}

	if user.ID, err = uuid.Parse(id); err != nil {
		return model.User{}, fmt.Errorf("failed to parse user id: %w", err)
	}
	user.Tier = model.Tier(tier)
	user.CreatedAt = time.Unix(0, createdAt)
	user.UpdatedAt = time.Unix(0, updatedAt)

	return user, nil
}
