package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for the single local user.
type UserStore interface {
	// FetchOrCreate returns the local user, creating it with default
	// values on first use. At most one user record ever exists.
	FetchOrCreate(ctx context.Context) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (User, error)
	SetAvatarRef(ctx context.Context, id uuid.UUID, ref string) error
	SetTier(ctx context.Context, id uuid.UUID, tier Tier) error
}

// User represents the local device user.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	AvatarRef string // local file reference
	AvatarURL string // remote URL, set after avatar sync
	Tier      Tier
	CreatedAt time.Time
	UpdatedAt time.Time
}
