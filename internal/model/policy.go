package model

import (
	"fmt"
	"time"
)

// Tier is the subscription level determining policy limits.
type Tier string

const (
	// TierBase is the free tier.
	TierBase Tier = "base"
	// TierElevated is the paid tier.
	TierElevated Tier = "elevated"
	// TierUnrestricted removes the daily cap entirely.
	TierUnrestricted Tier = "unrestricted"
)

// ParseTier validates a raw tier value.
func ParseTier(raw string) (Tier, error) {
	switch Tier(raw) {
	case TierBase, TierElevated, TierUnrestricted:
		return Tier(raw), nil
	}
	return "", fmt.Errorf("unknown tier: %q", raw)
}

// TierSource supplies the current subscription tier. Callers must
// read it fresh on every use: the tier can change at any time
// (purchase, restore, test override) and the change must be observed
// immediately.
type TierSource interface {
	CurrentTier() Tier
}

// PolicyProvider derives the current policy on demand. The policy is
// recomputed from the tier on every call, never cached.
type PolicyProvider interface {
	CurrentPolicy() Policy
}

// Policy bounds entry capture and retention. It is derived from a
// tier on demand and never persisted, so it cannot drift out of sync
// with the tier.
type Policy struct {
	MaxEntriesPerDay     int // 0 = unlimited
	MaxRecordingDuration time.Duration
	RetentionDays        int // <= 0 = no expiry
}

// PolicyFor maps a tier to its policy. Pure, no failure mode.
func PolicyFor(tier Tier) Policy {
	switch tier {
	case TierElevated:
		return Policy{
			MaxEntriesPerDay:     5,
			MaxRecordingDuration: 60 * time.Second,
			RetentionDays:        30,
		}
	case TierUnrestricted:
		return Policy{
			MaxEntriesPerDay:     0,
			MaxRecordingDuration: 120 * time.Second,
			RetentionDays:        90,
		}
	default:
		return Policy{
			MaxEntriesPerDay:     1,
			MaxRecordingDuration: 30 * time.Second,
			RetentionDays:        7,
		}
	}
}
