package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name string
		tier Tier
		want Policy
	}{
		{
			name: "base",
			tier: TierBase,
			want: Policy{MaxEntriesPerDay: 1, MaxRecordingDuration: 30 * time.Second, RetentionDays: 7},
		},
		{
			name: "elevated",
			tier: TierElevated,
			want: Policy{MaxEntriesPerDay: 5, MaxRecordingDuration: 60 * time.Second, RetentionDays: 30},
		},
		{
			name: "unrestricted",
			tier: TierUnrestricted,
			want: Policy{MaxEntriesPerDay: 0, MaxRecordingDuration: 120 * time.Second, RetentionDays: 90},
		},
		{
			name: "unknown tier falls back to base limits",
			tier: Tier("vip"),
			want: Policy{MaxEntriesPerDay: 1, MaxRecordingDuration: 30 * time.Second, RetentionDays: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyFor(tt.tier))
		})
	}
}

func TestParseTier(t *testing.T) {
	for _, raw := range []string{"base", "elevated", "unrestricted"} {
		tier, err := ParseTier(raw)
		require.NoError(t, err)
		assert.Equal(t, Tier(raw), tier)
	}

	_, err := ParseTier("pro")
	assert.Error(t, err)
}

func TestParseEmotion(t *testing.T) {
	e, err := ParseEmotion("calm")
	require.NoError(t, err)
	assert.Equal(t, EmotionCalm, e)

	_, err = ParseEmotion("euphoric")
	assert.Error(t, err)
}

func TestDayRange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	at := time.Date(2025, 3, 9, 23, 30, 0, 0, loc)
	from, to := DayRange(at)

	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), to)
	assert.True(t, at.After(from) && at.Before(to))
}
