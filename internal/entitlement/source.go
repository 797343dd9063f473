// Package entitlement resolves the current subscription tier. The
// purchase and receipt-verification protocol lives outside the
// engine; this package only maps its outcomes (product identifiers)
// onto tiers and holds the resolved value.
package entitlement

import (
	"fmt"
	"sync"

	"github.com/alurecine/daily-whisper/internal/model"
)

// Product identifiers sold by the store front.
const (
	ProductProMonthly = "com.dailywhisper.pro.monthly"
	ProductProYearly  = "com.dailywhisper.pro.yearly"
	ProductUnlimited  = "com.dailywhisper.unlimited"
)

var (
	_ model.TierSource     = (*Source)(nil)
	_ model.PolicyProvider = (*Source)(nil)
)

// Source holds the resolved subscription tier. Reads always see the
// latest value; sessions derive their policy through it on every use.
type Source struct {
	mu       sync.RWMutex
	tier     model.Tier
	onChange func(model.Tier)
}

// NewSource returns a Source starting at the given tier.
func NewSource(initial model.Tier) *Source {
	if initial == "" {
		initial = model.TierBase
	}
	return &Source{tier: initial}
}

// OnChange registers a hook invoked after every tier change, e.g. to
// persist the new tier. Must be called before the source is shared.
func (s *Source) OnChange(fn func(model.Tier)) {
	s.onChange = fn
}

// CurrentTier returns the tier as of now.
func (s *Source) CurrentTier() model.Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tier
}

// CurrentPolicy derives the policy from the current tier. Never
// cached, so tier changes take effect immediately.
func (s *Source) CurrentPolicy() model.Policy {
	return model.PolicyFor(s.CurrentTier())
}

// Set replaces the current tier.
func (s *Source) Set(tier model.Tier) {
	s.mu.Lock()
	changed := s.tier != tier
	s.tier = tier
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange(tier)
	}
}

// TierForProduct maps a purchased product identifier to its tier.
func TierForProduct(productID string) (model.Tier, error) {
	switch productID {
	case ProductProMonthly, ProductProYearly:
		return model.TierElevated, nil
	case ProductUnlimited:
		return model.TierUnrestricted, nil
	}
	return "", fmt.Errorf("unknown product: %q", productID)
}

// Apply resolves a purchase or restore result onto the current tier.
// An unknown product leaves the tier unchanged.
func (s *Source) Apply(productID string) error {
	tier, err := TierForProduct(productID)
	if err != nil {
		return err
	}
	s.Set(tier)
	return nil
}
