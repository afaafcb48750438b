// Package payments supplies the money rules the bidding engine enforces:
// minimum bid, increment, preset offsets and the processing fee schedule.
package payments

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"crowd-bidding/internal/biddingerrors"

	"github.com/shopspring/decimal"
)

// Default amounts in cents
const (
	DefaultMinimumBid   int64 = 500
	DefaultBidIncrement int64 = 500
	DefaultFeeFlat      int64 = 30
)

// DefaultPresetOffsets are added to the minimum winning bid to build preset buttons
var DefaultPresetOffsets = []int64{0, 500, 1000, 2000, 5000}

// DefaultFeePercent is the card processing percentage
var DefaultFeePercent = decimal.RequireFromString("2.9")

// Settings holds one organization's bidding money rules. Amounts are cents.
type Settings struct {
	MinimumBid    int64
	BidIncrement  int64
	PresetOffsets []int64
	FeePercent    decimal.Decimal
	FeeFlat       int64
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		MinimumBid:    DefaultMinimumBid,
		BidIncrement:  DefaultBidIncrement,
		PresetOffsets: append([]int64(nil), DefaultPresetOffsets...),
		FeePercent:    DefaultFeePercent,
		FeeFlat:       DefaultFeeFlat,
	}
}

// Validate rejects settings that would make bidding impossible
func (s Settings) Validate() error {
	if s.MinimumBid <= 0 {
		return fmt.Errorf("payments: %w - minimum bid must be positive", biddingerrors.ErrValidation)
	}
	if s.BidIncrement <= 0 {
		return fmt.Errorf("payments: %w - bid increment must be positive", biddingerrors.ErrValidation)
	}
	if s.FeePercent.IsNegative() || s.FeeFlat < 0 {
		return fmt.Errorf("payments: %w - negative fee", biddingerrors.ErrValidation)
	}
	return nil
}

// MinimumNextBid is the smallest acceptable bid given the round's winning amount.
// A round without bids only needs the minimum bid.
func (s Settings) MinimumNextBid(winning int64) int64 {
	if winning <= 0 {
		return s.MinimumBid
	}
	if next := winning + s.BidIncrement; next > s.MinimumBid {
		return next
	}
	return s.MinimumBid
}

// Fee returns the processing fee charged on top of amount
func (s Settings) Fee(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(amount).Mul(s.FeePercent).Div(decimal.NewFromInt(100))
	return pct.Round(0).IntPart() + s.FeeFlat
}

// SettingsProvider supplies payment settings per organization
type SettingsProvider interface {
	Settings(ctx context.Context, organizationID string) (Settings, error)
}

// StaticProvider serves config-loaded defaults with per-organization overrides
type StaticProvider struct {
	mu        sync.RWMutex
	defaults  Settings
	overrides map[string]Settings
}

// NewStaticProvider creates a provider that falls back to defaults
func NewStaticProvider(defaults Settings) *StaticProvider {
	return &StaticProvider{
		defaults:  defaults,
		overrides: make(map[string]Settings),
	}
}

// SetOverride replaces the settings for one organization
func (p *StaticProvider) SetOverride(organizationID string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[organizationID] = s
	return nil
}

// Settings returns the organization's settings
func (p *StaticProvider) Settings(_ context.Context, organizationID string) (Settings, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.overrides[organizationID]; ok {
		return s, nil
	}
	return p.defaults, nil
}

// FormatCents renders cents as a dollar string, e.g. 1500 -> "15.00"
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ParseDollars parses a dollar string such as "15" or "15.50" into cents.
// Fractions of a cent are rejected.
func ParseDollars(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("payments: %w - %q is not an amount", biddingerrors.ErrValidation, s)
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("payments: %w - %q has fractional cents", biddingerrors.ErrValidation, s)
	}
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, fmt.Errorf("payments: %w - %q is out of range", biddingerrors.ErrValidation, s)
	}
	return cents.IntPart(), nil
}

// DerivePresets builds the preset bid amounts shown to bidders: each offset
// over the minimum winning bid. Amounts at or below the current winning bid
// are dropped so a stale preset cannot be submitted after an outbid.
func DerivePresets(winning int64, s Settings) []int64 {
	base := s.MinimumNextBid(winning)
	offsets := s.PresetOffsets
	if len(offsets) == 0 {
		offsets = DefaultPresetOffsets
	}
	presets := make([]int64, 0, len(offsets))
	seen := make(map[int64]bool, len(offsets))
	for _, off := range offsets {
		amount := base + off
		if amount <= winning || off < 0 || seen[amount] {
			continue
		}
		seen[amount] = true
		presets = append(presets, amount)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i] < presets[j] })
	return presets
}
