package coordinator

import (
	"errors"
	"fmt"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/payments"
)

// State is the coordinator's lifecycle state
type State string

const (
	StateIdle       State = "idle"
	StatePolling    State = "polling"
	StateSubmitting State = "submitting"
	StateError      State = "error"
)

// EventKind names what happened
type EventKind string

const (
	EventPollTick      EventKind = "pollTick"
	EventRoundLoaded   EventKind = "roundLoaded"
	EventPollFailed    EventKind = "pollFailed"
	EventBidSubmitted  EventKind = "bidSubmitted"
	EventBidAccepted   EventKind = "bidAccepted"
	EventBidRejected   EventKind = "bidRejected"
	EventCountdownTick EventKind = "countdownTick"
)

// Event is a message fed to Reduce. Only the fields of its kind are set.
type Event struct {
	Kind    EventKind
	Round   RoundView  // roundLoaded
	Bid     BidRequest // bidSubmitted
	Receipt BidReceipt // bidAccepted
	Err     error      // pollFailed, bidRejected
}

// Snapshot is everything a bidder's screen shows
type Snapshot struct {
	State        State
	Round        RoundView
	Remaining    time.Duration
	MinimumToWin int64
	Presets      []int64

	// PendingAmount is the amount being submitted, kept after a transient failure
	PendingAmount int64
	LastReceipt   *BidReceipt
	LastErr       error
	Notice        string

	// RefreshNow asks the runtime to poll without waiting for the interval
	RefreshNow bool
}

// MinimumToWin is the smallest bid that would take the lead
func MinimumToWin(winning, increment, minimumBid int64) int64 {
	return payments.Settings{MinimumBid: minimumBid, BidIncrement: increment}.MinimumNextBid(winning)
}

// DerivePresets returns the preset amounts offered for a one-tap bid: the
// default offsets over the minimum to win, excluding anything not above winning.
func DerivePresets(winning, increment, minimumBid int64) []int64 {
	return payments.DerivePresets(winning, payments.Settings{
		MinimumBid:    minimumBid,
		BidIncrement:  increment,
		PresetOffsets: payments.DefaultPresetOffsets,
	})
}

// ValidateBid checks amount against the last known round before any request is sent
func ValidateBid(s Snapshot, amount int64) error {
	if !s.Round.Active {
		return fmt.Errorf("coordinator: %w - no active round", biddingerrors.ErrRoundClosed)
	}
	if s.Remaining <= 0 {
		return fmt.Errorf("coordinator: %w - round %d has ended", biddingerrors.ErrRoundClosed, s.Round.RoundNumber)
	}
	if amount <= s.Round.WinningAmount || amount < s.MinimumToWin {
		return &biddingerrors.BidTooLowError{WinningAmount: s.Round.WinningAmount, MinimumAmount: s.MinimumToWin}
	}
	return nil
}

// Reduce applies ev to s and returns the next snapshot. It has no side effects.
func Reduce(s Snapshot, ev Event) Snapshot {
	switch ev.Kind {
	case EventPollTick:
		s.RefreshNow = false
		if s.State != StateSubmitting {
			s.State = StatePolling
		}

	case EventRoundLoaded:
		s.Round = ev.Round
		s.Remaining = ev.Round.TimeRemaining
		s.MinimumToWin = MinimumToWin(ev.Round.WinningAmount, ev.Round.Increment, ev.Round.MinimumBid)
		s.Presets = presetsFor(ev.Round)
		if !ev.Round.Active {
			s.Remaining = 0
		}
		if s.State != StateSubmitting {
			s.State = StateIdle
			if isPollErr(s.LastErr) {
				s.LastErr = nil
				s.Notice = ""
			}
		}

	case EventPollFailed:
		if s.State != StateSubmitting {
			s.State = StateError
			s.LastErr = pollError{ev.Err}
			s.Notice = "Could not refresh the round, retrying"
		}

	case EventBidSubmitted:
		s.State = StateSubmitting
		s.PendingAmount = ev.Bid.Amount
		s.LastErr = nil
		s.Notice = ""

	case EventBidAccepted:
		receipt := ev.Receipt
		s.State = StateIdle
		s.LastReceipt = &receipt
		s.PendingAmount = 0
		s.LastErr = nil
		s.Round.WinningAmount = receipt.WinningAmount
		s.MinimumToWin = MinimumToWin(receipt.WinningAmount, s.Round.Increment, s.Round.MinimumBid)
		s.Presets = DerivePresets(receipt.WinningAmount, s.Round.Increment, s.Round.MinimumBid)
		s.Notice = fmt.Sprintf("You are leading with $%s (total charge $%s)",
			payments.FormatCents(receipt.WinningAmount), payments.FormatCents(receipt.TotalCharge))
		s.RefreshNow = true

	case EventBidRejected:
		s = rejected(s, ev.Err)

	case EventCountdownTick:
		if s.Round.Active && s.Remaining > 0 {
			s.Remaining -= time.Second
			if s.Remaining <= 0 {
				s.Remaining = 0
				s.RefreshNow = true
			}
		}
	}
	return s
}

func rejected(s Snapshot, err error) Snapshot {
	s.State = StateError
	s.LastErr = err

	var tooLow *biddingerrors.BidTooLowError
	switch {
	case errors.As(err, &tooLow):
		s.PendingAmount = 0
		s.Round.WinningAmount = tooLow.WinningAmount
		s.MinimumToWin = tooLow.MinimumAmount
		s.Presets = DerivePresets(tooLow.WinningAmount, s.Round.Increment, s.Round.MinimumBid)
		s.Notice = fmt.Sprintf("Outbid: the leading bid is now $%s, bid at least $%s",
			payments.FormatCents(tooLow.WinningAmount), payments.FormatCents(tooLow.MinimumAmount))
		s.RefreshNow = true
	case errors.Is(err, biddingerrors.ErrRoundClosed):
		s.PendingAmount = 0
		s.Notice = "This round has closed"
		s.RefreshNow = true
	case errors.Is(err, biddingerrors.ErrStorage):
		s.Notice = "Something went wrong, please try again"
	default:
		s.PendingAmount = 0
		s.Notice = "Your bid could not be placed"
	}
	return s
}

// presetsFor prefers the server's presets and falls back to local derivation
func presetsFor(r RoundView) []int64 {
	if len(r.Presets) > 0 {
		out := make([]int64, 0, len(r.Presets))
		for _, p := range r.Presets {
			if p > r.WinningAmount {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return DerivePresets(r.WinningAmount, r.Increment, r.MinimumBid)
}

// pollError marks errors that came from polling so a later successful poll clears them
type pollError struct{ err error }

func (e pollError) Error() string { return e.err.Error() }
func (e pollError) Unwrap() error { return e.err }

func isPollErr(err error) bool {
	var pe pollError
	return errors.As(err, &pe)
}
