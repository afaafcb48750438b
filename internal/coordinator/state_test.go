package coordinator

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"crowd-bidding/internal/biddingerrors"

	"github.com/stretchr/testify/require"
)

func activeRound(winning int64, remaining time.Duration) RoundView {
	return RoundView{
		Active:        true,
		RoundID:       "round1",
		RoundNumber:   1,
		TimeRemaining: remaining,
		WinningAmount: winning,
		MinimumBid:    500,
		Increment:     500,
	}
}

func TestMinimumToWinAndPresets(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(500), MinimumToWin(0, 500, 500))
	require.Equal(t, int64(2000), MinimumToWin(1500, 500, 500))
	require.Equal(t, int64(1000), MinimumToWin(200, 100, 1000))

	require.Equal(t, []int64{500, 1000, 1500, 2500, 5500}, DerivePresets(0, 500, 500))
	require.Equal(t, []int64{2000, 2500, 3000, 4000, 7000}, DerivePresets(1500, 500, 500))
}

func TestValidateBid(t *testing.T) {
	t.Parallel()
	loaded := Reduce(Snapshot{}, Event{Kind: EventRoundLoaded, Round: activeRound(1500, time.Minute)})

	tests := []struct {
		name        string
		snap        Snapshot
		amount      int64
		expectedErr error
	}{
		{name: "valid_minimum", snap: loaded, amount: 2000},
		{name: "valid_above_minimum", snap: loaded, amount: 9900},
		{name: "equal_to_winning", snap: loaded, amount: 1500, expectedErr: biddingerrors.ErrBidTooLow},
		{name: "between_winning_and_minimum", snap: loaded, amount: 1900, expectedErr: biddingerrors.ErrBidTooLow},
		{name: "no_round", snap: Snapshot{}, amount: 2000, expectedErr: biddingerrors.ErrRoundClosed},
		{
			name:        "countdown_finished",
			snap:        Reduce(Snapshot{}, Event{Kind: EventRoundLoaded, Round: activeRound(0, 0)}),
			amount:      2000,
			expectedErr: biddingerrors.ErrRoundClosed,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateBid(tc.snap, tc.amount)
			if tc.expectedErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}

	var tooLow *biddingerrors.BidTooLowError
	require.ErrorAs(t, ValidateBid(loaded, 1500), &tooLow)
	require.Equal(t, int64(2000), tooLow.MinimumAmount)
}

func TestReduce_PollCycle(t *testing.T) {
	t.Parallel()

	s := Reduce(Snapshot{State: StateIdle}, Event{Kind: EventPollTick})
	require.Equal(t, StatePolling, s.State)

	round := activeRound(1000, 90*time.Second)
	round.Presets = []int64{500, 1500, 2000}
	s = Reduce(s, Event{Kind: EventRoundLoaded, Round: round})
	require.Equal(t, StateIdle, s.State)
	require.Equal(t, 90*time.Second, s.Remaining)
	require.Equal(t, int64(1500), s.MinimumToWin)
	require.Equal(t, []int64{1500, 2000}, s.Presets, "server presets at or below winning are dropped")

	s = Reduce(s, Event{Kind: EventPollFailed, Err: errors.New("connection refused")})
	require.Equal(t, StateError, s.State)
	require.NotEmpty(t, s.Notice)
	require.Equal(t, int64(1500), s.MinimumToWin, "last known round is kept")

	s = Reduce(s, Event{Kind: EventRoundLoaded, Round: activeRound(1000, 80*time.Second)})
	require.Equal(t, StateIdle, s.State)
	require.NoError(t, s.LastErr)
	require.Empty(t, s.Notice)
	require.Equal(t, []int64{1500, 2000, 2500, 3500, 6500}, s.Presets, "derived when the server sends none")

	s = Reduce(s, Event{Kind: EventRoundLoaded, Round: RoundView{MinimumBid: 500, Increment: 500}})
	require.False(t, s.Round.Active)
	require.Equal(t, time.Duration(0), s.Remaining)
}

func TestReduce_Countdown(t *testing.T) {
	t.Parallel()

	s := Reduce(Snapshot{}, Event{Kind: EventRoundLoaded, Round: activeRound(0, 2*time.Second)})
	s = Reduce(s, Event{Kind: EventCountdownTick})
	require.Equal(t, time.Second, s.Remaining)
	require.False(t, s.RefreshNow)

	s = Reduce(s, Event{Kind: EventCountdownTick})
	require.Equal(t, time.Duration(0), s.Remaining)
	require.True(t, s.RefreshNow, "expiry asks for a refresh")

	s = Reduce(s, Event{Kind: EventCountdownTick})
	require.Equal(t, time.Duration(0), s.Remaining, "never negative")

	s = Reduce(s, Event{Kind: EventPollTick})
	require.False(t, s.RefreshNow)
}

func TestReduce_BidOutcomes(t *testing.T) {
	t.Parallel()
	loaded := Reduce(Snapshot{}, Event{Kind: EventRoundLoaded, Round: activeRound(1000, time.Minute)})
	submitted := Reduce(loaded, Event{Kind: EventBidSubmitted, Bid: BidRequest{RequestID: "req1", Amount: 1500}})

	t.Run("submitted", func(t *testing.T) {
		require.Equal(t, StateSubmitting, submitted.State)
		require.Equal(t, int64(1500), submitted.PendingAmount)

		// polls do not take the coordinator out of submitting
		s := Reduce(submitted, Event{Kind: EventPollTick})
		require.Equal(t, StateSubmitting, s.State)
		s = Reduce(s, Event{Kind: EventRoundLoaded, Round: activeRound(1000, time.Minute)})
		require.Equal(t, StateSubmitting, s.State)
		s = Reduce(s, Event{Kind: EventPollFailed, Err: errors.New("timeout")})
		require.Equal(t, StateSubmitting, s.State)
	})

	t.Run("accepted", func(t *testing.T) {
		s := Reduce(submitted, Event{Kind: EventBidAccepted, Receipt: BidReceipt{BidID: "bid1", WinningAmount: 1500, ProcessingFee: 74, TotalCharge: 1574}})
		require.Equal(t, StateIdle, s.State)
		require.Equal(t, int64(0), s.PendingAmount)
		require.Equal(t, "bid1", s.LastReceipt.BidID)
		require.Equal(t, int64(2000), s.MinimumToWin)
		require.Equal(t, "You are leading with $15.00 (total charge $15.74)", s.Notice)
		require.True(t, s.RefreshNow)
	})

	t.Run("outbid", func(t *testing.T) {
		err := fmt.Errorf("coordinator: %w", &biddingerrors.BidTooLowError{WinningAmount: 1500, MinimumAmount: 2000})
		s := Reduce(submitted, Event{Kind: EventBidRejected, Err: err})
		require.Equal(t, StateError, s.State)
		require.Equal(t, int64(0), s.PendingAmount)
		require.Equal(t, int64(1500), s.Round.WinningAmount)
		require.Equal(t, int64(2000), s.MinimumToWin)
		require.Equal(t, int64(2000), s.Presets[0])
		require.Equal(t, "Outbid: the leading bid is now $15.00, bid at least $20.00", s.Notice)
		require.True(t, s.RefreshNow)
		require.NoError(t, ValidateBid(s, 2000), "bidder can re-bid from the rejection alone")
	})

	t.Run("round_closed", func(t *testing.T) {
		s := Reduce(submitted, Event{Kind: EventBidRejected, Err: biddingerrors.ErrRoundClosed})
		require.Equal(t, "This round has closed", s.Notice)
		require.True(t, s.RefreshNow)
		require.Equal(t, int64(0), s.PendingAmount)
	})

	t.Run("transient_failure_keeps_amount", func(t *testing.T) {
		s := Reduce(submitted, Event{Kind: EventBidRejected, Err: fmt.Errorf("%w: reset", biddingerrors.ErrStorage)})
		require.Equal(t, StateError, s.State)
		require.Equal(t, int64(1500), s.PendingAmount)
		require.False(t, s.RefreshNow)
	})

	t.Run("validation_failure", func(t *testing.T) {
		s := Reduce(submitted, Event{Kind: EventBidRejected, Err: biddingerrors.ErrValidation})
		require.Equal(t, "Your bid could not be placed", s.Notice)
		require.Equal(t, int64(0), s.PendingAmount)
	})
}
