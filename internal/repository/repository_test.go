package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"crowd-bidding/internal/biddingerrors"
	model "crowd-bidding/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to create a new pending song request
func newRequest(requestID, organizationID string, createdAt time.Time) model.Request {
	return model.Request{
		RequestID:      requestID,
		OrganizationID: organizationID,
		Type:           model.RequestTypeSong,
		SongTitle:      fmt.Sprintf("%s title", requestID),
		RequesterName:  "guest",
		Status:         model.RequestPending,
		CreatedAt:      createdAt,
	}
}

// Helper to create a new active round
func newRound(roundID, organizationID string, number int) model.BiddingRound {
	now := time.Now().UTC()
	return model.BiddingRound{
		RoundID:        roundID,
		OrganizationID: organizationID,
		RoundNumber:    number,
		StartedAt:      now,
		EndsAt:         now.Add(5 * time.Minute),
		Status:         model.RoundActive,
	}
}

// Helper to create a new Bid
func newBid(bidID, requestID, roundID string, amount int64, createdAt time.Time) model.Bid {
	return model.Bid{
		BidID:          bidID,
		RequestID:      requestID,
		RoundID:        roundID,
		OrganizationID: "org1",
		Amount:         amount,
		BidderName:     "bidder",
		CreatedAt:      createdAt,
	}
}

// Test CreateRequest and GetRequest
func TestMemoryRepo_CreateAndGetRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()

	req := newRequest("req1", "org1", time.Now())
	require.NoError(t, repo.CreateRequest(ctx, req))

	got, err := repo.GetRequest(ctx, "req1")
	require.NoError(t, err)
	require.Equal(t, req, got)

	err = repo.CreateRequest(ctx, req)
	require.ErrorIs(t, err, biddingerrors.ErrValidation, "duplicate id")

	_, err = repo.GetRequest(ctx, "missing")
	require.ErrorIs(t, err, biddingerrors.ErrRequestNotFound)
}

// Test AppendBid inside a tenant transaction
func TestMemoryRepo_AppendBid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateRequest(ctx, newRequest("req1", "org1", time.Now())))
	require.NoError(t, repo.InTenantTx(ctx, "org1", func(tx Tx) error {
		return tx.CreateRound(ctx, newRound("round1", "org1", 1))
	}))

	// Table-driven test cases
	tests := []struct {
		name        string
		bid         model.Bid
		expectedErr error
	}{
		{name: "valid_bid", bid: newBid("bid1", "req1", "round1", 500, time.Now())},
		{name: "round_not_found", bid: newBid("bid2", "req1", "roundX", 500, time.Now()), expectedErr: biddingerrors.ErrRoundNotFound},
		{name: "request_not_found", bid: newBid("bid3", "reqX", "round1", 500, time.Now()), expectedErr: biddingerrors.ErrRequestNotFound},
		{name: "bid_with_past_timestamp", bid: newBid("bid4", "req1", "round1", 1000, time.Now().Add(-time.Hour))},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := repo.InTenantTx(ctx, "org1", func(tx Tx) error {
				return tx.AppendBid(ctx, tc.bid)
			})
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			bids, err := repo.BidsForRequest(ctx, tc.bid.RequestID)
			require.NoError(t, err)
			require.Contains(t, bids, tc.bid)
		})
	}
}

// Test round lifecycle: one active round per organization
func TestMemoryRepo_RoundLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()

	err := repo.InTenantTx(ctx, "org1", func(tx Tx) error {
		_, err := tx.ActiveRound(ctx, "org1")
		require.ErrorIs(t, err, biddingerrors.ErrNoActiveRound)

		n, err := tx.LatestRoundNumber(ctx, "org1")
		require.NoError(t, err)
		require.Equal(t, 0, n)

		round := newRound("round1", "org1", 1)
		require.NoError(t, tx.CreateRound(ctx, round))
		require.ErrorIs(t, tx.CreateRound(ctx, newRound("round2", "org1", 2)), biddingerrors.ErrActiveRoundTaken)

		active, err := tx.ActiveRound(ctx, "org1")
		require.NoError(t, err)
		require.Equal(t, "round1", active.RoundID)

		round.Status = model.RoundClosed
		round.ClosedAt = time.Now().UTC()
		require.NoError(t, tx.UpdateRound(ctx, round))

		_, err = tx.ActiveRound(ctx, "org1")
		require.ErrorIs(t, err, biddingerrors.ErrNoActiveRound)

		n, err = tx.LatestRoundNumber(ctx, "org1")
		require.NoError(t, err)
		require.Equal(t, 1, n)

		require.NoError(t, tx.CreateRound(ctx, newRound("round2", "org1", 2)))
		require.ErrorIs(t, tx.UpdateRound(ctx, newRound("roundX", "org1", 9)), biddingerrors.ErrRoundNotFound)

		_, err = tx.GetRound(ctx, "roundX")
		require.ErrorIs(t, err, biddingerrors.ErrRoundNotFound)
		return nil
	})
	require.NoError(t, err)

	orgs, err := repo.OrganizationsWithActiveRounds(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"org1"}, orgs)
}

// Test RequestsInRound follows request status changes
func TestMemoryRepo_RequestsInRound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()
	base := time.Now()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.CreateRequest(ctx, newRequest(fmt.Sprintf("req%d", i), "org1", base.Add(time.Duration(i)*time.Second))))
	}

	err := repo.InTenantTx(ctx, "org1", func(tx Tx) error {
		require.NoError(t, tx.CreateRound(ctx, newRound("round1", "org1", 1)))
		for _, id := range []string{"req2", "req1", "req3"} {
			req, err := tx.GetRequest(ctx, id)
			require.NoError(t, err)
			req.Status = model.RequestInRound
			req.RoundID = "round1"
			require.NoError(t, tx.UpdateRequest(ctx, req))
			// updating again must not list the request twice
			require.NoError(t, tx.UpdateRequest(ctx, req))
		}

		inRound, err := tx.RequestsInRound(ctx, "round1")
		require.NoError(t, err)
		require.Len(t, inRound, 3)
		require.Equal(t, "req2", inRound[0].RequestID, "join order")

		req3, err := tx.GetRequest(ctx, "req3")
		require.NoError(t, err)
		req3.Status = model.RequestRejected
		req3.RoundID = ""
		require.NoError(t, tx.UpdateRequest(ctx, req3))

		inRound, err = tx.RequestsInRound(ctx, "round1")
		require.NoError(t, err)
		require.Len(t, inRound, 2)

		require.ErrorIs(t, tx.UpdateRequest(ctx, newRequest("missing", "org1", base)), biddingerrors.ErrRequestNotFound)
		return nil
	})
	require.NoError(t, err)

	rejected, err := repo.RequestsByStatus(ctx, "org1", model.RequestRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)

	inRound, err := repo.RequestsByStatus(ctx, "org1", model.RequestInRound)
	require.NoError(t, err)
	require.Equal(t, "req1", inRound[0].RequestID, "oldest first")

	none, err := repo.RequestsByStatus(ctx, "org2", model.RequestInRound)
	require.NoError(t, err)
	require.Empty(t, none)
}

// Test InTenantTx serializes transactions of the same organization
func TestMemoryRepo_InTenantTxSerializes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMemoryRepo()

	var wg sync.WaitGroup
	var mu sync.Mutex
	inside, maxInside := 0, 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.InTenantTx(ctx, "org1", func(tx Tx) error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxInside)
}

// Test InTenantTx refuses a cancelled context
func TestMemoryRepo_InTenantTxCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewMemoryRepo().InTenantTx(ctx, "org1", func(tx Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}
