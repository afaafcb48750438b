// Package ledger is the append-only history of bids. It answers which bid is
// currently winning a round and what each request has been bid up to.
package ledger

import (
	"context"
	"fmt"
	"sort"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/models"
)

// BidStore is the storage the ledger appends to and reads from. Both the
// repository and its transactions satisfy it.
type BidStore interface {
	AppendBid(ctx context.Context, bid models.Bid) error
	BidsForRound(ctx context.Context, roundID string) ([]models.Bid, error)
	BidsForRequest(ctx context.Context, requestID string) ([]models.Bid, error)
}

// Ledger records bids and computes winners over a BidStore
type Ledger struct {
	store BidStore
}

// New creates a Ledger over store
func New(store BidStore) *Ledger {
	return &Ledger{store: store}
}

// RecordBid appends a bid. Existing entries are never touched.
func (l *Ledger) RecordBid(ctx context.Context, bid models.Bid) error {
	if bid.RoundID == "" || bid.RequestID == "" {
		return fmt.Errorf("ledger: %w - bid without round or request", biddingerrors.ErrValidation)
	}
	if err := l.store.AppendBid(ctx, bid); err != nil {
		return fmt.Errorf("ledger: record bid %s: %w", bid.BidID, err)
	}
	return nil
}

// CurrentWinningBid returns the highest bid placed in a round. It returns
// ErrNoBids when the round has none.
func (l *Ledger) CurrentWinningBid(ctx context.Context, roundID string) (models.Bid, error) {
	bids, err := l.store.BidsForRound(ctx, roundID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("ledger: bids for round %s: %w", roundID, err)
	}
	winning, ok := Winning(bids)
	if !ok {
		return models.Bid{}, fmt.Errorf("ledger: round %s: %w", roundID, biddingerrors.ErrNoBids)
	}
	return winning, nil
}

// BidsForRound returns the round's bids in ledger order
func (l *Ledger) BidsForRound(ctx context.Context, roundID string) ([]models.Bid, error) {
	bids, err := l.store.BidsForRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("ledger: bids for round %s: %w", roundID, err)
	}
	return bids, nil
}

// BidsForRequest returns every bid placed on a request, oldest first
func (l *Ledger) BidsForRequest(ctx context.Context, requestID string) ([]models.Bid, error) {
	bids, err := l.store.BidsForRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("ledger: bids for request %s: %w", requestID, err)
	}
	SortOldestFirst(bids)
	return bids, nil
}

// Winning picks the highest amount. Equal amounts go to the earlier bid,
// and equal timestamps to the earlier ledger entry.
func Winning(bids []models.Bid) (models.Bid, bool) {
	if len(bids) == 0 {
		return models.Bid{}, false
	}
	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winning.Amount || (b.Amount == winning.Amount && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, true
}

// HighestByRequest returns the highest amount bid on each request
func HighestByRequest(bids []models.Bid) map[string]int64 {
	highest := make(map[string]int64)
	for _, b := range bids {
		if b.Amount > highest[b.RequestID] {
			highest[b.RequestID] = b.Amount
		}
	}
	return highest
}

// OnlyRequests keeps the bids placed on the given requests
func OnlyRequests(bids []models.Bid, requestIDs map[string]bool) []models.Bid {
	kept := make([]models.Bid, 0, len(bids))
	for _, b := range bids {
		if requestIDs[b.RequestID] {
			kept = append(kept, b)
		}
	}
	return kept
}

// SortOldestFirst orders bids by timestamp, keeping ledger order for ties
func SortOldestFirst(bids []models.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].CreatedAt.Before(bids[j].CreatedAt)
	})
}
