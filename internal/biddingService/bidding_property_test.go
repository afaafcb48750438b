package bidding

import (
	"context"
	"errors"
	"testing"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/ledger"
	model "crowd-bidding/internal/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPlaceBidProperties checks the round's winning amount only ever rises by at
// least the increment and that every rejection reports the amounts that applied.
func TestPlaceBidProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("accepted bids strictly increase by at least the increment", prop.ForAll(
		func(amounts []int64, target int) bool {
			env := newTestEnv(t)
			const org = "org-prop"
			requests := []model.Request{env.song(t, org, "A"), env.song(t, org, "B"), env.song(t, org, "C")}
			var round model.BiddingRound
			for _, r := range requests {
				round = env.join(t, org, r)
			}

			var winning int64
			for i, amount := range amounts {
				req := requests[(target+i)%len(requests)]
				res, err := env.bid(org, round, req, amount, "bidder")

				minimum := int64(500)
				if winning > 0 {
					minimum = winning + 500
				}
				if amount < minimum {
					var tooLow *biddingerrors.BidTooLowError
					if !errors.As(err, &tooLow) {
						t.Logf("amount %d under minimum %d was not rejected: %v", amount, minimum, err)
						return false
					}
					if tooLow.WinningAmount != winning || tooLow.MinimumAmount != minimum {
						t.Logf("rejection reported %d/%d, want %d/%d", tooLow.WinningAmount, tooLow.MinimumAmount, winning, minimum)
						return false
					}
					continue
				}
				if err != nil {
					t.Logf("amount %d over minimum %d was rejected: %v", amount, minimum, err)
					return false
				}
				if res.WinningAmount != amount || res.WinningAmount <= winning {
					t.Logf("winning amount went from %d to %d", winning, res.WinningAmount)
					return false
				}
				winning = res.WinningAmount
			}

			state, err := env.svc.GetCurrentRound(context.Background(), org)
			if err != nil {
				return false
			}
			return state.WinningAmount == winning
		},
		gen.SliceOf(gen.Int64Range(1, 10000)),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestRoundClosureProperties checks closure picks the ledger's winner, leaves
// exactly one request won and returns every other request to pending.
func TestRoundClosureProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("closure is decided by the ledger and runs once", prop.ForAll(
		func(amounts []int64, size int) bool {
			env := newTestEnv(t)
			const org = "org-close-prop"
			requests := make([]model.Request, size)
			var round model.BiddingRound
			for i := range requests {
				requests[i] = env.song(t, org, "Song")
				round = env.join(t, org, requests[i])
			}
			for i, amount := range amounts {
				_, _ = env.bid(org, round, requests[i%size], amount, "bidder")
			}

			var expected string
			var all []model.Bid
			for _, r := range requests {
				b, err := env.svc.BidsForRequest(context.Background(), r.RequestID)
				if err != nil {
					return false
				}
				all = append(all, b...)
			}
			if w, ok := ledger.Winning(all); ok {
				expected = w.RequestID
			} else {
				expected = requests[0].RequestID
			}

			env.clock.Advance(DefaultRoundDuration)
			for i := 0; i < 2; i++ {
				if _, err := env.svc.CloseExpiredRounds(context.Background()); err != nil {
					return false
				}
			}
			if len(env.pub.events()) != 1 {
				t.Logf("closed %d times", len(env.pub.events()))
				return false
			}

			won := 0
			for _, r := range requests {
				status := env.status(t, r)
				switch {
				case status == model.RequestWon:
					won++
					if r.RequestID != expected {
						t.Logf("request %s won, want %s", r.RequestID, expected)
						return false
					}
				case status != model.RequestPending:
					t.Logf("request %s left in %s", r.RequestID, status)
					return false
				}
			}
			return won == 1
		},
		gen.SliceOf(gen.Int64Range(1, 10000)),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
