package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	bidding "crowd-bidding/internal/biddingService"
	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/services/bidding/helpers"

	"github.com/stretchr/testify/require"
)

func submitSong(t *testing.T, env *TestEnv, org, title string) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/requests", "", helpers.SubmitRequestRequest{
		OrganizationID: org,
		Type:           "song_request",
		SongTitle:      title,
		RequesterName:  "guest",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	env.Clock.Advance(time.Millisecond)
	return Data(resp)["requestId"].(string)
}

func addToRound(t *testing.T, env *TestEnv, org, requestID string) map[string]any {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bidding/add-request-to-round", "", helpers.AddRequestToRoundRequest{
		RequestID:      requestID,
		OrganizationID: org,
	})
	require.Equal(t, http.StatusOK, w.Code)
	env.Clock.Advance(time.Millisecond)
	return Data(resp)
}

func placeBid(t *testing.T, env *TestEnv, org, roundID, requestID string, amount int64) (map[string]any, int) {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bidding/place-bid", "", helpers.PlaceBidRequest{
		RequestID:      requestID,
		BiddingRoundID: roundID,
		BidAmount:      amount,
		BidderName:     "bidder",
		OrganizationID: org,
	})
	env.Clock.Advance(time.Millisecond)
	return resp, w.Code
}

func currentRound(t *testing.T, env *TestEnv, org string) map[string]any {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/bidding/current-round?organizationId="+org, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return Data(resp)
}

func requestStatus(t *testing.T, env *TestEnv, requestID string) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/requests/"+requestID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return Data(resp)["status"].(string)
}

// Bids at the winning amount are rejected with the amounts needed to re-bid
func TestPlaceBid_IncrementEnforced(t *testing.T) {
	env := SetupTestRouter()
	const org = "venue-a"

	req := submitSong(t, env, org, "September")
	roundID := addToRound(t, env, org, req)["biddingRoundId"].(string)

	tests := []struct {
		name        string
		amount      int64
		wantStatus  int
		wantWinning int64
		wantMinimum int64
	}{
		{name: "Below_Minimum", amount: 400, wantStatus: http.StatusConflict, wantWinning: 0, wantMinimum: 500},
		{name: "First_Bid", amount: 500, wantStatus: http.StatusCreated, wantWinning: 500},
		{name: "Equal_Bid", amount: 500, wantStatus: http.StatusConflict, wantWinning: 500, wantMinimum: 1000},
		{name: "Under_Increment", amount: 900, wantStatus: http.StatusConflict, wantWinning: 500, wantMinimum: 1000},
		{name: "Full_Increment", amount: 1000, wantStatus: http.StatusCreated, wantWinning: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, code := placeBid(t, env, org, roundID, req, tt.amount)
			require.Equal(t, tt.wantStatus, code)
			data := Data(resp)
			require.Equal(t, float64(tt.wantWinning), data["winningBidAmount"])
			if code == http.StatusConflict {
				require.Equal(t, biddingerrors.CodeBidTooLow, resp["code"])
				require.Equal(t, float64(tt.wantMinimum), data["minimumBidAmount"])
			}
		})
	}

	state := currentRound(t, env, org)
	require.Equal(t, 1000.0, state["winningBidAmount"])
	require.Equal(t, 1500.0, state["minimumBidAmount"])
}

// An expired round is closed by the next poll; the leader wins and the rest return to pending
func TestRoundExpiry_ClosesOnRead(t *testing.T) {
	env := SetupTestRouter()
	const org = "venue-b"

	leader := submitSong(t, env, org, "Leader")
	other := submitSong(t, env, org, "Other")
	roundID := addToRound(t, env, org, leader)["biddingRoundId"].(string)
	addToRound(t, env, org, other)

	_, code := placeBid(t, env, org, roundID, leader, 500)
	require.Equal(t, http.StatusCreated, code)
	_, code = placeBid(t, env, org, roundID, other, 1000)
	require.Equal(t, http.StatusCreated, code)
	_, code = placeBid(t, env, org, roundID, leader, 1500)
	require.Equal(t, http.StatusCreated, code)

	env.Clock.Advance(bidding.DefaultRoundDuration)

	state := currentRound(t, env, org)
	require.Equal(t, false, state["active"])
	require.Equal(t, "won", requestStatus(t, env, leader))
	require.Equal(t, "pending", requestStatus(t, env, other))

	resp, code := placeBid(t, env, org, roundID, other, 5000)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, biddingerrors.CodeRoundClosed, resp["code"])

	// the losing request competes again in the next round
	next := addToRound(t, env, org, other)
	require.NotEqual(t, roundID, next["biddingRoundId"])
	require.Equal(t, 2.0, next["round"].(map[string]any)["roundNumber"])
}

// Two equal concurrent bids: exactly one is accepted
func TestPlaceBid_ConcurrentEqualBids(t *testing.T) {
	env := SetupTestRouter()
	const org = "venue-c"

	a := submitSong(t, env, org, "A")
	b := submitSong(t, env, org, "B")
	roundID := addToRound(t, env, org, a)["biddingRoundId"].(string)
	addToRound(t, env, org, b)
	_, code := placeBid(t, env, org, roundID, a, 1000)
	require.Equal(t, http.StatusCreated, code)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, req := range []string{a, b} {
		wg.Add(1)
		go func(i int, req string) {
			defer wg.Done()
			_, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bidding/place-bid", "", helpers.PlaceBidRequest{
				RequestID: req, BiddingRoundID: roundID, BidAmount: 1500, BidderName: "racer", OrganizationID: org,
			})
			codes[i] = w.Code
		}(i, req)
	}
	wg.Wait()

	require.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes)
	require.Equal(t, 1500.0, currentRound(t, env, org)["winningBidAmount"])
}

// Each organization has its own round and numbering
func TestRounds_IsolatedPerOrganization(t *testing.T) {
	env := SetupTestRouter()

	for i := 0; i < 3; i++ {
		org := fmt.Sprintf("venue-%d", i)
		req := submitSong(t, env, org, "Song")
		round := addToRound(t, env, org, req)["round"].(map[string]any)
		require.Equal(t, 1.0, round["roundNumber"])
	}

	foreign := submitSong(t, env, "venue-0", "Foreign")
	_, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bidding/add-request-to-round", "", helpers.AddRequestToRoundRequest{
		RequestID: foreign, OrganizationID: "venue-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// Operator flow: open, queue, mark played, reject
func TestOperatorFlow(t *testing.T) {
	env := SetupTestRouter()
	const org = "venue-ops"
	token := OperatorToken(t, org)

	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/operator/rounds", token, helpers.OrganizationRequest{OrganizationID: org})
	require.Equal(t, http.StatusCreated, w.Code)
	roundID := Data(resp)["id"].(string)

	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/operator/rounds", token, helpers.OrganizationRequest{OrganizationID: org})
	require.Equal(t, http.StatusOK, w.Code)

	song := submitSong(t, env, org, "Closer")
	spam := submitSong(t, env, org, "Spam")
	require.Equal(t, roundID, addToRound(t, env, org, song)["biddingRoundId"])
	addToRound(t, env, org, spam)

	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/operator/requests/"+spam+"/reject", token, helpers.OrganizationRequest{OrganizationID: org})
	require.Equal(t, http.StatusOK, w.Code)

	env.Clock.Advance(bidding.DefaultRoundDuration)

	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/operator/queue?organizationId="+org, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := resp["data"].([]any)
	require.Len(t, queue, 1)
	require.Equal(t, song, queue[0].(map[string]any)["requestId"])

	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/operator/requests/"+song+"/played", token, helpers.OrganizationRequest{OrganizationID: org})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "played", requestStatus(t, env, song))
	require.Equal(t, "rejected", requestStatus(t, env, spam))

	// an operator of another venue cannot touch this one
	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/operator/queue?organizationId="+org, OperatorToken(t, "venue-other"), nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// Bid history is returned oldest first
func TestGetBidsForRequest(t *testing.T) {
	env := SetupTestRouter()
	const org = "venue-history"

	req := submitSong(t, env, org, "Song")
	roundID := addToRound(t, env, org, req)["biddingRoundId"].(string)
	for _, amount := range []int64{500, 1000, 1500} {
		_, code := placeBid(t, env, org, roundID, req, amount)
		require.Equal(t, http.StatusCreated, code)
	}

	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/bidding/requests/"+req+"/bids", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bids := resp["data"].([]any)
	require.Len(t, bids, 3)
	for i, want := range []float64{500, 1000, 1500} {
		bid := bids[i].(map[string]any)
		require.Equal(t, want, bid["amount"])
		_, err := time.Parse(time.RFC3339, bid["createdAt"].(string))
		require.NoError(t, err)
	}

	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/bidding/requests/missing/bids", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
