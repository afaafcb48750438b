package bidding

import (
	"context"
	"testing"
	"time"

	"crowd-bidding/internal/biddingerrors"
	model "crowd-bidding/internal/models"

	"github.com/stretchr/testify/require"
)

func TestBiddingService_SubmitRequest(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name        string
		in          SubmitRequestInput
		expectedErr error
	}{
		{
			name: "song_request",
			in: SubmitRequestInput{
				OrganizationID: "org1", Type: model.RequestTypeSong,
				SongTitle: "  September ", SongArtist: "Earth, Wind & Fire", RequesterName: "Sam",
			},
		},
		{
			name: "shoutout",
			in:   SubmitRequestInput{OrganizationID: "org1", Type: model.RequestTypeShoutout, RequesterName: "Sam", Message: "hi mom"},
		},
		{
			name: "tip",
			in:   SubmitRequestInput{OrganizationID: "org1", Type: model.RequestTypeTip, RequesterName: "Sam", TipAmount: 1000},
		},
		{
			name:        "song_without_title",
			in:          SubmitRequestInput{OrganizationID: "org1", Type: model.RequestTypeSong, RequesterName: "Sam", SongTitle: "   "},
			expectedErr: biddingerrors.ErrValidation,
		},
		{
			name:        "shoutout_without_message",
			in:          SubmitRequestInput{OrganizationID: "org1", Type: model.RequestTypeShoutout, RequesterName: "Sam"},
			expectedErr: biddingerrors.ErrValidation,
		},
		{
			name:        "tip_without_amount",
			in:          SubmitRequestInput{OrganizationID: "org1", Type: model.RequestTypeTip, RequesterName: "Sam"},
			expectedErr: biddingerrors.ErrValidation,
		},
		{
			name:        "unknown_type",
			in:          SubmitRequestInput{OrganizationID: "org1", Type: "karaoke", RequesterName: "Sam"},
			expectedErr: biddingerrors.ErrValidation,
		},
		{
			name:        "missing_requester",
			in:          SubmitRequestInput{OrganizationID: "org1", Type: model.RequestTypeSong, SongTitle: "Song"},
			expectedErr: biddingerrors.ErrValidation,
		},
		{
			name:        "missing_organization",
			in:          SubmitRequestInput{Type: model.RequestTypeSong, SongTitle: "Song", RequesterName: "Sam"},
			expectedErr: biddingerrors.ErrValidation,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req, err := env.svc.SubmitRequest(context.Background(), tc.in)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, req.RequestID)
			require.Equal(t, model.RequestPending, req.Status)

			stored, err := env.svc.GetRequest(context.Background(), req.RequestID)
			require.NoError(t, err)
			require.Equal(t, req.Type, stored.Type)
			if tc.in.Type == model.RequestTypeSong {
				require.Equal(t, "September", stored.SongTitle)
			}
		})
	}
}

func TestBiddingService_GetRequest_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.svc.GetRequest(context.Background(), "missing")
	require.ErrorIs(t, err, biddingerrors.ErrRequestNotFound)

	_, err = env.svc.GetRequest(context.Background(), "")
	require.ErrorIs(t, err, biddingerrors.ErrValidation)
}

func TestBiddingService_QueueAndMarkPlayed(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	const org = "org-queue"

	winner := env.song(t, org, "Winner")
	other := env.song(t, org, "Other")
	round := env.join(t, org, winner)
	env.join(t, org, other)
	_, err := env.bid(org, round, winner, 2000, "fan")
	require.NoError(t, err)

	queue, err := env.svc.Queue(context.Background(), org)
	require.NoError(t, err)
	require.Empty(t, queue, "round still running")

	_, err = env.svc.MarkPlayed(context.Background(), org, other.RequestID)
	require.ErrorIs(t, err, biddingerrors.ErrInvalidTransition)

	env.clock.Advance(DefaultRoundDuration)
	queue, err = env.svc.Queue(context.Background(), org)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	require.Equal(t, winner.RequestID, queue[0].RequestID)

	played, err := env.svc.MarkPlayed(context.Background(), org, winner.RequestID)
	require.NoError(t, err)
	require.Equal(t, model.RequestPlayed, played.Status)

	_, err = env.svc.MarkPlayed(context.Background(), org, winner.RequestID)
	require.ErrorIs(t, err, biddingerrors.ErrInvalidTransition)
	_, err = env.svc.RejectRequest(context.Background(), org, winner.RequestID)
	require.ErrorIs(t, err, biddingerrors.ErrInvalidTransition)

	queue, err = env.svc.Queue(context.Background(), org)
	require.NoError(t, err)
	require.Empty(t, queue)
}

func TestBiddingService_RejectRequest(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	const org = "org-reject"

	req := env.song(t, org, "Song")
	env.join(t, org, req)

	_, err := env.svc.RejectRequest(context.Background(), "org-elsewhere", req.RequestID)
	require.ErrorIs(t, err, biddingerrors.ErrRequestNotFound)

	rejected, err := env.svc.RejectRequest(context.Background(), org, req.RequestID)
	require.NoError(t, err)
	require.Equal(t, model.RequestRejected, rejected.Status)
	require.Empty(t, rejected.RoundID)
	require.Equal(t, time.Time{}, rejected.JoinedRoundAt)

	state, err := env.svc.GetCurrentRound(context.Background(), org)
	require.NoError(t, err)
	require.True(t, state.Active)
	require.Empty(t, state.Requests)

	_, err = env.svc.RejectRequest(context.Background(), org, req.RequestID)
	require.ErrorIs(t, err, biddingerrors.ErrInvalidTransition)

	_, err = env.svc.RejectRequest(context.Background(), org, "")
	require.ErrorIs(t, err, biddingerrors.ErrValidation)
}
