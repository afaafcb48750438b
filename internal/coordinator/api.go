// Package coordinator drives a bidder's view of a tenant's bidding round:
// it polls the server, keeps a countdown, validates bids optimistically and
// reacts to the server's verdict on each submission.
package coordinator

import (
	"context"
	"time"
)

// RequestView is one request competing in the round
type RequestView struct {
	RequestID  string
	SongTitle  string
	SongArtist string
	CurrentBid int64
}

// RoundView is the server's answer to a current-round poll
type RoundView struct {
	Active        bool
	RoundID       string
	RoundNumber   int
	EndsAt        time.Time
	TimeRemaining time.Duration
	Requests      []RequestView
	WinningAmount int64
	MinimumBid    int64
	Increment     int64
	Presets       []int64
}

// BidRequest is a bid as sent to the server
type BidRequest struct {
	RequestID      string
	RoundID        string
	OrganizationID string
	Amount         int64
	BidderName     string
	BidderEmail    string
	BidderPhone    string
}

// BidReceipt describes an accepted bid
type BidReceipt struct {
	BidID         string
	WinningAmount int64
	ProcessingFee int64
	TotalCharge   int64
}

//go:generate mockgen -source=api.go -destination=mock_api.go -package=coordinator

// API is the part of the bidding server the coordinator talks to
type API interface {
	CurrentRound(ctx context.Context, organizationID string) (RoundView, error)
	PlaceBid(ctx context.Context, bid BidRequest) (BidReceipt, error)
}
