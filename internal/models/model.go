package models

import "time"

// RequestType is the kind of crowd request an attendee submitted
type RequestType string

const (
	RequestTypeSong     RequestType = "song_request"
	RequestTypeShoutout RequestType = "shoutout"
	RequestTypeTip      RequestType = "tip"
)

// RequestStatus is the lifecycle status of a request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestInRound  RequestStatus = "in_round"
	RequestWon      RequestStatus = "won"
	RequestPlayed   RequestStatus = "played"
	RequestRejected RequestStatus = "rejected"
)

// RoundStatus is the lifecycle status of a bidding round
type RoundStatus string

const (
	RoundActive RoundStatus = "active"
	RoundClosed RoundStatus = "closed"
)

// Request represents one submitted song request, shoutout or tip
type Request struct {
	RequestID      string        `json:"request_id"`
	OrganizationID string        `json:"organization_id"`
	Type           RequestType   `json:"type"`
	SongTitle      string        `json:"song_title,omitempty"`
	SongArtist     string        `json:"song_artist,omitempty"`
	RequesterName  string        `json:"requester_name"`
	RequesterEmail string        `json:"requester_email,omitempty"`
	RequesterPhone string        `json:"requester_phone,omitempty"`
	Message        string        `json:"message,omitempty"`
	TipAmount      int64         `json:"tip_amount,omitempty"`
	Status         RequestStatus `json:"status"`
	RoundID        string        `json:"round_id,omitempty"`
	JoinedRoundAt  time.Time     `json:"joined_round_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Biddable reports whether the request may enter a bidding round
func (r Request) Biddable() bool {
	return r.Type == RequestTypeSong && r.Status == RequestPending
}

// BiddingRound is a time-boxed competition window for one organization
type BiddingRound struct {
	RoundID          string      `json:"round_id"`
	OrganizationID   string      `json:"organization_id"`
	RoundNumber      int         `json:"round_number"`
	StartedAt        time.Time   `json:"started_at"`
	EndsAt           time.Time   `json:"ends_at"`
	Status           RoundStatus `json:"status"`
	ClosedAt         time.Time   `json:"closed_at,omitempty"`
	WinningRequestID string      `json:"winning_request_id,omitempty"`
}

// ExpiredAt reports whether the round's end time has passed at now
func (r BiddingRound) ExpiredAt(now time.Time) bool {
	return !now.Before(r.EndsAt)
}

// AcceptsBidsAt reports whether the round is active and not yet expired
func (r BiddingRound) AcceptsBidsAt(now time.Time) bool {
	return r.Status == RoundActive && !r.ExpiredAt(now)
}

// Bid is one monetary offer against a request within a round. Amounts are cents.
type Bid struct {
	BidID          string    `json:"bid_id"`
	RequestID      string    `json:"request_id"`
	RoundID        string    `json:"round_id"`
	OrganizationID string    `json:"organization_id"`
	Amount         int64     `json:"amount"`
	BidderName     string    `json:"bidder_name"`
	BidderEmail    string    `json:"bidder_email,omitempty"`
	BidderPhone    string    `json:"bidder_phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RoundRequest is a request in the active round with its current bid amount
type RoundRequest struct {
	Request          Request
	CurrentBidAmount int64
}

// RoundState is the view of a tenant's current round returned to pollers
type RoundState struct {
	Active        bool
	Round         BiddingRound
	Requests      []RoundRequest
	WinningAmount int64
	MinimumBid    int64
	Increment     int64
	Presets       []int64
}

// TimeRemaining returns the time left in the round at now, never negative
func (s RoundState) TimeRemaining(now time.Time) time.Duration {
	if !s.Active {
		return 0
	}
	d := s.Round.EndsAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
