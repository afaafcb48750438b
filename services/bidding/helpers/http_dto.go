package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	RequestID      string `json:"requestId" binding:"required"`
	BiddingRoundID string `json:"biddingRoundId" binding:"required"`
	BidAmount      int64  `json:"bidAmount" binding:"required,gt=0"`
	BidderName     string `json:"bidderName" binding:"required,max=120"`
	BidderEmail    string `json:"bidderEmail,omitempty" binding:"omitempty,email"`
	BidderPhone    string `json:"bidderPhone,omitempty" binding:"omitempty,max=32"`
	OrganizationID string `json:"organizationId" binding:"required"`
}

type AddRequestToRoundRequest struct {
	RequestID      string `json:"requestId" binding:"required"`
	OrganizationID string `json:"organizationId" binding:"required"`
}

type SubmitRequestRequest struct {
	OrganizationID string `json:"organizationId" binding:"required"`
	Type           string `json:"type" binding:"required,reqtype"`
	SongTitle      string `json:"songTitle,omitempty" binding:"max=200"`
	SongArtist     string `json:"songArtist,omitempty" binding:"max=200"`
	RequesterName  string `json:"requesterName" binding:"required,max=120"`
	RequesterEmail string `json:"requesterEmail,omitempty" binding:"omitempty,email"`
	RequesterPhone string `json:"requesterPhone,omitempty" binding:"omitempty,max=32"`
	Message        string `json:"message,omitempty" binding:"max=500"`
	TipAmount      int64  `json:"tipAmount,omitempty" binding:"gte=0"`
}

type OrganizationRequest struct {
	OrganizationID string `json:"organizationId" binding:"required"`
}

type RoundInfo struct {
	ID            string `json:"id"`
	RoundNumber   int    `json:"roundNumber"`
	EndsAt        string `json:"endsAt"`
	TimeRemaining int64  `json:"timeRemaining"` // seconds
}

type RoundRequestResponse struct {
	RequestID        string `json:"requestId"`
	CurrentBidAmount int64  `json:"currentBidAmount"`
	SongTitle        string `json:"songTitle"`
	SongArtist       string `json:"songArtist"`
}

type CurrentRoundResponse struct {
	Active           bool                   `json:"active"`
	Round            *RoundInfo             `json:"round"`
	Requests         []RoundRequestResponse `json:"requests"`
	WinningBidAmount int64                  `json:"winningBidAmount"`
	MinimumBidAmount int64                  `json:"minimumBidAmount"`
	BidIncrement     int64                  `json:"bidIncrement"`
	PresetAmounts    []int64                `json:"presetAmounts"`
}

type AddRequestToRoundResponse struct {
	Success        bool      `json:"success"`
	BiddingRoundID string    `json:"biddingRoundId"`
	Round          RoundInfo `json:"round"`
}

type PlaceBidResponse struct {
	Success          bool   `json:"success"`
	BidID            string `json:"bidId"`
	WinningBidAmount int64  `json:"winningBidAmount"`
	ProcessingFee    int64  `json:"processingFee"`
	TotalCharge      int64  `json:"totalCharge"`
	DisplayTotal     string `json:"displayTotal"`
}

// BidTooLowData is returned with a BidTooLowError so the bidder can re-bid at once
type BidTooLowData struct {
	WinningBidAmount int64 `json:"winningBidAmount"`
	MinimumBidAmount int64 `json:"minimumBidAmount"`
}

type BidResponse struct {
	BidID      string `json:"bidId"`
	RequestID  string `json:"requestId"`
	RoundID    string `json:"biddingRoundId"`
	Amount     int64  `json:"amount"`
	BidderName string `json:"bidderName"`
	CreatedAt  string `json:"createdAt"`
}

type RequestResponse struct {
	RequestID      string `json:"requestId"`
	OrganizationID string `json:"organizationId"`
	Type           string `json:"type"`
	SongTitle      string `json:"songTitle,omitempty"`
	SongArtist     string `json:"songArtist,omitempty"`
	RequesterName  string `json:"requesterName"`
	Message        string `json:"message,omitempty"`
	TipAmount      int64  `json:"tipAmount,omitempty"`
	Status         string `json:"status"`
	BiddingRoundID string `json:"biddingRoundId,omitempty"`
	CreatedAt      string `json:"createdAt"`
}
