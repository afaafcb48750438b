package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/services/bidding/helpers"
)

// HTTPClient implements API over the bidding server's JSON endpoints
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the server at baseURL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// CurrentRound fetches the organization's current round
func (c *HTTPClient) CurrentRound(ctx context.Context, organizationID string) (RoundView, error) {
	endpoint := c.baseURL + "/bidding/current-round?organizationId=" + url.QueryEscape(organizationID)
	var dto helpers.CurrentRoundResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &dto); err != nil {
		return RoundView{}, err
	}

	view := RoundView{
		Active:        dto.Active,
		WinningAmount: dto.WinningBidAmount,
		MinimumBid:    dto.MinimumBidAmount,
		Increment:     dto.BidIncrement,
		Presets:       dto.PresetAmounts,
		Requests:      make([]RequestView, 0, len(dto.Requests)),
	}
	if dto.Round != nil {
		endsAt, err := time.Parse(time.RFC3339, dto.Round.EndsAt)
		if err != nil {
			return RoundView{}, fmt.Errorf("coordinator: bad endsAt %q: %w", dto.Round.EndsAt, err)
		}
		view.RoundID = dto.Round.ID
		view.RoundNumber = dto.Round.RoundNumber
		view.EndsAt = endsAt
		view.TimeRemaining = time.Duration(dto.Round.TimeRemaining) * time.Second
	}
	for _, r := range dto.Requests {
		view.Requests = append(view.Requests, RequestView{
			RequestID:  r.RequestID,
			SongTitle:  r.SongTitle,
			SongArtist: r.SongArtist,
			CurrentBid: r.CurrentBidAmount,
		})
	}
	return view, nil
}

// PlaceBid submits a bid
func (c *HTTPClient) PlaceBid(ctx context.Context, bid BidRequest) (BidReceipt, error) {
	body := helpers.PlaceBidRequest{
		RequestID:      bid.RequestID,
		BiddingRoundID: bid.RoundID,
		BidAmount:      bid.Amount,
		BidderName:     bid.BidderName,
		BidderEmail:    bid.BidderEmail,
		BidderPhone:    bid.BidderPhone,
		OrganizationID: bid.OrganizationID,
	}
	var dto helpers.PlaceBidResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/bidding/place-bid", body, &dto); err != nil {
		return BidReceipt{}, err
	}
	return BidReceipt{
		BidID:         dto.BidID,
		WinningAmount: dto.WinningBidAmount,
		ProcessingFee: dto.ProcessingFee,
		TotalCharge:   dto.TotalCharge,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("coordinator: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("coordinator: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("coordinator: %w: %w", biddingerrors.ErrStorage, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("coordinator: %w: undecodable response (HTTP %d): %w", biddingerrors.ErrStorage, resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, env)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("coordinator: decode data: %w", err)
		}
	}
	return nil
}

// decodeError turns an error envelope back into the server's error
func decodeError(status int, env envelope) error {
	if env.Code == biddingerrors.CodeBidTooLow {
		var data helpers.BidTooLowData
		if len(env.Data) > 0 && json.Unmarshal(env.Data, &data) == nil {
			return &biddingerrors.BidTooLowError{WinningAmount: data.WinningBidAmount, MinimumAmount: data.MinimumBidAmount}
		}
	}
	sentinel := biddingerrors.FromCode(env.Code)
	if sentinel == nil {
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			sentinel = biddingerrors.ErrStorage
		} else {
			sentinel = biddingerrors.ErrValidation
		}
	}
	return fmt.Errorf("coordinator: %s (HTTP %d): %w", env.Message, status, sentinel)
}
