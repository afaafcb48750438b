package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/events"
	"crowd-bidding/internal/ledger"
	"crowd-bidding/internal/models"
	"crowd-bidding/internal/payments"
	"crowd-bidding/internal/repository"
	"crowd-bidding/utils"
)

// DefaultRoundDuration is how long a bidding round accepts bids
const DefaultRoundDuration = 5 * time.Minute

// BiddingService runs the bidding round state machine. Rounds close lazily:
// whichever read or write first observes an expired round closes it.
type BiddingService struct {
	repo          repository.BiddingStore
	settings      payments.SettingsProvider
	publisher     events.Publisher
	roundDuration time.Duration
	now           func() time.Time
}

// Option configures a BiddingService
type Option func(*BiddingService)

// WithClock replaces the wall clock, used to simulate time in tests
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// WithRoundDuration sets the fixed round length
func WithRoundDuration(d time.Duration) Option {
	return func(s *BiddingService) {
		if d > 0 {
			s.roundDuration = d
		}
	}
}

// WithPublisher sets where round closures are published
func WithPublisher(p events.Publisher) Option {
	return func(s *BiddingService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.BiddingStore, settings payments.SettingsProvider, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:          repo,
		settings:      settings,
		publisher:     events.NoopPublisher{},
		roundDuration: DefaultRoundDuration,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBidInput is a bid placement as submitted by a bidder
type PlaceBidInput struct {
	RequestID      string
	RoundID        string
	OrganizationID string
	Amount         int64
	BidderName     string
	BidderEmail    string
	BidderPhone    string
}

// PlaceBidResult describes an accepted bid
type PlaceBidResult struct {
	Bid           models.Bid
	WinningAmount int64
	ProcessingFee int64
	TotalCharge   int64
}

// GetCurrentRound returns the organization's active round with the current bid
// on each of its requests. An expired round is closed first and reported as
// no active round.
func (s *BiddingService) GetCurrentRound(ctx context.Context, organizationID string) (models.RoundState, error) {
	if organizationID == "" {
		return models.RoundState{}, fmt.Errorf("service: %w - empty organization ID", biddingerrors.ErrValidation)
	}
	settings, err := s.settings.Settings(ctx, organizationID)
	if err != nil {
		return models.RoundState{}, fmt.Errorf("service: failed to load payment settings for %s: %w", organizationID, err)
	}

	now := s.now().UTC()
	state := inactiveState(settings)
	var closed *events.RoundClosedEvent

	err = s.repo.InTenantTx(ctx, organizationID, func(tx repository.Tx) error {
		round, err := tx.ActiveRound(ctx, organizationID)
		if errors.Is(err, biddingerrors.ErrNoActiveRound) {
			return nil
		}
		if err != nil {
			return err
		}
		if round.ExpiredAt(now) {
			closed, err = s.closeRound(ctx, tx, round, now)
			return err
		}
		state, err = s.roundState(ctx, tx, round, settings)
		return err
	})
	if err != nil {
		return models.RoundState{}, fmt.Errorf("service: failed to get current round for %s: %w", organizationID, biddingerrors.Storage("current round", err))
	}

	s.publishClosed(ctx, closed)
	return state, nil
}

// AddRequestToRound puts a pending song request into the organization's active
// round, opening a new round when none is active.
func (s *BiddingService) AddRequestToRound(ctx context.Context, requestID, organizationID string) (models.BiddingRound, error) {
	if requestID == "" || organizationID == "" {
		return models.BiddingRound{}, fmt.Errorf("service: %w - missing requestID or organizationID", biddingerrors.ErrValidation)
	}

	now := s.now().UTC()
	var round models.BiddingRound
	var closed *events.RoundClosedEvent
	var refused error

	err := s.repo.InTenantTx(ctx, organizationID, func(tx repository.Tx) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.OrganizationID != organizationID {
			return fmt.Errorf("%w - request %s belongs to another organization", biddingerrors.ErrValidation, requestID)
		}
		if req.Type != models.RequestTypeSong {
			return fmt.Errorf("%w - only song requests can be bid on", biddingerrors.ErrValidation)
		}

		active, err := tx.ActiveRound(ctx, organizationID)
		switch {
		case err == nil && !active.ExpiredAt(now):
			if req.Status == models.RequestInRound && req.RoundID == active.RoundID {
				round = active
				return nil
			}
		case err == nil:
			// the expired round's closure may move this request to won or pending
			if closed, err = s.closeRound(ctx, tx, active, now); err != nil {
				return err
			}
			if req, err = tx.GetRequest(ctx, requestID); err != nil {
				return err
			}
		case !errors.Is(err, biddingerrors.ErrNoActiveRound):
			return err
		}

		// no round is opened for a request that cannot join it
		if !req.Biddable() {
			refused = fmt.Errorf("service: %w - request %s is %s", biddingerrors.ErrInvalidTransition, requestID, req.Status)
			return nil
		}

		if round, _, err = s.activeOrOpen(ctx, tx, organizationID, now); err != nil {
			return err
		}

		req.Status = models.RequestInRound
		req.RoundID = round.RoundID
		req.JoinedRoundAt = now
		return tx.UpdateRequest(ctx, req)
	})
	if err != nil {
		if errors.Is(err, biddingerrors.ErrActiveRoundTaken) {
			return models.BiddingRound{}, fmt.Errorf("service: %w - round changed while adding request %s: %w", biddingerrors.ErrRoundClosed, requestID, err)
		}
		return models.BiddingRound{}, fmt.Errorf("service: failed to add request %s to round: %w", requestID, biddingerrors.Storage("add request to round", err))
	}

	s.publishClosed(ctx, closed)
	if refused != nil {
		return models.BiddingRound{}, refused
	}
	utils.Info("request added to round", map[string]any{
		"request_id":      requestID,
		"organization_id": organizationID,
		"round_id":        round.RoundID,
		"round_number":    round.RoundNumber,
	})
	return round, nil
}

// PlaceBid validates and records a bid against a request in an active round.
// Reading the winning bid, validating and appending happen in one tenant
// transaction, so two equal concurrent bids cannot both be accepted.
func (s *BiddingService) PlaceBid(ctx context.Context, in PlaceBidInput) (PlaceBidResult, error) {
	if err := validateBidInput(in); err != nil {
		return PlaceBidResult{}, err
	}
	settings, err := s.settings.Settings(ctx, in.OrganizationID)
	if err != nil {
		return PlaceBidResult{}, fmt.Errorf("service: failed to load payment settings for %s: %w", in.OrganizationID, err)
	}

	now := s.now().UTC()
	var result PlaceBidResult
	var closed *events.RoundClosedEvent
	var rejected error

	err = s.repo.InTenantTx(ctx, in.OrganizationID, func(tx repository.Tx) error {
		round, err := tx.GetRound(ctx, in.RoundID)
		if err != nil {
			return err
		}
		if round.OrganizationID != in.OrganizationID {
			return fmt.Errorf("%w - round %s belongs to another organization", biddingerrors.ErrValidation, in.RoundID)
		}
		if round.Status != models.RoundActive {
			rejected = fmt.Errorf("service: %w - round %d closed at %s", biddingerrors.ErrRoundClosed, round.RoundNumber, round.ClosedAt.Format(time.RFC3339))
			return nil
		}
		if round.ExpiredAt(now) {
			// commit the closure, then report the rejection
			closed, err = s.closeRound(ctx, tx, round, now)
			rejected = fmt.Errorf("service: %w - round %d ended at %s", biddingerrors.ErrRoundClosed, round.RoundNumber, round.EndsAt.Format(time.RFC3339))
			return err
		}

		req, err := tx.GetRequest(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req.Status != models.RequestInRound || req.RoundID != round.RoundID {
			return fmt.Errorf("%w - request %s is not in round %s", biddingerrors.ErrValidation, in.RequestID, in.RoundID)
		}

		led := ledger.New(tx)
		eligible, err := s.eligibleBids(ctx, tx, led, round.RoundID)
		if err != nil {
			return err
		}
		var winning int64
		if w, ok := ledger.Winning(eligible); ok {
			winning = w.Amount
		}
		minimum := settings.MinimumNextBid(winning)
		if in.Amount < minimum {
			rejected = fmt.Errorf("service: %w", &biddingerrors.BidTooLowError{WinningAmount: winning, MinimumAmount: minimum})
			return nil
		}

		bid := models.Bid{
			BidID:          utils.GenerateID(),
			RequestID:      in.RequestID,
			RoundID:        round.RoundID,
			OrganizationID: in.OrganizationID,
			Amount:         in.Amount,
			BidderName:     in.BidderName,
			BidderEmail:    in.BidderEmail,
			BidderPhone:    in.BidderPhone,
			CreatedAt:      now,
		}
		if err := led.RecordBid(ctx, bid); err != nil {
			return err
		}

		fee := settings.Fee(bid.Amount)
		result = PlaceBidResult{
			Bid:           bid,
			WinningAmount: bid.Amount,
			ProcessingFee: fee,
			TotalCharge:   bid.Amount + fee,
		}
		return nil
	})
	if err != nil {
		return PlaceBidResult{}, fmt.Errorf("service: failed to place bid on request %s: %w", in.RequestID, biddingerrors.Storage("place bid", err))
	}

	s.publishClosed(ctx, closed)
	if rejected != nil {
		return PlaceBidResult{}, rejected
	}

	utils.Info("bid accepted", map[string]any{
		"bid_id":          result.Bid.BidID,
		"request_id":      in.RequestID,
		"round_id":        in.RoundID,
		"organization_id": in.OrganizationID,
		"amount":          in.Amount,
	})
	return result, nil
}

// OpenRound returns the organization's active round, opening an empty one if
// none is active. created reports whether a new round was opened.
func (s *BiddingService) OpenRound(ctx context.Context, organizationID string) (round models.BiddingRound, created bool, err error) {
	if organizationID == "" {
		return models.BiddingRound{}, false, fmt.Errorf("service: %w - empty organization ID", biddingerrors.ErrValidation)
	}

	now := s.now().UTC()
	var closed *events.RoundClosedEvent
	err = s.repo.InTenantTx(ctx, organizationID, func(tx repository.Tx) error {
		active, err := tx.ActiveRound(ctx, organizationID)
		if err == nil && !active.ExpiredAt(now) {
			round = active
			return nil
		}
		round, closed, err = s.activeOrOpen(ctx, tx, organizationID, now)
		created = err == nil
		return err
	})
	if err != nil {
		if errors.Is(err, biddingerrors.ErrActiveRoundTaken) {
			return models.BiddingRound{}, false, fmt.Errorf("service: %w - %w", biddingerrors.ErrRoundClosed, err)
		}
		return models.BiddingRound{}, false, fmt.Errorf("service: failed to open round for %s: %w", organizationID, biddingerrors.Storage("open round", err))
	}
	s.publishClosed(ctx, closed)
	return round, created, nil
}

// CloseExpiredRounds closes every active round whose end time has passed and
// returns how many were closed.
func (s *BiddingService) CloseExpiredRounds(ctx context.Context) (int, error) {
	orgs, err := s.repo.OrganizationsWithActiveRounds(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to list active rounds: %w", biddingerrors.Storage("list active rounds", err))
	}

	count := 0
	for _, org := range orgs {
		now := s.now().UTC()
		var closed *events.RoundClosedEvent
		err := s.repo.InTenantTx(ctx, org, func(tx repository.Tx) error {
			round, err := tx.ActiveRound(ctx, org)
			if errors.Is(err, biddingerrors.ErrNoActiveRound) {
				return nil
			}
			if err != nil {
				return err
			}
			if !round.ExpiredAt(now) {
				return nil
			}
			closed, err = s.closeRound(ctx, tx, round, now)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("service: failed to close round for %s: %w", org, biddingerrors.Storage("close round", err))
		}
		if closed != nil {
			count++
			s.publishClosed(ctx, closed)
		}
	}
	return count, nil
}

// BidsForRequest returns the bid history of a request, oldest first
func (s *BiddingService) BidsForRequest(ctx context.Context, requestID string) ([]models.Bid, error) {
	if requestID == "" {
		return nil, fmt.Errorf("service: %w - empty request ID", biddingerrors.ErrValidation)
	}
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get request %s: %w", requestID, biddingerrors.Storage("get request", err))
	}

	var bids []models.Bid
	err = s.repo.InTenantTx(ctx, req.OrganizationID, func(tx repository.Tx) error {
		bids, err = ledger.New(tx).BidsForRequest(ctx, requestID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for request %s: %w", requestID, biddingerrors.Storage("bids for request", err))
	}
	return bids, nil
}

// activeOrOpen returns the active round, closing it first when expired and
// opening the next one in that case or when none exists.
func (s *BiddingService) activeOrOpen(ctx context.Context, tx repository.Tx, organizationID string, now time.Time) (models.BiddingRound, *events.RoundClosedEvent, error) {
	var closed *events.RoundClosedEvent
	round, err := tx.ActiveRound(ctx, organizationID)
	switch {
	case err == nil && !round.ExpiredAt(now):
		return round, nil, nil
	case err == nil:
		if closed, err = s.closeRound(ctx, tx, round, now); err != nil {
			return models.BiddingRound{}, nil, err
		}
	case !errors.Is(err, biddingerrors.ErrNoActiveRound):
		return models.BiddingRound{}, nil, err
	}

	last, err := tx.LatestRoundNumber(ctx, organizationID)
	if err != nil {
		return models.BiddingRound{}, nil, err
	}
	round = models.BiddingRound{
		RoundID:        utils.GenerateID(),
		OrganizationID: organizationID,
		RoundNumber:    last + 1,
		StartedAt:      now,
		EndsAt:         now.Add(s.roundDuration),
		Status:         models.RoundActive,
	}
	if err := tx.CreateRound(ctx, round); err != nil {
		return models.BiddingRound{}, nil, err
	}

	utils.Info("bidding round opened", map[string]any{
		"organization_id": organizationID,
		"round_id":        round.RoundID,
		"round_number":    round.RoundNumber,
		"ends_at":         round.EndsAt.Format(time.RFC3339),
	})
	return round, closed, nil
}

// closeRound marks the leader won, sends every other request back to pending
// and closes the round. Closing a closed round does nothing.
func (s *BiddingService) closeRound(ctx context.Context, tx repository.Tx, round models.BiddingRound, now time.Time) (*events.RoundClosedEvent, error) {
	if round.Status == models.RoundClosed {
		return nil, nil
	}

	requests, err := tx.RequestsInRound(ctx, round.RoundID)
	if err != nil {
		return nil, err
	}
	eligible, err := s.eligibleBids(ctx, tx, ledger.New(tx), round.RoundID)
	if err != nil {
		return nil, err
	}
	winnerID, winningAmount := pickWinner(requests, eligible)

	returned := make([]string, 0, len(requests))
	for _, req := range requests {
		if req.RequestID == winnerID {
			req.Status = models.RequestWon
		} else {
			req.Status = models.RequestPending
			req.RoundID = ""
			req.JoinedRoundAt = time.Time{}
			returned = append(returned, req.RequestID)
		}
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return nil, err
		}
	}

	round.Status = models.RoundClosed
	round.ClosedAt = now
	round.WinningRequestID = winnerID
	if err := tx.UpdateRound(ctx, round); err != nil {
		return nil, err
	}

	utils.Info("bidding round closed", map[string]any{
		"organization_id":    round.OrganizationID,
		"round_id":           round.RoundID,
		"round_number":       round.RoundNumber,
		"winning_request_id": winnerID,
		"winning_amount":     winningAmount,
		"returned":           len(returned),
	})
	return &events.RoundClosedEvent{
		RoundID:            round.RoundID,
		OrganizationID:     round.OrganizationID,
		RoundNumber:        round.RoundNumber,
		WinningRequestID:   winnerID,
		WinningAmountCents: winningAmount,
		ReturnedRequestIDs: returned,
		ClosedAt:           now.Format(time.RFC3339),
	}, nil
}

// pickWinner returns the request holding the winning bid. Without bids the
// request that joined first wins; an empty round has no winner.
func pickWinner(requests []models.Request, bids []models.Bid) (string, int64) {
	if w, ok := ledger.Winning(bids); ok {
		return w.RequestID, w.Amount
	}
	if len(requests) == 0 {
		return "", 0
	}
	first := requests[0]
	for _, r := range requests[1:] {
		if r.JoinedRoundAt.Before(first.JoinedRoundAt) {
			first = r
		}
	}
	return first.RequestID, 0
}

// eligibleBids returns the round's bids on requests still in the round.
// Bids on rejected requests stay in the ledger but no longer compete.
func (s *BiddingService) eligibleBids(ctx context.Context, tx repository.Tx, led *ledger.Ledger, roundID string) ([]models.Bid, error) {
	requests, err := tx.RequestsInRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	bids, err := led.BidsForRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	inRound := make(map[string]bool, len(requests))
	for _, r := range requests {
		inRound[r.RequestID] = true
	}
	return ledger.OnlyRequests(bids, inRound), nil
}

func (s *BiddingService) roundState(ctx context.Context, tx repository.Tx, round models.BiddingRound, settings payments.Settings) (models.RoundState, error) {
	requests, err := tx.RequestsInRound(ctx, round.RoundID)
	if err != nil {
		return models.RoundState{}, err
	}
	eligible, err := s.eligibleBids(ctx, tx, ledger.New(tx), round.RoundID)
	if err != nil {
		return models.RoundState{}, err
	}

	highest := ledger.HighestByRequest(eligible)
	var winning int64
	if w, ok := ledger.Winning(eligible); ok {
		winning = w.Amount
	}

	state := models.RoundState{
		Active:        true,
		Round:         round,
		Requests:      make([]models.RoundRequest, 0, len(requests)),
		WinningAmount: winning,
		MinimumBid:    settings.MinimumNextBid(winning),
		Increment:     settings.BidIncrement,
		Presets:       payments.DerivePresets(winning, settings),
	}
	for _, r := range requests {
		state.Requests = append(state.Requests, models.RoundRequest{Request: r, CurrentBidAmount: highest[r.RequestID]})
	}
	return state, nil
}

func (s *BiddingService) publishClosed(ctx context.Context, ev *events.RoundClosedEvent) {
	if ev == nil {
		return
	}
	if err := s.publisher.PublishRoundClosed(ctx, *ev); err != nil {
		utils.Warn("round closed event not published", map[string]any{"round_id": ev.RoundID, "error": err.Error()})
	}
}

func inactiveState(settings payments.Settings) models.RoundState {
	return models.RoundState{
		Active:     false,
		MinimumBid: settings.MinimumBid,
		Increment:  settings.BidIncrement,
		Presets:    payments.DerivePresets(0, settings),
	}
}

// validateBidInput checks input validity before any storage access
func validateBidInput(in PlaceBidInput) error {
	if in.RequestID == "" || in.RoundID == "" || in.OrganizationID == "" {
		return fmt.Errorf("service: %w - missing requestID, roundID or organizationID", biddingerrors.ErrValidation)
	}
	if in.BidderName == "" {
		return fmt.Errorf("service: %w - missing bidder name", biddingerrors.ErrValidation)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrValidation)
	}
	return nil
}
