package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/utils"
)

// Default polling cadence
const (
	DefaultActivePollInterval = 2 * time.Second
	DefaultIdlePollInterval   = 15 * time.Second
)

var (
	// ErrSubmitInFlight rejects a bid while the previous one is unanswered
	ErrSubmitInFlight = errors.New("a bid is already being submitted")
	// ErrNotRunning rejects a bid before Run starts or after it stops
	ErrNotRunning = errors.New("coordinator is not running")
)

// Config tunes a Coordinator
type Config struct {
	OrganizationID     string
	ActivePollInterval time.Duration
	IdlePollInterval   time.Duration
	RequestTimeout     time.Duration
}

// Bidder identifies the person bidding
type Bidder struct {
	Name  string
	Email string
	Phone string
}

// Coordinator owns one bidder's round state. Run's goroutine is the only
// writer; network calls report back to it as events.
type Coordinator struct {
	api API
	cfg Config

	mu   sync.Mutex
	snap Snapshot
	ctx  context.Context

	inFlight atomic.Bool
	events   chan Event
	updates  chan Snapshot
}

// New creates a coordinator for cfg.OrganizationID
func New(api API, cfg Config) *Coordinator {
	if cfg.ActivePollInterval <= 0 {
		cfg.ActivePollInterval = DefaultActivePollInterval
	}
	if cfg.IdlePollInterval <= 0 {
		cfg.IdlePollInterval = DefaultIdlePollInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Coordinator{
		api:     api,
		cfg:     cfg,
		snap:    Snapshot{State: StateIdle},
		events:  make(chan Event, 16),
		updates: make(chan Snapshot, 1),
	}
}

// Snapshot returns the current state
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.snap)
}

// Updates delivers snapshots as they change. Slow readers only miss
// intermediate snapshots, never the latest one. Closed when Run returns.
func (c *Coordinator) Updates() <-chan Snapshot {
	return c.updates
}

// Refresh polls right away and resumes fast polling
func (c *Coordinator) Refresh() {
	ctx := c.runContext()
	if ctx == nil {
		return
	}
	select {
	case c.events <- Event{Kind: EventPollTick}:
	case <-ctx.Done():
	}
}

// Submit validates amount against the last known round and sends the bid.
// The outcome arrives as a snapshot update.
func (c *Coordinator) Submit(requestID string, amount int64, bidder Bidder) error {
	ctx := c.runContext()
	if ctx == nil || ctx.Err() != nil {
		return ErrNotRunning
	}
	snap := c.Snapshot()
	if err := ValidateBid(snap, amount); err != nil {
		return err
	}
	if bidder.Name == "" {
		return fmt.Errorf("coordinator: %w - bidder name is required", biddingerrors.ErrValidation)
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}

	bid := BidRequest{
		RequestID:      requestID,
		RoundID:        snap.Round.RoundID,
		OrganizationID: c.cfg.OrganizationID,
		Amount:         amount,
		BidderName:     bidder.Name,
		BidderEmail:    bidder.Email,
		BidderPhone:    bidder.Phone,
	}
	select {
	case c.events <- Event{Kind: EventBidSubmitted, Bid: bid}:
	case <-ctx.Done():
		c.inFlight.Store(false)
		return ErrNotRunning
	}

	go func() {
		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
		receipt, err := c.api.PlaceBid(reqCtx, bid)
		if err != nil {
			c.send(ctx, Event{Kind: EventBidRejected, Err: err})
			return
		}
		c.send(ctx, Event{Kind: EventBidAccepted, Receipt: receipt})
	}()
	return nil
}

// Run polls and processes events until ctx is cancelled
func (c *Coordinator) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.ctx != nil {
		c.mu.Unlock()
		return errors.New("coordinator: already started")
	}
	c.ctx = ctx
	c.mu.Unlock()
	defer close(c.updates)

	countdown := time.NewTicker(time.Second)
	defer countdown.Stop()
	pollTimer := time.NewTimer(0)
	defer pollTimer.Stop()

	polling := false
	pollAgain := false

	for {
		var ev Event
		select {
		case <-ctx.Done():
			utils.Debug("coordinator stopped", map[string]any{"organization_id": c.cfg.OrganizationID})
			return ctx.Err()
		case <-pollTimer.C:
			ev = Event{Kind: EventPollTick}
		case <-countdown.C:
			ev = Event{Kind: EventCountdownTick}
		case ev = <-c.events:
		}

		if ev.Kind == EventPollTick && polling {
			pollAgain = true
			continue
		}

		snap := c.apply(ev)

		switch ev.Kind {
		case EventPollTick:
			polling = true
			go c.poll(ctx)
		case EventRoundLoaded, EventPollFailed:
			polling = false
			if pollAgain || snap.RefreshNow {
				pollAgain = false
				pollTimer.Reset(0)
			} else {
				pollTimer.Reset(c.interval(snap))
			}
		case EventBidAccepted, EventBidRejected:
			c.inFlight.Store(false)
		}

		if snap.RefreshNow && ev.Kind != EventRoundLoaded && ev.Kind != EventPollFailed {
			if polling {
				pollAgain = true
			} else {
				pollTimer.Reset(0)
			}
		}
	}
}

func (c *Coordinator) poll(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	round, err := c.api.CurrentRound(reqCtx, c.cfg.OrganizationID)
	if err != nil {
		c.send(ctx, Event{Kind: EventPollFailed, Err: err})
		return
	}
	c.send(ctx, Event{Kind: EventRoundLoaded, Round: round})
}

// send delivers ev unless the coordinator has stopped
func (c *Coordinator) send(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

func (c *Coordinator) apply(ev Event) Snapshot {
	c.mu.Lock()
	c.snap = Reduce(c.snap, ev)
	snap := clone(c.snap)
	c.mu.Unlock()

	c.publish(snap)
	return snap
}

// publish replaces any unread snapshot with snap
func (c *Coordinator) publish(snap Snapshot) {
	for {
		select {
		case c.updates <- snap:
			return
		default:
		}
		select {
		case <-c.updates:
		default:
		}
	}
}

func (c *Coordinator) interval(s Snapshot) time.Duration {
	if s.Round.Active {
		return c.cfg.ActivePollInterval
	}
	return c.cfg.IdlePollInterval
}

func (c *Coordinator) runContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

func clone(s Snapshot) Snapshot {
	s.Presets = append([]int64(nil), s.Presets...)
	s.Round.Presets = append([]int64(nil), s.Round.Presets...)
	s.Round.Requests = append([]RequestView(nil), s.Round.Requests...)
	if s.LastReceipt != nil {
		r := *s.LastReceipt
		s.LastReceipt = &r
	}
	return s
}
