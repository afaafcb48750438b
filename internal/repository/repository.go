package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"crowd-bidding/internal/biddingerrors"
	model "crowd-bidding/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// Tx is the view of storage inside a tenant transaction. Every read-modify-write
// on a tenant's rounds, requests and bids goes through one.
type Tx interface {
	GetRequest(ctx context.Context, requestID string) (model.Request, error)
	UpdateRequest(ctx context.Context, req model.Request) error
	RequestsInRound(ctx context.Context, roundID string) ([]model.Request, error)

	ActiveRound(ctx context.Context, organizationID string) (model.BiddingRound, error)
	GetRound(ctx context.Context, roundID string) (model.BiddingRound, error)
	LatestRoundNumber(ctx context.Context, organizationID string) (int, error)
	CreateRound(ctx context.Context, round model.BiddingRound) error
	UpdateRound(ctx context.Context, round model.BiddingRound) error

	AppendBid(ctx context.Context, bid model.Bid) error
	BidsForRound(ctx context.Context, roundID string) ([]model.Bid, error)
	BidsForRequest(ctx context.Context, requestID string) ([]model.Bid, error)
}

// BiddingStore defines the storage interface for requests, rounds and bids
type BiddingStore interface {
	// InTenantTx runs fn with exclusive access to the organization's round state
	InTenantTx(ctx context.Context, organizationID string, fn func(tx Tx) error) error

	CreateRequest(ctx context.Context, req model.Request) error
	GetRequest(ctx context.Context, requestID string) (model.Request, error)
	RequestsByStatus(ctx context.Context, organizationID string, status model.RequestStatus) ([]model.Request, error)
	OrganizationsWithActiveRounds(ctx context.Context) ([]string, error)
	BidsForRequest(ctx context.Context, requestID string) ([]model.Bid, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of BiddingStore
type MemoryRepo struct {
	mu            sync.RWMutex
	requests      map[string]model.Request      // key: requestID -> value: request
	rounds        map[string]model.BiddingRound // key: roundID -> value: round
	activeRounds  map[string]string             // key: organizationID -> value: active roundID
	roundNumbers  map[string]int                // key: organizationID -> value: highest round number
	roundBids     map[string][]model.Bid        // key: roundID -> value: bids in ledger order
	requestBids   map[string][]model.Bid        // key: requestID -> value: bids in ledger order
	roundRequests map[string][]string           // key: roundID -> value: requestIDs that joined

	locksMu     sync.Mutex
	tenantLocks map[string]*sync.Mutex
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		requests:      make(map[string]model.Request),
		rounds:        make(map[string]model.BiddingRound),
		activeRounds:  make(map[string]string),
		roundNumbers:  make(map[string]int),
		roundBids:     make(map[string][]model.Bid),
		requestBids:   make(map[string][]model.Bid),
		roundRequests: make(map[string][]string),
		tenantLocks:   make(map[string]*sync.Mutex),
	}
}

func (r *MemoryRepo) tenantLock(organizationID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.tenantLocks[organizationID]
	if !ok {
		l = &sync.Mutex{}
		r.tenantLocks[organizationID] = l
	}
	return l
}

// InTenantTx serializes fn against every other transaction of the same organization.
// Writes are applied immediately; callers validate before they write.
func (r *MemoryRepo) InTenantTx(ctx context.Context, organizationID string, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := r.tenantLock(organizationID)
	l.Lock()
	defer l.Unlock()
	return fn(memoryTx{repo: r})
}

// CreateRequest stores a new request
func (r *MemoryRepo) CreateRequest(_ context.Context, req model.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.requests[req.RequestID]; exists {
		return fmt.Errorf("create request %s: %w - duplicate id", req.RequestID, biddingerrors.ErrValidation)
	}
	r.requests[req.RequestID] = req
	return nil
}

// GetRequest returns a request by id
func (r *MemoryRepo) GetRequest(_ context.Context, requestID string) (model.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[requestID]
	if !ok {
		return model.Request{}, fmt.Errorf("get request %s: %w", requestID, biddingerrors.ErrRequestNotFound)
	}
	return req, nil
}

// RequestsByStatus returns an organization's requests with the given status, oldest first
func (r *MemoryRepo) RequestsByStatus(_ context.Context, organizationID string, status model.RequestStatus) ([]model.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Request, 0)
	for _, req := range r.requests {
		if req.OrganizationID == organizationID && req.Status == status {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RequestID < out[j].RequestID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// OrganizationsWithActiveRounds lists organizations that currently have an active round
func (r *MemoryRepo) OrganizationsWithActiveRounds(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orgs := make([]string, 0, len(r.activeRounds))
	for org := range r.activeRounds {
		orgs = append(orgs, org)
	}
	sort.Strings(orgs)
	return orgs, nil
}

// BidsForRequest returns all bids on a request in ledger order
func (r *MemoryRepo) BidsForRequest(_ context.Context, requestID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Bid(nil), r.requestBids[requestID]...), nil
}

// memoryTx runs under the tenant lock; it still takes the data lock because
// other tenants and readers share the maps.
type memoryTx struct {
	repo *MemoryRepo
}

func (t memoryTx) GetRequest(ctx context.Context, requestID string) (model.Request, error) {
	return t.repo.GetRequest(ctx, requestID)
}

func (t memoryTx) UpdateRequest(_ context.Context, req model.Request) error {
	r := t.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.requests[req.RequestID]
	if !ok {
		return fmt.Errorf("update request %s: %w", req.RequestID, biddingerrors.ErrRequestNotFound)
	}
	if req.Status == model.RequestInRound && (old.Status != model.RequestInRound || old.RoundID != req.RoundID) {
		r.roundRequests[req.RoundID] = append(r.roundRequests[req.RoundID], req.RequestID)
	}
	r.requests[req.RequestID] = req
	return nil
}

func (t memoryTx) RequestsInRound(_ context.Context, roundID string) ([]model.Request, error) {
	r := t.repo
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Request, 0)
	seen := make(map[string]bool)
	for _, id := range r.roundRequests[roundID] {
		if seen[id] {
			continue
		}
		seen[id] = true
		req := r.requests[id]
		if req.Status == model.RequestInRound && req.RoundID == roundID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (t memoryTx) ActiveRound(_ context.Context, organizationID string) (model.BiddingRound, error) {
	r := t.repo
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.activeRounds[organizationID]
	if !ok {
		return model.BiddingRound{}, fmt.Errorf("active round for %s: %w", organizationID, biddingerrors.ErrNoActiveRound)
	}
	return r.rounds[id], nil
}

func (t memoryTx) GetRound(_ context.Context, roundID string) (model.BiddingRound, error) {
	r := t.repo
	r.mu.RLock()
	defer r.mu.RUnlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return model.BiddingRound{}, fmt.Errorf("get round %s: %w", roundID, biddingerrors.ErrRoundNotFound)
	}
	return round, nil
}

func (t memoryTx) LatestRoundNumber(_ context.Context, organizationID string) (int, error) {
	r := t.repo
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roundNumbers[organizationID], nil
}

func (t memoryTx) CreateRound(_ context.Context, round model.BiddingRound) error {
	r := t.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.activeRounds[round.OrganizationID]; taken && round.Status == model.RoundActive {
		return fmt.Errorf("create round for %s: %w", round.OrganizationID, biddingerrors.ErrActiveRoundTaken)
	}
	r.rounds[round.RoundID] = round
	if round.Status == model.RoundActive {
		r.activeRounds[round.OrganizationID] = round.RoundID
	}
	if round.RoundNumber > r.roundNumbers[round.OrganizationID] {
		r.roundNumbers[round.OrganizationID] = round.RoundNumber
	}
	return nil
}

func (t memoryTx) UpdateRound(_ context.Context, round model.BiddingRound) error {
	r := t.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rounds[round.RoundID]; !ok {
		return fmt.Errorf("update round %s: %w", round.RoundID, biddingerrors.ErrRoundNotFound)
	}
	r.rounds[round.RoundID] = round
	if round.Status != model.RoundActive && r.activeRounds[round.OrganizationID] == round.RoundID {
		delete(r.activeRounds, round.OrganizationID)
	}
	return nil
}

func (t memoryTx) AppendBid(_ context.Context, bid model.Bid) error {
	r := t.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rounds[bid.RoundID]; !ok {
		return fmt.Errorf("record bid for round %s: %w", bid.RoundID, biddingerrors.ErrRoundNotFound)
	}
	if _, ok := r.requests[bid.RequestID]; !ok {
		return fmt.Errorf("record bid for request %s: %w", bid.RequestID, biddingerrors.ErrRequestNotFound)
	}
	r.roundBids[bid.RoundID] = append(r.roundBids[bid.RoundID], bid)
	r.requestBids[bid.RequestID] = append(r.requestBids[bid.RequestID], bid)
	return nil
}

func (t memoryTx) BidsForRound(_ context.Context, roundID string) ([]model.Bid, error) {
	r := t.repo
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Bid(nil), r.roundBids[roundID]...), nil
}

func (t memoryTx) BidsForRequest(ctx context.Context, requestID string) ([]model.Bid, error) {
	return t.repo.BidsForRequest(ctx, requestID)
}
