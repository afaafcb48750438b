package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/database"
	model "crowd-bidding/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var (
	requestColumns = []string{
		"id", "organization_id", "type", "song_title", "song_artist", "requester_name",
		"requester_email", "requester_phone", "message", "tip_amount", "status",
		"round_id", "joined_round_at", "created_at",
	}
	roundColumns = []string{
		"id", "organization_id", "round_number", "started_at", "ends_at", "status",
		"closed_at", "winning_request_id",
	}
	bidColumns = []string{
		"id", "request_id", "round_id", "organization_id", "amount", "bidder_name",
		"bidder_email", "bidder_phone", "created_at",
	}
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresRepo stores requests, rounds and bids in PostgreSQL. Tenant
// transactions hold a transaction-scoped advisory lock on the organization.
type PostgresRepo struct {
	*database.Postgres
}

// NewPostgresRepo creates a repository on an open pool
func NewPostgresRepo(pg *database.Postgres) *PostgresRepo {
	return &PostgresRepo{pg}
}

// InTenantTx runs fn in a transaction serialized per organization. fn's error
// rolls the transaction back.
func (r *PostgresRepo) InTenantTx(ctx context.Context, organizationID string, fn func(tx Tx) error) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", organizationID); err != nil {
		return fmt.Errorf("postgres: lock organization %s: %w", organizationID, err)
	}
	if err := fn(pgTx{q: tx, sb: r.SqlBuilder}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (r *PostgresRepo) queries() pgTx {
	return pgTx{q: r.Database, sb: r.SqlBuilder}
}

// CreateRequest stores a new request
func (r *PostgresRepo) CreateRequest(ctx context.Context, req model.Request) error {
	query, args, err := r.SqlBuilder.
		Insert("requests").
		Columns(requestColumns...).
		Values(req.RequestID, req.OrganizationID, string(req.Type), req.SongTitle, req.SongArtist,
			req.RequesterName, req.RequesterEmail, req.RequesterPhone, req.Message, req.TipAmount,
			string(req.Status), nullString(req.RoundID), nullTime(req.JoinedRoundAt), req.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build insert request: %w", err)
	}
	if _, err := r.Database.ExecContext(ctx, query, args...); err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return fmt.Errorf("create request %s: %w - duplicate id", req.RequestID, biddingerrors.ErrValidation)
		}
		return fmt.Errorf("postgres: insert request: %w", err)
	}
	return nil
}

// GetRequest returns a request by id
func (r *PostgresRepo) GetRequest(ctx context.Context, requestID string) (model.Request, error) {
	return r.queries().GetRequest(ctx, requestID)
}

// RequestsByStatus returns an organization's requests with the given status, oldest first
func (r *PostgresRepo) RequestsByStatus(ctx context.Context, organizationID string, status model.RequestStatus) ([]model.Request, error) {
	query, args, err := r.SqlBuilder.
		Select(requestColumns...).
		From("requests").
		Where(squirrel.Eq{"organization_id": organizationID, "status": string(status)}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build requests by status: %w", err)
	}
	return r.queries().listRequests(ctx, query, args)
}

// OrganizationsWithActiveRounds lists organizations that currently have an active round
func (r *PostgresRepo) OrganizationsWithActiveRounds(ctx context.Context) ([]string, error) {
	query, args, err := r.SqlBuilder.
		Select("organization_id").
		From("bidding_rounds").
		Where(squirrel.Eq{"status": string(model.RoundActive)}).
		OrderBy("organization_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build active organizations: %w", err)
	}
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: active organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]string, 0)
	for rows.Next() {
		var org string
		if err := rows.Scan(&org); err != nil {
			return nil, fmt.Errorf("postgres: scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// BidsForRequest returns all bids on a request in ledger order
func (r *PostgresRepo) BidsForRequest(ctx context.Context, requestID string) ([]model.Bid, error) {
	return r.queries().BidsForRequest(ctx, requestID)
}

// pgTx implements Tx over a transaction, or over the pool for plain reads
type pgTx struct {
	q  queryer
	sb squirrel.StatementBuilderType
}

func (t pgTx) GetRequest(ctx context.Context, requestID string) (model.Request, error) {
	query, args, err := t.sb.Select(requestColumns...).From("requests").Where(squirrel.Eq{"id": requestID}).ToSql()
	if err != nil {
		return model.Request{}, fmt.Errorf("postgres: build get request: %w", err)
	}
	req, err := scanRequest(t.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Request{}, fmt.Errorf("get request %s: %w", requestID, biddingerrors.ErrRequestNotFound)
	}
	if err != nil {
		return model.Request{}, fmt.Errorf("postgres: get request %s: %w", requestID, err)
	}
	return req, nil
}

func (t pgTx) UpdateRequest(ctx context.Context, req model.Request) error {
	query, args, err := t.sb.
		Update("requests").
		SetMap(map[string]any{
			"status":          string(req.Status),
			"round_id":        nullString(req.RoundID),
			"joined_round_at": nullTime(req.JoinedRoundAt),
		}).
		Where(squirrel.Eq{"id": req.RequestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build update request: %w", err)
	}
	res, err := t.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: update request %s: %w", req.RequestID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update request %s: %w", req.RequestID, biddingerrors.ErrRequestNotFound)
	}
	return nil
}

func (t pgTx) RequestsInRound(ctx context.Context, roundID string) ([]model.Request, error) {
	query, args, err := t.sb.
		Select(requestColumns...).
		From("requests").
		Where(squirrel.Eq{"round_id": roundID, "status": string(model.RequestInRound)}).
		OrderBy("joined_round_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build requests in round: %w", err)
	}
	return t.listRequests(ctx, query, args)
}

func (t pgTx) listRequests(ctx context.Context, query string, args []any) ([]model.Request, error) {
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list requests: %w", err)
	}
	defer rows.Close()

	out := make([]model.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (t pgTx) ActiveRound(ctx context.Context, organizationID string) (model.BiddingRound, error) {
	query, args, err := t.sb.
		Select(roundColumns...).
		From("bidding_rounds").
		Where(squirrel.Eq{"organization_id": organizationID, "status": string(model.RoundActive)}).
		ToSql()
	if err != nil {
		return model.BiddingRound{}, fmt.Errorf("postgres: build active round: %w", err)
	}
	round, err := scanRound(t.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BiddingRound{}, fmt.Errorf("active round for %s: %w", organizationID, biddingerrors.ErrNoActiveRound)
	}
	if err != nil {
		return model.BiddingRound{}, fmt.Errorf("postgres: active round for %s: %w", organizationID, err)
	}
	return round, nil
}

func (t pgTx) GetRound(ctx context.Context, roundID string) (model.BiddingRound, error) {
	query, args, err := t.sb.Select(roundColumns...).From("bidding_rounds").Where(squirrel.Eq{"id": roundID}).ToSql()
	if err != nil {
		return model.BiddingRound{}, fmt.Errorf("postgres: build get round: %w", err)
	}
	round, err := scanRound(t.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BiddingRound{}, fmt.Errorf("get round %s: %w", roundID, biddingerrors.ErrRoundNotFound)
	}
	if err != nil {
		return model.BiddingRound{}, fmt.Errorf("postgres: get round %s: %w", roundID, err)
	}
	return round, nil
}

func (t pgTx) LatestRoundNumber(ctx context.Context, organizationID string) (int, error) {
	query, args, err := t.sb.
		Select("COALESCE(MAX(round_number), 0)").
		From("bidding_rounds").
		Where(squirrel.Eq{"organization_id": organizationID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("postgres: build latest round number: %w", err)
	}
	var n int
	if err := t.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: latest round number for %s: %w", organizationID, err)
	}
	return n, nil
}

func (t pgTx) CreateRound(ctx context.Context, round model.BiddingRound) error {
	query, args, err := t.sb.
		Insert("bidding_rounds").
		Columns(roundColumns...).
		Values(round.RoundID, round.OrganizationID, round.RoundNumber, round.StartedAt.UTC(), round.EndsAt.UTC(),
			string(round.Status), nullTime(round.ClosedAt), nullString(round.WinningRequestID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build insert round: %w", err)
	}
	if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return fmt.Errorf("create round for %s: %w: %w", round.OrganizationID, biddingerrors.ErrActiveRoundTaken, err)
		}
		return fmt.Errorf("postgres: insert round: %w", err)
	}
	return nil
}

func (t pgTx) UpdateRound(ctx context.Context, round model.BiddingRound) error {
	query, args, err := t.sb.
		Update("bidding_rounds").
		SetMap(map[string]any{
			"status":             string(round.Status),
			"closed_at":          nullTime(round.ClosedAt),
			"winning_request_id": nullString(round.WinningRequestID),
		}).
		Where(squirrel.Eq{"id": round.RoundID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build update round: %w", err)
	}
	res, err := t.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: update round %s: %w", round.RoundID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update round %s: %w", round.RoundID, biddingerrors.ErrRoundNotFound)
	}
	return nil
}

func (t pgTx) AppendBid(ctx context.Context, bid model.Bid) error {
	query, args, err := t.sb.
		Insert("bids").
		Columns(bidColumns...).
		Values(bid.BidID, bid.RequestID, bid.RoundID, bid.OrganizationID, bid.Amount, bid.BidderName,
			bid.BidderEmail, bid.BidderPhone, bid.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build insert bid: %w", err)
	}
	if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return fmt.Errorf("record bid %s: %w - unknown round or request", bid.BidID, biddingerrors.ErrValidation)
		}
		return fmt.Errorf("postgres: insert bid: %w", err)
	}
	return nil
}

func (t pgTx) BidsForRound(ctx context.Context, roundID string) ([]model.Bid, error) {
	return t.listBids(ctx, squirrel.Eq{"round_id": roundID})
}

func (t pgTx) BidsForRequest(ctx context.Context, requestID string) ([]model.Bid, error) {
	return t.listBids(ctx, squirrel.Eq{"request_id": requestID})
}

func (t pgTx) listBids(ctx context.Context, where squirrel.Eq) ([]model.Bid, error) {
	query, args, err := t.sb.Select(bidColumns...).From("bids").Where(where).OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build list bids: %w", err)
	}
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list bids: %w", err)
	}
	defer rows.Close()

	out := make([]model.Bid, 0)
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.BidID, &b.RequestID, &b.RoundID, &b.OrganizationID, &b.Amount,
			&b.BidderName, &b.BidderEmail, &b.BidderPhone, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan bid: %w", err)
		}
		b.CreatedAt = b.CreatedAt.UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (model.Request, error) {
	var (
		req       model.Request
		reqType   string
		status    string
		roundID   sql.NullString
		joinedAt  sql.NullTime
		createdAt time.Time
	)
	if err := row.Scan(&req.RequestID, &req.OrganizationID, &reqType, &req.SongTitle, &req.SongArtist,
		&req.RequesterName, &req.RequesterEmail, &req.RequesterPhone, &req.Message, &req.TipAmount,
		&status, &roundID, &joinedAt, &createdAt); err != nil {
		return model.Request{}, err
	}
	req.Type = model.RequestType(reqType)
	req.Status = model.RequestStatus(status)
	req.RoundID = roundID.String
	if joinedAt.Valid {
		req.JoinedRoundAt = joinedAt.Time.UTC()
	}
	req.CreatedAt = createdAt.UTC()
	return req, nil
}

func scanRound(row rowScanner) (model.BiddingRound, error) {
	var (
		round    model.BiddingRound
		status   string
		closedAt sql.NullTime
		winnerID sql.NullString
	)
	if err := row.Scan(&round.RoundID, &round.OrganizationID, &round.RoundNumber, &round.StartedAt,
		&round.EndsAt, &status, &closedAt, &winnerID); err != nil {
		return model.BiddingRound{}, err
	}
	round.Status = model.RoundStatus(status)
	round.StartedAt = round.StartedAt.UTC()
	round.EndsAt = round.EndsAt.UTC()
	if closedAt.Valid {
		round.ClosedAt = closedAt.Time.UTC()
	}
	round.WinningRequestID = winnerID.String
	return round, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
