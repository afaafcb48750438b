package bidding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/models"
	"crowd-bidding/internal/repository"
	"crowd-bidding/utils"
)

// SubmitRequestInput is a new crowd request as entered by an attendee
type SubmitRequestInput struct {
	OrganizationID string
	Type           models.RequestType
	SongTitle      string
	SongArtist     string
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	Message        string
	TipAmount      int64
}

// SubmitRequest validates and stores a new pending request
func (s *BiddingService) SubmitRequest(ctx context.Context, in SubmitRequestInput) (models.Request, error) {
	in.SongTitle = strings.TrimSpace(in.SongTitle)
	in.SongArtist = strings.TrimSpace(in.SongArtist)
	in.RequesterName = strings.TrimSpace(in.RequesterName)
	if err := validateRequestInput(in); err != nil {
		return models.Request{}, err
	}

	req := models.Request{
		RequestID:      utils.GenerateID(),
		OrganizationID: in.OrganizationID,
		Type:           in.Type,
		SongTitle:      in.SongTitle,
		SongArtist:     in.SongArtist,
		RequesterName:  in.RequesterName,
		RequesterEmail: in.RequesterEmail,
		RequesterPhone: in.RequesterPhone,
		Message:        in.Message,
		TipAmount:      in.TipAmount,
		Status:         models.RequestPending,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return models.Request{}, fmt.Errorf("service: failed to create request: %w", biddingerrors.Storage("create request", err))
	}
	return req, nil
}

// GetRequest returns a single request
func (s *BiddingService) GetRequest(ctx context.Context, requestID string) (models.Request, error) {
	if requestID == "" {
		return models.Request{}, fmt.Errorf("service: %w - empty request ID", biddingerrors.ErrValidation)
	}
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return models.Request{}, fmt.Errorf("service: failed to get request %s: %w", requestID, biddingerrors.Storage("get request", err))
	}
	return req, nil
}

// Queue returns the organization's won requests waiting to be played
func (s *BiddingService) Queue(ctx context.Context, organizationID string) ([]models.Request, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("service: %w - empty organization ID", biddingerrors.ErrValidation)
	}
	// close an expired round first so its winner shows up
	if _, err := s.GetCurrentRound(ctx, organizationID); err != nil {
		return nil, err
	}
	won, err := s.repo.RequestsByStatus(ctx, organizationID, models.RequestWon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list queue for %s: %w", organizationID, biddingerrors.Storage("queue", err))
	}
	return won, nil
}

// MarkPlayed records that the operator played a won request
func (s *BiddingService) MarkPlayed(ctx context.Context, organizationID, requestID string) (models.Request, error) {
	return s.transition(ctx, organizationID, requestID, func(req *models.Request) error {
		if req.Status != models.RequestWon {
			return fmt.Errorf("%w - only won requests can be played, request is %s", biddingerrors.ErrInvalidTransition, req.Status)
		}
		req.Status = models.RequestPlayed
		return nil
	})
}

// RejectRequest removes a request from play. A request in a round leaves it;
// its bids stay in the ledger but stop competing.
func (s *BiddingService) RejectRequest(ctx context.Context, organizationID, requestID string) (models.Request, error) {
	return s.transition(ctx, organizationID, requestID, func(req *models.Request) error {
		switch req.Status {
		case models.RequestPlayed, models.RequestRejected:
			return fmt.Errorf("%w - request is already %s", biddingerrors.ErrInvalidTransition, req.Status)
		}
		req.Status = models.RequestRejected
		return nil
	})
}

func (s *BiddingService) transition(ctx context.Context, organizationID, requestID string, apply func(req *models.Request) error) (models.Request, error) {
	if organizationID == "" || requestID == "" {
		return models.Request{}, fmt.Errorf("service: %w - missing requestID or organizationID", biddingerrors.ErrValidation)
	}

	var updated models.Request
	err := s.repo.InTenantTx(ctx, organizationID, func(tx repository.Tx) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.OrganizationID != organizationID {
			return fmt.Errorf("request %s: %w", requestID, biddingerrors.ErrRequestNotFound)
		}
		from := req.Status
		if err := apply(&req); err != nil {
			return err
		}
		if from == models.RequestInRound {
			req.RoundID = ""
			req.JoinedRoundAt = time.Time{}
		}
		updated = req
		return tx.UpdateRequest(ctx, req)
	})
	if err != nil {
		return models.Request{}, fmt.Errorf("service: failed to update request %s: %w", requestID, biddingerrors.Storage("update request", err))
	}

	utils.Info("request status changed", map[string]any{
		"request_id":      requestID,
		"organization_id": organizationID,
		"status":          updated.Status,
	})
	return updated, nil
}

func validateRequestInput(in SubmitRequestInput) error {
	if in.OrganizationID == "" {
		return fmt.Errorf("service: %w - missing organization ID", biddingerrors.ErrValidation)
	}
	if in.RequesterName == "" {
		return fmt.Errorf("service: %w - missing requester name", biddingerrors.ErrValidation)
	}
	switch in.Type {
	case models.RequestTypeSong:
		if in.SongTitle == "" {
			return fmt.Errorf("service: %w - song request needs a title", biddingerrors.ErrValidation)
		}
	case models.RequestTypeShoutout:
		if strings.TrimSpace(in.Message) == "" {
			return fmt.Errorf("service: %w - shoutout needs a message", biddingerrors.ErrValidation)
		}
	case models.RequestTypeTip:
		if in.TipAmount <= 0 {
			return fmt.Errorf("service: %w - tip needs a positive amount", biddingerrors.ErrValidation)
		}
	default:
		return fmt.Errorf("service: %w - unknown request type %q", biddingerrors.ErrValidation, in.Type)
	}
	return nil
}
