package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"crowd-bidding/internal/biddingerrors"
	"crowd-bidding/internal/models"
	"crowd-bidding/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the DTOs to gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("reqtype", func(fl validator.FieldLevel) bool {
			switch models.RequestType(fl.Field().String()) {
			case models.RequestTypeSong, models.RequestTypeShoutout, models.RequestTypeTip:
				return true
			}
			return false
		})
	})
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w: %w", biddingerrors.ErrValidation, err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrValidation):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, biddingerrors.ErrRequestNotFound):
		return http.StatusNotFound, "request not found"
	case errors.Is(err, biddingerrors.ErrRoundNotFound):
		return http.StatusNotFound, "bidding round not found"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrRoundClosed), errors.Is(err, biddingerrors.ErrActiveRoundTaken):
		return http.StatusConflict, "bidding round closed"
	case errors.Is(err, biddingerrors.ErrInvalidTransition):
		return http.StatusConflict, "request cannot change to that status"
	case errors.Is(err, biddingerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, biddingerrors.ErrStorage):
		return http.StatusServiceUnavailable, "temporarily unavailable, please try again"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ToRoundInfo converts a round to its wire form at now
func ToRoundInfo(round models.BiddingRound, now time.Time) RoundInfo {
	remaining := round.EndsAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return RoundInfo{
		ID:            round.RoundID,
		RoundNumber:   round.RoundNumber,
		EndsAt:        round.EndsAt.UTC().Format(time.RFC3339),
		TimeRemaining: int64(remaining.Round(time.Second) / time.Second),
	}
}

// ToCurrentRoundResponse converts a round state to its wire form at now
func ToCurrentRoundResponse(state models.RoundState, now time.Time) CurrentRoundResponse {
	resp := CurrentRoundResponse{
		Active:           state.Active,
		Requests:         make([]RoundRequestResponse, 0, len(state.Requests)),
		WinningBidAmount: state.WinningAmount,
		MinimumBidAmount: state.MinimumBid,
		BidIncrement:     state.Increment,
		PresetAmounts:    state.Presets,
	}
	if resp.PresetAmounts == nil {
		resp.PresetAmounts = []int64{}
	}
	if !state.Active {
		return resp
	}
	info := ToRoundInfo(state.Round, now)
	resp.Round = &info
	for _, r := range state.Requests {
		resp.Requests = append(resp.Requests, RoundRequestResponse{
			RequestID:        r.Request.RequestID,
			CurrentBidAmount: r.CurrentBidAmount,
			SongTitle:        r.Request.SongTitle,
			SongArtist:       r.Request.SongArtist,
		})
	}
	return resp
}

// ToBidResponse converts a ledger entry to its wire form
func ToBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:      bid.BidID,
		RequestID:  bid.RequestID,
		RoundID:    bid.RoundID,
		Amount:     bid.Amount,
		BidderName: bid.BidderName,
		CreatedAt:  bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToRequestResponse converts a request to its wire form
func ToRequestResponse(req models.Request) RequestResponse {
	return RequestResponse{
		RequestID:      req.RequestID,
		OrganizationID: req.OrganizationID,
		Type:           string(req.Type),
		SongTitle:      req.SongTitle,
		SongArtist:     req.SongArtist,
		RequesterName:  req.RequesterName,
		Message:        req.Message,
		TipAmount:      req.TipAmount,
		Status:         string(req.Status),
		BiddingRoundID: req.RoundID,
		CreatedAt:      req.CreatedAt.UTC().Format(time.RFC3339),
	}
}
