package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bidding "crowd-bidding/internal/biddingService"
	"crowd-bidding/internal/biddingerrors"
	model "crowd-bidding/internal/models"
	"crowd-bidding/internal/payments"
	"crowd-bidding/services/bidding/helpers"
	"crowd-bidding/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_handler.go -package=handler

type BiddingServiceInterface interface {
	GetCurrentRound(ctx context.Context, organizationID string) (model.RoundState, error)
	AddRequestToRound(ctx context.Context, requestID, organizationID string) (model.BiddingRound, error)
	PlaceBid(ctx context.Context, in bidding.PlaceBidInput) (bidding.PlaceBidResult, error)
	BidsForRequest(ctx context.Context, requestID string) ([]model.Bid, error)

	SubmitRequest(ctx context.Context, in bidding.SubmitRequestInput) (model.Request, error)
	GetRequest(ctx context.Context, requestID string) (model.Request, error)

	OpenRound(ctx context.Context, organizationID string) (model.BiddingRound, bool, error)
	Queue(ctx context.Context, organizationID string) ([]model.Request, error)
	MarkPlayed(ctx context.Context, organizationID, requestID string) (model.Request, error)
	RejectRequest(ctx context.Context, organizationID, requestID string) (model.Request, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
	now     func() time.Time
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service, now: time.Now}
}

// respondError maps err to the error envelope and logs it
func (h *BiddingHandler) respondError(c *gin.Context, handlerName string, err error, logCtx map[string]any) {
	status, message := helpers.MapErrorToHTTP(err)
	if logCtx == nil {
		logCtx = map[string]any{}
	}
	logCtx["handler"] = handlerName
	logCtx["error"] = err.Error()

	var tooLow *biddingerrors.BidTooLowError
	if errors.As(err, &tooLow) {
		utils.JSONErrorWithData(c, status, err, message, helpers.BidTooLowData{
			WinningBidAmount: tooLow.WinningAmount,
			MinimumBidAmount: tooLow.MinimumAmount,
		})
		utils.Info(handlerName+": bid rejected", logCtx)
		return
	}

	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", logCtx)
		return
	}
	utils.Warn(handlerName+": request rejected", logCtx)
}

// GetCurrentRoundHandler handles GET /bidding/current-round
func (h *BiddingHandler) GetCurrentRoundHandler(c *gin.Context) {
	orgID := c.Query("organizationId")
	if orgID == "" {
		h.respondError(c, "GetCurrentRoundHandler", fmt.Errorf("%w - organizationId is required", biddingerrors.ErrValidation), nil)
		return
	}

	state, err := h.service.GetCurrentRound(c.Request.Context(), orgID)
	if err != nil {
		h.respondError(c, "GetCurrentRoundHandler", err, map[string]any{"organization_id": orgID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToCurrentRoundResponse(state, h.now()), "current round retrieved successfully")
	utils.Debug("GetCurrentRoundHandler: current round retrieved", map[string]any{
		"organization_id": orgID,
		"active":          state.Active,
		"requests":        len(state.Requests),
	})
}

// AddRequestToRoundHandler handles POST /bidding/add-request-to-round
func (h *BiddingHandler) AddRequestToRoundHandler(c *gin.Context) {
	var req helpers.AddRequestToRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddRequestToRoundHandler", err)
		return
	}

	round, err := h.service.AddRequestToRound(c.Request.Context(), req.RequestID, req.OrganizationID)
	if err != nil {
		h.respondError(c, "AddRequestToRoundHandler", err, map[string]any{
			"request_id":      req.RequestID,
			"organization_id": req.OrganizationID,
		})
		return
	}

	resp := helpers.AddRequestToRoundResponse{
		Success:        true,
		BiddingRoundID: round.RoundID,
		Round:          helpers.ToRoundInfo(round, h.now()),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "request added to bidding round")
	helpers.LogSuccess("AddRequestToRoundHandler", "request added to bidding round", map[string]any{
		"request_id":   req.RequestID,
		"round_id":     round.RoundID,
		"round_number": round.RoundNumber,
	})
}

// PlaceBidHandler handles POST /bidding/place-bid
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	result, err := h.service.PlaceBid(c.Request.Context(), bidding.PlaceBidInput{
		RequestID:      req.RequestID,
		RoundID:        req.BiddingRoundID,
		OrganizationID: req.OrganizationID,
		Amount:         req.BidAmount,
		BidderName:     req.BidderName,
		BidderEmail:    req.BidderEmail,
		BidderPhone:    req.BidderPhone,
	})
	if err != nil {
		h.respondError(c, "PlaceBidHandler", err, map[string]any{
			"request_id": req.RequestID,
			"round_id":   req.BiddingRoundID,
			"amount":     req.BidAmount,
		})
		return
	}

	resp := helpers.PlaceBidResponse{
		Success:          true,
		BidID:            result.Bid.BidID,
		WinningBidAmount: result.WinningAmount,
		ProcessingFee:    result.ProcessingFee,
		TotalCharge:      result.TotalCharge,
		DisplayTotal:     payments.FormatCents(result.TotalCharge),
	}
	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     result.Bid.BidID,
		"request_id": req.RequestID,
		"round_id":   req.BiddingRoundID,
		"amount":     req.BidAmount,
	})
}

// GetBidsForRequestHandler handles GET /bidding/requests/:request_id/bids
func (h *BiddingHandler) GetBidsForRequestHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	bids, err := h.service.BidsForRequest(c.Request.Context(), requestID)
	if err != nil {
		h.respondError(c, "GetBidsForRequestHandler", err, map[string]any{"request_id": requestID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.ToBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsForRequestHandler", "bids retrieved successfully", map[string]any{
		"request_id": requestID,
		"count":      len(resp),
	})
}
