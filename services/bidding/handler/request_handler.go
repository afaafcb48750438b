package handler

import (
	"net/http"

	bidding "crowd-bidding/internal/biddingService"
	model "crowd-bidding/internal/models"
	"crowd-bidding/services/bidding/helpers"
	"crowd-bidding/utils"

	"github.com/gin-gonic/gin"
)

// SubmitRequestHandler handles POST /requests
func (h *BiddingHandler) SubmitRequestHandler(c *gin.Context) {
	var req helpers.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitRequestHandler", err)
		return
	}

	created, err := h.service.SubmitRequest(c.Request.Context(), bidding.SubmitRequestInput{
		OrganizationID: req.OrganizationID,
		Type:           model.RequestType(req.Type),
		SongTitle:      req.SongTitle,
		SongArtist:     req.SongArtist,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		RequesterPhone: req.RequesterPhone,
		Message:        req.Message,
		TipAmount:      req.TipAmount,
	})
	if err != nil {
		h.respondError(c, "SubmitRequestHandler", err, map[string]any{
			"organization_id": req.OrganizationID,
			"type":            req.Type,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToRequestResponse(created), "request submitted successfully")
	helpers.LogSuccess("SubmitRequestHandler", "request submitted successfully", map[string]any{
		"request_id":      created.RequestID,
		"organization_id": created.OrganizationID,
		"type":            created.Type,
	})
}

// GetRequestHandler handles GET /requests/:request_id
func (h *BiddingHandler) GetRequestHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	req, err := h.service.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		h.respondError(c, "GetRequestHandler", err, map[string]any{"request_id": requestID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToRequestResponse(req), "request retrieved successfully")
}
