package handler

import (
	"context"
	"fmt"
	"net/http"

	"crowd-bidding/internal/biddingerrors"
	model "crowd-bidding/internal/models"
	"crowd-bidding/services/bidding/helpers"
	"crowd-bidding/utils"

	"github.com/gin-gonic/gin"
)

// OperatorOrgKey is the gin context key holding the organization of an
// authenticated operator
const OperatorOrgKey = "operator_org"

// authorizedOrg checks that the operator acts on its own organization
func authorizedOrg(c *gin.Context, orgID string) error {
	if orgID == "" {
		return fmt.Errorf("%w - organizationId is required", biddingerrors.ErrValidation)
	}
	if claimed := c.GetString(OperatorOrgKey); claimed != orgID {
		return fmt.Errorf("%w - operator is not allowed to manage organization %s", biddingerrors.ErrUnauthorized, orgID)
	}
	return nil
}

// OpenRoundHandler handles POST /operator/rounds
func (h *BiddingHandler) OpenRoundHandler(c *gin.Context) {
	var req helpers.OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "OpenRoundHandler", err)
		return
	}
	if err := authorizedOrg(c, req.OrganizationID); err != nil {
		h.respondError(c, "OpenRoundHandler", err, nil)
		return
	}

	round, created, err := h.service.OpenRound(c.Request.Context(), req.OrganizationID)
	if err != nil {
		h.respondError(c, "OpenRoundHandler", err, map[string]any{"organization_id": req.OrganizationID})
		return
	}

	status, message := http.StatusOK, "bidding round already active"
	if created {
		status, message = http.StatusCreated, "bidding round opened"
	}
	utils.JSONResponse(c, status, helpers.ToRoundInfo(round, h.now()), message)
	helpers.LogSuccess("OpenRoundHandler", message, map[string]any{
		"organization_id": req.OrganizationID,
		"round_id":        round.RoundID,
	})
}

// QueueHandler handles GET /operator/queue
func (h *BiddingHandler) QueueHandler(c *gin.Context) {
	orgID := c.Query("organizationId")
	if err := authorizedOrg(c, orgID); err != nil {
		h.respondError(c, "QueueHandler", err, nil)
		return
	}

	won, err := h.service.Queue(c.Request.Context(), orgID)
	if err != nil {
		h.respondError(c, "QueueHandler", err, map[string]any{"organization_id": orgID})
		return
	}

	resp := make([]helpers.RequestResponse, 0, len(won))
	for _, r := range won {
		resp = append(resp, helpers.ToRequestResponse(r))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "queue retrieved successfully")
}

// MarkPlayedHandler handles POST /operator/requests/:request_id/played
func (h *BiddingHandler) MarkPlayedHandler(c *gin.Context) {
	h.changeStatus(c, "MarkPlayedHandler", "request marked as played", h.service.MarkPlayed)
}

// RejectRequestHandler handles POST /operator/requests/:request_id/reject
func (h *BiddingHandler) RejectRequestHandler(c *gin.Context) {
	h.changeStatus(c, "RejectRequestHandler", "request rejected", h.service.RejectRequest)
}

type statusChange func(ctx context.Context, organizationID, requestID string) (model.Request, error)

func (h *BiddingHandler) changeStatus(c *gin.Context, handlerName, message string, change statusChange) {
	var req helpers.OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, handlerName, err)
		return
	}
	if err := authorizedOrg(c, req.OrganizationID); err != nil {
		h.respondError(c, handlerName, err, nil)
		return
	}

	requestID := c.Param("request_id")
	updated, err := change(c.Request.Context(), req.OrganizationID, requestID)
	if err != nil {
		h.respondError(c, handlerName, err, map[string]any{
			"request_id":      requestID,
			"organization_id": req.OrganizationID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToRequestResponse(updated), message)
	helpers.LogSuccess(handlerName, message, map[string]any{
		"request_id":      requestID,
		"organization_id": req.OrganizationID,
	})
}
