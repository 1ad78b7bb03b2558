// Package moderation provides HTTP handlers for the posting review workflow.
package moderation

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/controller"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/service"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// ModerationController handles moderation endpoints
type ModerationController struct {
	Moderation *service.ModerationService
	Postings   *service.PostingService
}

// NewModerationController creates a new instance of ModerationController
func NewModerationController(moderation *service.ModerationService, postings *service.PostingService) *ModerationController {
	return &ModerationController{Moderation: moderation, Postings: postings}
}

// ReasonRequest carries the reason of a reject or return.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// BulkRequest lists the postings of a bulk action.
type BulkRequest struct {
	IDs    []uint `json:"ids"`
	Reason string `json:"reason"`
}

type transition func(ctx context.Context, principal workflow.Principal, id uint, reason string) (model.Posting, error)

func (mc *ModerationController) handle(c *gin.Context, withReason bool, fn transition) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req ReasonRequest
	if withReason && !controller.BindJSON(c, &req) {
		return
	}

	p, err := fn(c.Request.Context(), principal, id, req.Reason)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SubmitHandler queues the caller's posting for review.
// @Summary Submit posting for moderation
// @Description Allowed for a new posting and for REJECTED or RETURNED postings
// @Tags Moderation
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Success 200 {object} model.Posting
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 409 {object} utilities.ErrorResponse "Already waiting for review or approved"
// @Router /postings/{id}/submit [post]
func (mc *ModerationController) SubmitHandler(c *gin.Context) {
	mc.handle(c, false, func(ctx context.Context, principal workflow.Principal, id uint, _ string) (model.Posting, error) {
		return mc.Moderation.Submit(ctx, principal, id)
	})
}

// ApproveHandler approves a PENDING posting.
// @Summary Approve posting
// @Tags Moderation
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Success 200 {object} model.Posting
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not PENDING"
// @Router /moderation/postings/{id}/approve [post]
func (mc *ModerationController) ApproveHandler(c *gin.Context) {
	mc.handle(c, false, func(ctx context.Context, principal workflow.Principal, id uint, _ string) (model.Posting, error) {
		return mc.Moderation.Approve(ctx, principal, id)
	})
}

// RejectHandler rejects a PENDING posting.
// @Summary Reject posting
// @Tags Moderation
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Param reason body ReasonRequest true "Reason shown to the owner"
// @Success 200 {object} model.Posting
// @Failure 400 {object} utilities.ErrorResponse "Missing reason"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not PENDING"
// @Router /moderation/postings/{id}/reject [post]
func (mc *ModerationController) RejectHandler(c *gin.Context) {
	mc.handle(c, true, func(ctx context.Context, principal workflow.Principal, id uint, reason string) (model.Posting, error) {
		return mc.Moderation.Reject(ctx, principal, id, reason)
	})
}

// ReturnHandler returns a PENDING posting to its owner for revision.
// @Summary Return posting for revision
// @Tags Moderation
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Param reason body ReasonRequest true "What the owner has to change"
// @Success 200 {object} model.Posting
// @Failure 400 {object} utilities.ErrorResponse "Missing reason"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not PENDING"
// @Router /moderation/postings/{id}/return [post]
func (mc *ModerationController) ReturnHandler(c *gin.Context) {
	mc.handle(c, true, func(ctx context.Context, principal workflow.Principal, id uint, reason string) (model.Posting, error) {
		return mc.Moderation.ReturnForRevision(ctx, principal, id, reason)
	})
}

// BulkApproveHandler approves several postings, reporting each outcome.
// @Summary Bulk approve postings
// @Tags Moderation
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param body body BulkRequest true "Posting IDs"
// @Success 200 {object} service.BulkResult
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Router /moderation/postings/bulk-approve [post]
func (mc *ModerationController) BulkApproveHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	var req BulkRequest
	if !controller.BindJSON(c, &req) {
		return
	}

	res, err := mc.Moderation.BulkApprove(c.Request.Context(), principal, req.IDs)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// BulkRejectHandler rejects several postings with one reason, reporting each outcome.
// @Summary Bulk reject postings
// @Tags Moderation
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param body body BulkRequest true "Posting IDs and reason"
// @Success 200 {object} service.BulkResult
// @Failure 400 {object} utilities.ErrorResponse "Missing reason"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Router /moderation/postings/bulk-reject [post]
func (mc *ModerationController) BulkRejectHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	var req BulkRequest
	if !controller.BindJSON(c, &req) {
		return
	}

	res, err := mc.Moderation.BulkReject(c.Request.Context(), principal, req.IDs, req.Reason)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// QueueHandler lists postings for review, submitted PENDING postings by default.
// @Summary Moderation queue
// @Tags Moderation
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param kind query string false "JOB or INTERNSHIP"
// @Param status query string false "Posting status"
// @Param moderation query string false "Moderation status, PENDING when empty"
// @Param submitted query bool false "Only submitted (true) or unsubmitted (false) postings; true when moderation is empty"
// @Param search query string false "Substring of title or description"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} utilities.PageResponse[model.Posting]
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Router /moderation/postings [get]
func (mc *ModerationController) QueueHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	filter, ok := controller.ParsePostingFilter(c)
	if !ok {
		return
	}

	items, total, err := mc.Postings.ListModerationQueue(c.Request.Context(), principal, filter)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	controller.RespondPage(c, items, total, filter.Page)
}
