// Package posting provides HTTP handlers for job and internship postings.
package posting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/controller"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/service"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// PostingController handles posting endpoints
type PostingController struct {
	Postings *service.PostingService
}

// NewPostingController creates a new instance of PostingController
func NewPostingController(postings *service.PostingService) *PostingController {
	return &PostingController{Postings: postings}
}

// StatusRequest is the body of SetStatusHandler
type StatusRequest struct {
	Status workflow.PostingStatus `json:"status"`
}

// CreateHandler creates a posting owned by the caller.
// @Summary Create a job or internship posting
// @Description Only HR and university accounts can create postings. New postings are DRAFT and PENDING.
// @Tags Posting
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param posting body service.PostingInput true "Posting content"
// @Success 201 {object} model.Posting
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 403 {object} utilities.ErrorResponse "Not an HR or university account"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /postings [post]
func (pc *PostingController) CreateHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	var in service.PostingInput
	if !controller.BindJSON(c, &in) {
		return
	}

	p, err := pc.Postings.Create(c.Request.Context(), principal, in)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListPublicHandler lists publicly visible postings.
// @Summary List public postings
// @Tags Posting
// @Produce json
// @Param kind query string false "JOB or INTERNSHIP"
// @Param search query string false "Substring of title or description, case insensitive"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} utilities.PageResponse[model.Posting]
// @Failure 400 {object} utilities.ErrorResponse "Invalid query"
// @Router /postings [get]
func (pc *PostingController) ListPublicHandler(c *gin.Context) {
	page, ok := controller.ParsePage(c)
	if !ok {
		return
	}
	var kind workflow.PostingKind
	if raw := c.Query("kind"); raw != "" {
		k, err := workflow.ParsePostingKind(raw)
		if err != nil {
			utilities.RespondError(c, err)
			return
		}
		kind = k
	}

	items, total, err := pc.Postings.ListPublic(c.Request.Context(), kind, c.Query("search"), page)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	controller.RespondPage(c, items, total, page)
}

// ListMineHandler lists the caller's postings in every state.
// @Summary List my postings
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Posting status"
// @Param moderation query string false "Moderation status"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} utilities.PageResponse[model.Posting]
// @Failure 403 {object} utilities.ErrorResponse "Not an HR or university account"
// @Router /postings/mine [get]
func (pc *PostingController) ListMineHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	filter, ok := controller.ParsePostingFilter(c)
	if !ok {
		return
	}

	items, total, err := pc.Postings.ListMine(c.Request.Context(), principal, filter)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	controller.RespondPage(c, items, total, filter.Page)
}

// GetHandler returns one posting.
// @Summary Get posting by id
// @Description Postings that are not publicly visible are only returned to their owner and admins
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Success 200 {object} model.Posting
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Router /postings/{id} [get]
func (pc *PostingController) GetHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := pc.Postings.Get(c.Request.Context(), principal, id)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// EditHandler replaces the posting content and sends it back to review.
// @Summary Edit posting content
// @Tags Posting
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Param posting body model.EditablePostingInfo true "Posting content"
// @Success 200 {object} model.Posting
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Router /postings/{id} [put]
func (pc *PostingController) EditHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var info model.EditablePostingInfo
	if !controller.BindJSON(c, &info) {
		return
	}

	p, err := pc.Postings.Edit(c.Request.Context(), principal, id, info)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SetStatusHandler changes the owner controlled status.
// @Summary Set posting status
// @Tags Posting
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Param status body StatusRequest true "DRAFT, ACTIVE, INACTIVE or CLOSED"
// @Success 200 {object} model.Posting
// @Failure 400 {object} utilities.ErrorResponse "Unknown status"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Router /postings/{id}/status [patch]
func (pc *PostingController) SetStatusHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !controller.BindJSON(c, &req) {
		return
	}

	p, err := pc.Postings.SetStatus(c.Request.Context(), principal, id, req.Status)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteHandler deletes a posting with its applications.
// @Summary Delete posting
// @Description Owner or admin only
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Router /postings/{id} [delete]
func (pc *PostingController) DeleteHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}

	if err := pc.Postings.Delete(c.Request.Context(), principal, id); err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Posting deleted"})
}

// VisibilityHandler explains whether a posting is publicly listed.
// @Summary Posting visibility diagnostic
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Success 200 {object} service.VisibilityReport
// @Failure 403 {object} utilities.ErrorResponse "Not the owner or an admin"
// @Router /postings/{id}/visibility [get]
func (pc *PostingController) VisibilityHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}

	report, err := pc.Postings.Visibility(c.Request.Context(), principal, id)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HistoryHandler lists moderation changes of a posting, newest first.
// @Summary Posting moderation history
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Success 200 {array} model.ModerationLog
// @Failure 403 {object} utilities.ErrorResponse "Not the owner or an admin"
// @Router /postings/{id}/history [get]
func (pc *PostingController) HistoryHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}

	logs, err := pc.Postings.History(c.Request.Context(), principal, id)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
