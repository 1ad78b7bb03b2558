// Package application provides HTTP handlers for applications to postings.
package application

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/controller"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/service"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// ApplicationController handles application related endpoints
type ApplicationController struct {
	Applications *service.ApplicationService
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(applications *service.ApplicationService) *ApplicationController {
	return &ApplicationController{Applications: applications}
}

// ApplyRequest is the body of ApplyHandler
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

// DecisionRequest is the body of DecideHandler
type DecisionRequest struct {
	Decision workflow.ApplicationStatus `json:"decision"`
}

// ApplyHandler applies the calling candidate to a posting.
// @Summary Apply to posting
// @Description Only candidates can apply, once per posting, to publicly visible postings
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Param application body ApplyRequest false "Optional cover letter"
// @Success 201 {object} model.Application "Successfully applied"
// @Failure 403 {object} utilities.ErrorResponse "Not a candidate"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied, or posting not open"
// @Router /postings/{id}/applications [post]
func (ac *ApplicationController) ApplyHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	postingID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req ApplyRequest
	if !controller.BindJSON(c, &req) {
		return
	}

	a, err := ac.Applications.Apply(c.Request.Context(), principal, postingID, req.CoverLetter)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DecideHandler accepts or rejects a PENDING application.
// @Summary Decide application
// @Description Only the owner of the posting can decide, once
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application ID"
// @Param decision body DecisionRequest true "ACCEPTED or REJECTED"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Unknown decision"
// @Failure 403 {object} utilities.ErrorResponse "Not the posting owner"
// @Failure 409 {object} utilities.ErrorResponse "Already decided"
// @Router /applications/{id}/decision [post]
func (ac *ApplicationController) DecideHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req DecisionRequest
	if !controller.BindJSON(c, &req) {
		return
	}

	a, err := ac.Applications.Decide(c.Request.Context(), principal, id, req.Decision)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// ListForPostingHandler lists applications to a posting, newest first.
// @Summary List applications of a posting
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Posting ID"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} utilities.PageResponse[model.Application]
// @Failure 403 {object} utilities.ErrorResponse "Not the posting owner or an admin"
// @Router /postings/{id}/applications [get]
func (ac *ApplicationController) ListForPostingHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	postingID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	page, ok := controller.ParsePage(c)
	if !ok {
		return
	}

	items, total, err := ac.Applications.ListForPosting(c.Request.Context(), principal, postingID, page)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	controller.RespondPage(c, items, total, page)
}

// ListMineHandler lists the calling candidate's applications, newest first.
// @Summary List my applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} utilities.PageResponse[model.Application]
// @Router /applications/mine [get]
func (ac *ApplicationController) ListMineHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	ac.listForCandidate(c, principal, principal.ID)
}

// ListForCandidateHandler lists a candidate's applications for admins.
// @Summary List applications of a candidate
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param candidate_id path string true "Candidate user ID"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} utilities.PageResponse[model.Application]
// @Failure 400 {object} utilities.ErrorResponse "Invalid candidate id"
// @Failure 403 {object} utilities.ErrorResponse "Not the candidate or an admin"
// @Router /candidates/{candidate_id}/applications [get]
func (ac *ApplicationController) ListForCandidateHandler(c *gin.Context) {
	principal, ok := controller.Principal(c)
	if !ok {
		return
	}
	candidateID, err := uuid.Parse(c.Param("candidate_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid candidate_id",
			Code:  string(workflow.CodeValidation),
		})
		return
	}
	ac.listForCandidate(c, principal, candidateID)
}

func (ac *ApplicationController) listForCandidate(c *gin.Context, principal workflow.Principal, candidateID uuid.UUID) {
	page, ok := controller.ParsePage(c)
	if !ok {
		return
	}

	items, total, err := ac.Applications.ListForCandidate(c.Request.Context(), principal, candidateID, page)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	controller.RespondPage(c, items, total, page)
}
