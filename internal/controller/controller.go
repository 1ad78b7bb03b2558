// Package controller holds request helpers shared by the HTTP handlers in its
// sub-packages.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/store"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// Principal returns the authenticated caller. When missing it writes 401 and
// returns false.
func Principal(c *gin.Context) (workflow.Principal, bool) {
	principal, err := utilities.ExtractPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return workflow.Principal{}, false
	}
	return principal, true
}

// ParseID reads a positive numeric path parameter. On failure it writes 400
// and returns false.
func ParseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid %s: %q", name, raw),
			Code:  string(workflow.CodeValidation),
		})
		return 0, false
	}
	return uint(id), true
}

// ParsePage reads the page and limit query parameters. Missing values take
// defaults; malformed values write 400 and return false.
func ParsePage(c *gin.Context) (store.Page, bool) {
	var page store.Page
	for name, target := range map[string]*int{"page": &page.Page, "limit": &page.Limit} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid %s: %q", name, raw),
				Code:  string(workflow.CodeValidation),
			})
			return store.Page{}, false
		}
		*target = v
	}
	return page.Normalize(), true
}

// BindJSON decodes the request body into v, rejecting unknown fields. On
// failure it writes 400 (413 for oversized bodies) and returns false.
func BindJSON(c *gin.Context, v any) bool {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{Error: "Entity too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
		Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		Code:  string(workflow.CodeValidation),
	})
	return false
}

// RespondPage writes one page of items with the total count.
func RespondPage[T any](c *gin.Context, items []T, total int64, page store.Page) {
	c.JSON(http.StatusOK, utilities.PageResponse[T]{
		Items: items,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// ParsePostingFilter reads kind, status, moderation, submitted, search, page
// and limit query parameters. On failure it writes the error and returns false.
func ParsePostingFilter(c *gin.Context) (store.PostingFilter, bool) {
	page, ok := ParsePage(c)
	if !ok {
		return store.PostingFilter{}, false
	}
	filter := store.PostingFilter{Search: c.Query("search"), Page: page}

	if raw := c.Query("kind"); raw != "" {
		kind, err := workflow.ParsePostingKind(raw)
		if err != nil {
			utilities.RespondError(c, err)
			return store.PostingFilter{}, false
		}
		filter.Kind = kind
	}
	if raw := c.Query("status"); raw != "" {
		status, err := workflow.ParsePostingStatus(raw)
		if err != nil {
			utilities.RespondError(c, err)
			return store.PostingFilter{}, false
		}
		filter.Status = status
	}
	if raw := c.Query("moderation"); raw != "" {
		moderation, err := workflow.ParseModerationStatus(raw)
		if err != nil {
			utilities.RespondError(c, err)
			return store.PostingFilter{}, false
		}
		filter.Moderation = moderation
	}
	if raw := c.Query("submitted"); raw != "" {
		submitted, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid submitted %q, must be true or false", raw),
				Code:  string(workflow.CodeValidation),
			})
			return store.PostingFilter{}, false
		}
		filter.Submitted = &submitted
	}
	return filter, true
}
