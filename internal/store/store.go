// Package store persists postings, applications and moderation history.
// Every posting mutation runs in its own transaction holding a row lock.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// Postgres error codes the store translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ApplicationUniqueIndex is the unique index on (posting_id, candidate_id),
// see model.Application.
const ApplicationUniqueIndex = "idx_application_posting_candidate"

// Page limits
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps the page into a valid range.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// translate maps a gorm or postgres error to a workflow error. what names the
// record for NotFound messages.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workflow.NewError(workflow.CodeNotFound, what+" not found", nil)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == ApplicationUniqueIndex:
			return workflow.NewError(workflow.CodeDuplicateApplication, "candidate has already applied to this posting", nil)
		case pgErr.Code == pgUniqueViolation:
			return workflow.NewError(workflow.CodeValidation, what+" already exists", pgErr)
		case pgErr.Code == pgForeignKeyViolation:
			return workflow.NewError(workflow.CodeNotFound, what+" references a record that does not exist", nil)
		}
	}

	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		return err
	}
	return pkgerrors.Wrapf(err, "%s query failed", what)
}
