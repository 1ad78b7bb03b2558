// Package service implements posting ownership, moderation and the
// application workflow on top of the stores. Every operation takes the
// calling principal explicitly and authorizes against it.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/metrics"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/store"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// PostingInput is the owner supplied content of a posting.
type PostingInput struct {
	Kind workflow.PostingKind `json:"kind"`
	model.EditablePostingInfo
}

// VisibilityReport explains why a posting is or is not publicly listed.
type VisibilityReport struct {
	PostingID        uint                      `json:"posting_id"`
	Kind             workflow.PostingKind      `json:"kind"`
	Status           workflow.PostingStatus    `json:"status"`
	ModerationStatus workflow.ModerationStatus `json:"moderation_status"`
	Visible          bool                      `json:"visible"`
	Reason           string                    `json:"reason"`
}

// PostingService covers the owner side of postings and public reads.
type PostingService struct {
	Postings   *store.PostingStore
	Visibility workflow.VisibilityRule
	now        func() time.Time
}

// NewPostingService creates a PostingService.
func NewPostingService(postings *store.PostingStore, visibility workflow.VisibilityRule) *PostingService {
	return &PostingService{Postings: postings, Visibility: visibility, now: time.Now}
}

func denied(ctx context.Context, principal workflow.Principal, op string, postingID uint) error {
	logx.WithContext(ctx).Infof("denied %s on posting %d for %s %s", op, postingID, principal.Role, principal.ID)
	return workflow.Errorf(workflow.CodeUnauthorized, "not allowed to %s this posting", op)
}

func validateContent(info *model.EditablePostingInfo) error {
	info.Title = strings.TrimSpace(info.Title)
	if info.Title == "" {
		return workflow.Errorf(workflow.CodeValidation, "title is required")
	}
	return nil
}

// Create stores a new DRAFT posting awaiting moderation.
func (s *PostingService) Create(ctx context.Context, principal workflow.Principal, in PostingInput) (model.Posting, error) {
	if !principal.CanOwnPostings() {
		return model.Posting{}, denied(ctx, principal, "create", 0)
	}
	kind, err := workflow.ParsePostingKind(string(in.Kind))
	if err != nil {
		return model.Posting{}, err
	}
	if err := validateContent(&in.EditablePostingInfo); err != nil {
		return model.Posting{}, err
	}

	p := model.Posting{
		Kind:                kind,
		OwnerID:             principal.ID,
		EditablePostingInfo: in.EditablePostingInfo,
		Status:              workflow.StatusDraft,
		ModerationStatus:    workflow.ModerationPending,
	}
	if err := s.Postings.Create(ctx, &p); err != nil {
		return model.Posting{}, err
	}
	logx.WithContext(ctx).Infof("posting %d (%s) created by %s", p.ID, p.Kind, principal.ID)
	return p, nil
}

// Edit replaces the content of a posting. Any content edit sends the posting
// back to PENDING for review.
func (s *PostingService) Edit(ctx context.Context, principal workflow.Principal, id uint, info model.EditablePostingInfo) (model.Posting, error) {
	if err := validateContent(&info); err != nil {
		return model.Posting{}, err
	}

	var kind workflow.PostingKind
	var changed bool
	p, err := s.Postings.Mutate(ctx, id, func(p *model.Posting) (*model.ModerationLog, error) {
		kind = p.Kind
		if !p.OwnedBy(principal) {
			return nil, denied(ctx, principal, "edit", id)
		}
		current := p.ModerationState()
		next, err := workflow.NextModeration(current, workflow.ActionRevise)
		if err != nil {
			return nil, err
		}

		now := s.now()
		p.EditablePostingInfo = info
		p.SetModerationState(next, now)
		if next.Status == current.Status {
			return nil, nil
		}
		p.ModerationReason = ""
		changed = true
		return store.NewModerationLog(workflow.ActionRevise, current.Status, next.Status, principal.ID, "", now), nil
	})
	// Edits that leave moderation untouched are not transitions.
	if changed || err != nil {
		metrics.ObserveModeration(kind, workflow.ActionRevise, err)
	}
	if err != nil {
		return model.Posting{}, err
	}
	logx.WithContext(ctx).Infof("posting %d edited by %s, moderation %s", id, principal.ID, p.ModerationStatus)
	return p, nil
}

// SetStatus moves the owner controlled status. Moderation is not affected.
func (s *PostingService) SetStatus(ctx context.Context, principal workflow.Principal, id uint, target workflow.PostingStatus) (model.Posting, error) {
	p, err := s.Postings.Mutate(ctx, id, func(p *model.Posting) (*model.ModerationLog, error) {
		if !p.OwnedBy(principal) {
			return nil, denied(ctx, principal, "change status of", id)
		}
		next, _, err := workflow.NextPostingStatus(p.Status, target)
		if err != nil {
			return nil, err
		}
		p.Status = next
		return nil, nil
	})
	if err != nil {
		return model.Posting{}, err
	}
	logx.WithContext(ctx).Infof("posting %d status set to %s by %s", id, p.Status, principal.ID)
	return p, nil
}

// Delete removes a posting. Owners and moderators may delete.
func (s *PostingService) Delete(ctx context.Context, principal workflow.Principal, id uint) error {
	p, err := s.Postings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.OwnedBy(principal) && !principal.IsModerator() {
		return denied(ctx, principal, "delete", id)
	}
	if err := s.Postings.Delete(ctx, id); err != nil {
		return err
	}
	logx.WithContext(ctx).Infof("posting %d deleted by %s %s", id, principal.Role, principal.ID)
	return nil
}

// Get returns a posting. Postings that are not publicly visible are reported
// as missing to everyone but their owner and moderators.
func (s *PostingService) Get(ctx context.Context, principal workflow.Principal, id uint) (model.Posting, error) {
	p, err := s.Postings.GetByID(ctx, id)
	if err != nil {
		return model.Posting{}, err
	}
	if p.OwnedBy(principal) || principal.IsModerator() {
		return p, nil
	}
	if !s.Visibility.IsPubliclyVisible(p.Kind, p.Status, p.ModerationStatus) {
		return model.Posting{}, workflow.NewError(workflow.CodeNotFound, "posting not found", nil)
	}
	return p, nil
}

// ListPublic lists publicly visible postings, newest first.
func (s *PostingService) ListPublic(ctx context.Context, kind workflow.PostingKind, search string, page store.Page) ([]model.Posting, int64, error) {
	return s.Postings.Query(ctx, store.PostingFilter{
		Kind:       kind,
		Search:     search,
		Public:     true,
		Visibility: s.Visibility,
		Page:       page,
	})
}

// ListMine lists the caller's own postings in every state.
func (s *PostingService) ListMine(ctx context.Context, principal workflow.Principal, filter store.PostingFilter) ([]model.Posting, int64, error) {
	if !principal.CanOwnPostings() {
		return nil, 0, denied(ctx, principal, "list own", 0)
	}
	filter.OwnerID = principal.ID
	filter.Public = false
	return s.Postings.Query(ctx, filter)
}

// ListModerationQueue lists postings for moderators. Without a moderation
// filter it lists the PENDING postings their owners submitted for review.
func (s *PostingService) ListModerationQueue(ctx context.Context, principal workflow.Principal, filter store.PostingFilter) ([]model.Posting, int64, error) {
	if !principal.IsModerator() {
		return nil, 0, denied(ctx, principal, "moderate", 0)
	}
	if filter.Moderation == "" {
		filter.Moderation = workflow.ModerationPending
		if filter.Submitted == nil {
			submitted := true
			filter.Submitted = &submitted
		}
	}
	filter.Public = false
	return s.Postings.Query(ctx, filter)
}

// Visibility reports whether a posting is publicly listed and why.
func (s *PostingService) Visibility(ctx context.Context, principal workflow.Principal, id uint) (VisibilityReport, error) {
	p, err := s.Postings.GetByID(ctx, id)
	if err != nil {
		return VisibilityReport{}, err
	}
	if !p.OwnedBy(principal) && !principal.IsModerator() {
		return VisibilityReport{}, denied(ctx, principal, "inspect", id)
	}
	return Report(s.Visibility, p), nil
}

// Report builds the visibility report of p under rule.
func Report(rule workflow.VisibilityRule, p model.Posting) VisibilityReport {
	return VisibilityReport{
		PostingID:        p.ID,
		Kind:             p.Kind,
		Status:           p.Status,
		ModerationStatus: p.ModerationStatus,
		Visible:          rule.IsPubliclyVisible(p.Kind, p.Status, p.ModerationStatus),
		Reason:           rule.Explain(p.Kind, p.Status, p.ModerationStatus),
	}
}

// History returns the moderation log of a posting to its owner or a moderator.
func (s *PostingService) History(ctx context.Context, principal workflow.Principal, id uint) ([]model.ModerationLog, error) {
	p, err := s.Postings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(principal) && !principal.IsModerator() {
		return nil, denied(ctx, principal, "view history of", id)
	}
	return s.Postings.History(ctx, id)
}
