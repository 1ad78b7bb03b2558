package service

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/metrics"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/store"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// BulkItem is the outcome of one id in a bulk moderation request.
type BulkItem struct {
	ID               uint                      `json:"id"`
	OK               bool                      `json:"ok"`
	ModerationStatus workflow.ModerationStatus `json:"moderation_status,omitempty"`
	Code             workflow.Code             `json:"code,omitempty"`
	Error            string                    `json:"error,omitempty"`
}

// BulkResult lists per-id outcomes in request order.
type BulkResult struct {
	Items     []BulkItem `json:"items"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
}

// ModerationService moves postings through moderation.
type ModerationService struct {
	Postings *store.PostingStore
	// BulkConcurrency bounds the ids processed at once by bulk operations.
	BulkConcurrency int
	now             func() time.Time
}

// NewModerationService creates a ModerationService.
func NewModerationService(postings *store.PostingStore, bulkConcurrency int) *ModerationService {
	if bulkConcurrency < 1 {
		bulkConcurrency = 1
	}
	return &ModerationService{Postings: postings, BulkConcurrency: bulkConcurrency, now: time.Now}
}

// Submit queues a posting for review. Only the owner may submit.
func (s *ModerationService) Submit(ctx context.Context, principal workflow.Principal, id uint) (model.Posting, error) {
	return s.apply(ctx, principal, id, workflow.ActionSubmit, "")
}

// Approve approves a PENDING posting.
func (s *ModerationService) Approve(ctx context.Context, principal workflow.Principal, id uint) (model.Posting, error) {
	return s.apply(ctx, principal, id, workflow.ActionApprove, "")
}

// Reject rejects a PENDING posting. reason must not be blank.
func (s *ModerationService) Reject(ctx context.Context, principal workflow.Principal, id uint, reason string) (model.Posting, error) {
	return s.apply(ctx, principal, id, workflow.ActionReject, reason)
}

// ReturnForRevision sends a PENDING posting back to its owner. reason must not be blank.
func (s *ModerationService) ReturnForRevision(ctx context.Context, principal workflow.Principal, id uint, reason string) (model.Posting, error) {
	return s.apply(ctx, principal, id, workflow.ActionReturn, reason)
}

func (s *ModerationService) apply(ctx context.Context, principal workflow.Principal, id uint, action workflow.ModerationAction, reason string) (model.Posting, error) {
	var kind workflow.PostingKind
	p, err := s.transition(ctx, principal, id, action, reason, &kind)
	metrics.ObserveModeration(kind, action, err)
	if err != nil {
		logx.WithContext(ctx).Infof("moderation %s on posting %d by %s failed: %v", action, id, principal.ID, err)
		return model.Posting{}, err
	}
	logx.WithContext(ctx).Infof("moderation %s on posting %d by %s: now %s", action, id, principal.ID, p.ModerationStatus)
	return p, nil
}

func (s *ModerationService) transition(ctx context.Context, principal workflow.Principal, id uint, action workflow.ModerationAction, reason string, kind *workflow.PostingKind) (model.Posting, error) {
	if workflow.ModeratorAction(action) && !principal.IsModerator() {
		logx.WithContext(ctx).Infof("denied %s on posting %d for %s %s", action, id, principal.Role, principal.ID)
		return model.Posting{}, workflow.Errorf(workflow.CodeUnauthorized, "only moderators can %s postings", action)
	}
	reason, err := workflow.CheckReason(action, reason)
	if err != nil {
		return model.Posting{}, err
	}

	return s.Postings.Mutate(ctx, id, func(p *model.Posting) (*model.ModerationLog, error) {
		*kind = p.Kind
		if !workflow.ModeratorAction(action) && !p.OwnedBy(principal) {
			return nil, denied(ctx, principal, string(action), id)
		}

		current := p.ModerationState()
		next, err := workflow.NextModeration(current, action)
		if err != nil {
			return nil, err
		}

		now := s.now()
		p.SetModerationState(next, now)
		if workflow.ModeratorAction(action) {
			p.ModerationReason = reason
			p.ModeratedBy = &principal.ID
			p.ModeratedAt = &now
		} else {
			p.ModerationReason = ""
		}
		return store.NewModerationLog(action, current.Status, next.Status, principal.ID, reason, now), nil
	})
}

// BulkApprove approves every id independently. One failing id does not
// affect the others.
func (s *ModerationService) BulkApprove(ctx context.Context, principal workflow.Principal, ids []uint) (BulkResult, error) {
	return s.bulk(ctx, principal, ids, workflow.ActionApprove, "")
}

// BulkReject rejects every id independently with the same reason.
func (s *ModerationService) BulkReject(ctx context.Context, principal workflow.Principal, ids []uint, reason string) (BulkResult, error) {
	return s.bulk(ctx, principal, ids, workflow.ActionReject, reason)
}

func (s *ModerationService) bulk(ctx context.Context, principal workflow.Principal, ids []uint, action workflow.ModerationAction, reason string) (BulkResult, error) {
	// Request level checks fail the whole call; everything else is per id.
	if !principal.IsModerator() {
		logx.WithContext(ctx).Infof("denied bulk %s for %s %s", action, principal.Role, principal.ID)
		return BulkResult{}, workflow.Errorf(workflow.CodeUnauthorized, "only moderators can %s postings", action)
	}
	if _, err := workflow.CheckReason(action, reason); err != nil {
		return BulkResult{}, err
	}
	metrics.ObserveBulk(action, len(ids))

	items := make([]BulkItem, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.BulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := s.apply(gctx, principal, id, action, reason)
			items[i] = BulkItem{ID: id, OK: err == nil}
			if err != nil {
				items[i].Code = workflow.CodeOf(err)
				items[i].Error = err.Error()
				return nil
			}
			items[i].ModerationStatus = p.ModerationStatus
			return nil
		})
	}
	_ = g.Wait()

	res := BulkResult{Items: items}
	for _, item := range items {
		if item.OK {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}
	logx.WithContext(ctx).Infof("bulk %s by %s: %d succeeded, %d failed", action, principal.ID, res.Succeeded, res.Failed)
	return res, nil
}
