package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/metrics"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/store"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// ApplicationService lets candidates apply and owners decide.
type ApplicationService struct {
	Postings     *store.PostingStore
	Applications *store.ApplicationStore
	Visibility   workflow.VisibilityRule
	now          func() time.Time
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(postings *store.PostingStore, applications *store.ApplicationStore, visibility workflow.VisibilityRule) *ApplicationService {
	return &ApplicationService{Postings: postings, Applications: applications, Visibility: visibility, now: time.Now}
}

// Apply creates a PENDING application of the calling candidate to a publicly
// visible posting.
func (s *ApplicationService) Apply(ctx context.Context, principal workflow.Principal, postingID uint, coverLetter string) (model.Application, error) {
	a, err := s.apply(ctx, principal, postingID, coverLetter)
	metrics.ObserveApplication("apply", err)
	if err != nil {
		logx.WithContext(ctx).Infof("apply to posting %d by %s failed: %v", postingID, principal.ID, err)
		return model.Application{}, err
	}
	logx.WithContext(ctx).Infof("application %d to posting %d created by %s", a.ID, postingID, principal.ID)
	return a, nil
}

func (s *ApplicationService) apply(ctx context.Context, principal workflow.Principal, postingID uint, coverLetter string) (model.Application, error) {
	if principal.Role != workflow.RoleCandidate {
		logx.WithContext(ctx).Infof("denied apply to posting %d for %s %s", postingID, principal.Role, principal.ID)
		return model.Application{}, workflow.Errorf(workflow.CodeUnauthorized, "only candidates can apply")
	}

	p, err := s.Postings.GetByID(ctx, postingID)
	if err != nil {
		return model.Application{}, err
	}
	if !s.Visibility.IsPubliclyVisible(p.Kind, p.Status, p.ModerationStatus) {
		return model.Application{}, workflow.Errorf(workflow.CodePostingNotVisible,
			"posting is not open for applications: %s", s.Visibility.Explain(p.Kind, p.Status, p.ModerationStatus))
	}

	a := model.Application{
		PostingID:   postingID,
		CandidateID: principal.ID,
		CoverLetter: strings.TrimSpace(coverLetter),
	}
	if err := s.Applications.Create(ctx, &a); err != nil {
		return model.Application{}, err
	}
	return a, nil
}

// Decide accepts or rejects a PENDING application. Only the owner of the
// posting may decide, and only once.
func (s *ApplicationService) Decide(ctx context.Context, principal workflow.Principal, applicationID uint, decision workflow.ApplicationStatus) (model.Application, error) {
	a, err := s.decide(ctx, principal, applicationID, decision)
	metrics.ObserveApplication("decide", err)
	if err != nil {
		logx.WithContext(ctx).Infof("decide application %d by %s failed: %v", applicationID, principal.ID, err)
		return model.Application{}, err
	}
	logx.WithContext(ctx).Infof("application %d %s by %s", a.ID, a.Status, principal.ID)
	return a, nil
}

func (s *ApplicationService) decide(ctx context.Context, principal workflow.Principal, applicationID uint, decision workflow.ApplicationStatus) (model.Application, error) {
	decision, err := workflow.ParseDecision(string(decision))
	if err != nil {
		return model.Application{}, err
	}

	a, err := s.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return model.Application{}, err
	}
	p, err := s.Postings.GetByID(ctx, a.PostingID)
	if err != nil {
		return model.Application{}, err
	}
	if !p.OwnedBy(principal) {
		logx.WithContext(ctx).Infof("denied decide on application %d for %s %s", applicationID, principal.Role, principal.ID)
		return model.Application{}, workflow.Errorf(workflow.CodeUnauthorized, "only the posting owner can decide applications")
	}

	return s.Applications.Decide(ctx, applicationID, decision, principal.ID, s.now())
}

// ListForPosting lists applications to a posting for its owner or a moderator.
func (s *ApplicationService) ListForPosting(ctx context.Context, principal workflow.Principal, postingID uint, page store.Page) ([]model.Application, int64, error) {
	p, err := s.Postings.GetByID(ctx, postingID)
	if err != nil {
		return nil, 0, err
	}
	if !p.OwnedBy(principal) && !principal.IsModerator() {
		logx.WithContext(ctx).Infof("denied listing applications of posting %d for %s %s", postingID, principal.Role, principal.ID)
		return nil, 0, workflow.Errorf(workflow.CodeUnauthorized, "not allowed to list applications of this posting")
	}
	return s.Applications.ListForPosting(ctx, postingID, page)
}

// ListForCandidate lists a candidate's applications for that candidate or a moderator.
func (s *ApplicationService) ListForCandidate(ctx context.Context, principal workflow.Principal, candidateID uuid.UUID, page store.Page) ([]model.Application, int64, error) {
	if principal.ID != candidateID && !principal.IsModerator() {
		logx.WithContext(ctx).Infof("denied listing applications of %s for %s %s", candidateID, principal.Role, principal.ID)
		return nil, 0, workflow.Errorf(workflow.CodeUnauthorized, "not allowed to list these applications")
	}
	return s.Applications.ListForCandidate(ctx, candidateID, page)
}
