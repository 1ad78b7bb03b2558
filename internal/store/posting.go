package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// PostingFilter narrows a posting query. Zero fields do not filter.
type PostingFilter struct {
	Kind       workflow.PostingKind
	Status     workflow.PostingStatus
	Moderation workflow.ModerationStatus
	// Submitted, when set, keeps only postings the owner did (or did not)
	// submit for review.
	Submitted *bool
	OwnerID   uuid.UUID
	// Search matches title or description, case insensitive.
	Search string
	// Public restricts the result to postings Visibility lists.
	Public     bool
	Visibility workflow.VisibilityRule
	Page
}

// Mutation is applied to a locked posting inside a transaction. It returns the
// moderation log entry to record, or nil when moderation did not change.
type Mutation func(p *model.Posting) (*model.ModerationLog, error)

// PostingStore reads and writes postings.
type PostingStore struct {
	DB *database.DBinstanceStruct
}

// NewPostingStore creates a PostingStore on db.
func NewPostingStore(db *database.DBinstanceStruct) *PostingStore {
	return &PostingStore{DB: db}
}

// Create inserts p. Status and moderation fall back to DRAFT and PENDING.
func (s *PostingStore) Create(ctx context.Context, p *model.Posting) error {
	if p.Status == "" {
		p.Status = workflow.StatusDraft
	}
	if p.ModerationStatus == "" {
		p.ModerationStatus = workflow.ModerationPending
	}
	return translate(s.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error, "posting")
}

// GetByID loads one posting.
func (s *PostingStore) GetByID(ctx context.Context, id uint) (model.Posting, error) {
	var p model.Posting
	err := s.DB.WithContext(ctx).First(&p, id).Error
	return p, translate(err, "posting")
}

// Mutate locks the posting row, applies fn and saves the result together with
// the moderation log entry fn returns. Nothing is written when fn fails.
func (s *PostingStore) Mutate(ctx context.Context, id uint, fn Mutation) (model.Posting, error) {
	var p model.Posting
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return err
		}

		entry, err := fn(&p)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&p).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		entry.PostingID = p.ID
		return tx.Create(entry).Error
	})
	return p, translate(err, "posting")
}

// Delete removes a posting with its applications and moderation history.
func (s *PostingStore) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("posting_id = ?", id).Delete(&model.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("posting_id = ?", id).Delete(&model.ModerationLog{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Posting{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "posting")
}

// Query returns one page of postings matching f, newest first, and the
// number of postings matching f overall.
func (s *PostingStore) Query(ctx context.Context, f PostingFilter) ([]model.Posting, int64, error) {
	f.Page = f.Page.Normalize()

	q := s.DB.WithContext(ctx).Model(&model.Posting{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Moderation != "" {
		q = q.Where("moderation_status = ?", f.Moderation)
	}
	if f.Submitted != nil {
		if *f.Submitted {
			q = q.Where("submitted_at IS NOT NULL")
		} else {
			q = q.Where("submitted_at IS NULL")
		}
	}
	if f.OwnerID != uuid.Nil {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", like, like)
	}
	if f.Public {
		q = q.Where(PublicCondition(s.DB.DB, f.Visibility))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "posting")
	}

	postings := []model.Posting{}
	err := q.Scopes(paginate(f.Page)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Find(&postings).Error
	if err != nil {
		return nil, 0, translate(err, "posting")
	}
	return postings, total, nil
}

// PublicCondition compiles the visibility rule into a where clause, one
// branch per posting kind.
func PublicCondition(db *gorm.DB, rule workflow.VisibilityRule) *gorm.DB {
	cond := db.Session(&gorm.Session{NewDB: true})
	for i, kind := range workflow.AllPostingKinds {
		req := rule.Requirement(kind)
		branch := db.Session(&gorm.Session{NewDB: true}).Where("kind = ? AND status = ?", kind, req.Status)
		if req.Moderation != "" {
			branch = branch.Where("moderation_status = ?", req.Moderation)
		}
		if i == 0 {
			cond = cond.Where(branch)
		} else {
			cond = cond.Or(branch)
		}
	}
	return cond
}

// History returns the moderation log of a posting, newest first.
func (s *PostingStore) History(ctx context.Context, id uint) ([]model.ModerationLog, error) {
	logs := []model.ModerationLog{}
	err := s.DB.WithContext(ctx).
		Where("posting_id = ?", id).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, translate(err, "moderation log")
}

// NewModerationLog builds the log entry for a moderation change.
func NewModerationLog(action workflow.ModerationAction, from, to workflow.ModerationStatus, actor uuid.UUID, reason string, at time.Time) *model.ModerationLog {
	return &model.ModerationLog{
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor,
		Reason:     reason,
		CreatedAt:  at,
	}
}
