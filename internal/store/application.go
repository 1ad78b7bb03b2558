package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// ApplicationStore reads and writes applications.
type ApplicationStore struct {
	DB *database.DBinstanceStruct
}

// NewApplicationStore creates an ApplicationStore on db.
func NewApplicationStore(db *database.DBinstanceStruct) *ApplicationStore {
	return &ApplicationStore{DB: db}
}

// Create inserts a PENDING application. A second application by the same
// candidate to the same posting fails with DuplicateApplication, even when
// both race.
func (s *ApplicationStore) Create(ctx context.Context, a *model.Application) error {
	a.Status = workflow.ApplicationPending
	a.DecidedBy = nil
	a.DecidedAt = nil
	return translate(s.DB.WithContext(ctx).Omit(clause.Associations).Create(a).Error, "application")
}

// GetByID loads one application.
func (s *ApplicationStore) GetByID(ctx context.Context, id uint) (model.Application, error) {
	var a model.Application
	err := s.DB.WithContext(ctx).First(&a, id).Error
	return a, translate(err, "application")
}

// Decide records decision on a PENDING application. The update is conditional
// on the stored status, so of two concurrent decisions only one wins and the
// other gets AlreadyDecided.
func (s *ApplicationStore) Decide(ctx context.Context, id uint, decision workflow.ApplicationStatus, by uuid.UUID, at time.Time) (model.Application, error) {
	var a model.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, id).Error; err != nil {
			return err
		}
		next, err := workflow.NextApplicationStatus(a.Status, decision)
		if err != nil {
			return err
		}

		res := tx.Model(&model.Application{}).
			Where("id = ? AND status = ?", id, workflow.ApplicationPending).
			Updates(map[string]interface{}{
				"status":     next,
				"decided_by": by,
				"decided_at": at,
				"updated_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return workflow.Errorf(workflow.CodeAlreadyDecided, "application was already decided")
		}

		a.Status = next
		a.DecidedBy = &by
		a.DecidedAt = &at
		a.UpdatedAt = at
		return nil
	})
	return a, translate(err, "application")
}

// ListForPosting returns one page of applications to a posting, newest first.
func (s *ApplicationStore) ListForPosting(ctx context.Context, postingID uint, page Page) ([]model.Application, int64, error) {
	return s.list(ctx, "posting_id = ?", postingID, page)
}

// ListForCandidate returns one page of a candidate's applications, newest first.
func (s *ApplicationStore) ListForCandidate(ctx context.Context, candidateID uuid.UUID, page Page) ([]model.Application, int64, error) {
	return s.list(ctx, "candidate_id = ?", candidateID, page)
}

func (s *ApplicationStore) list(ctx context.Context, cond string, arg interface{}, page Page) ([]model.Application, int64, error) {
	page = page.Normalize()
	q := s.DB.WithContext(ctx).Model(&model.Application{}).Where(cond, arg)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "application")
	}

	apps := []model.Application{}
	err := q.Scopes(paginate(page)).Order("created_at DESC, id DESC").Find(&apps).Error
	if err != nil {
		return nil, 0, translate(err, "application")
	}
	return apps, total, nil
}
