package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Activity log

// RecordActivity appends an activity entry. The ID is generated if empty.
func (s *GORMStore) RecordActivity(ctx context.Context, entry *models.ActivityEntry) (string, error) {
	return createWithID(s.db, ctx, entry,
		func(e *models.ActivityEntry, id string) { e.ID = id },
		entry.ID,
		fault.Conflict("activity entry already exists", entry.ID))
}

// ListActivity returns one page of a principal's activity, most recent
// first.
func (s *GORMStore) ListActivity(ctx context.Context, principalID string, page models.Page) (*models.PageResult[models.ActivityEntry], error) {
	return pageQuery[models.ActivityEntry](s.db, ctx, page, "created_at DESC", func(q *gorm.DB) *gorm.DB {
		return q.Where("principal_id = ?", principalID)
	})
}
