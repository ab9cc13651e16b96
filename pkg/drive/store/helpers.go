package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Generic GORM Helpers
//
// These helpers reduce repetitive CRUD boilerplate across store implementation
// files. They are unexported (package-internal) and operate on the raw *gorm.DB
// to avoid coupling to GORMStore. Each helper handles standard concerns like
// context propagation, not-found error conversion, and unique constraint
// detection.

// createWithID generates a UUID for the entity if it has no ID, then creates
// it in the database. The idSetter callback sets the generated ID on the
// entity. Unique constraint violations are converted to dupErr.
//
// Example:
//
//	id, err := createWithID(db, ctx, node, func(n *models.Node, id string) { n.ID = id }, node.ID, fault.Conflict("path already exists", node.Path))
func createWithID[T any](db *gorm.DB, ctx context.Context, entity *T, idSetter func(*T, string), currentID string, dupErr error) (string, error) {
	id := currentID
	if id == "" {
		id = uuid.New().String()
		idSetter(entity, id)
	}
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", dupErr
		}
		return "", classifyError(err)
	}
	return id, nil
}

// pageQuery runs a filtered count plus a limited find, returning one page of
// results. The build callback applies the same filters to both queries.
//
// Example:
//
//	page, err := pageQuery[models.Node](db, ctx, page, "name ASC", func(q *gorm.DB) *gorm.DB {
//		return q.Where("owner_id = ? AND is_deleted = ?", ownerID, false)
//	})
func pageQuery[T any](db *gorm.DB, ctx context.Context, page models.Page, order string, build func(*gorm.DB) *gorm.DB) (*models.PageResult[T], error) {
	var total int64
	if err := build(db.WithContext(ctx).Model(new(T))).Count(&total).Error; err != nil {
		return nil, classifyError(err)
	}

	var items []T
	q := build(db.WithContext(ctx).Model(new(T))).
		Order(order).
		Limit(page.Limit()).
		Offset(page.Offset())
	if err := q.Find(&items).Error; err != nil {
		return nil, classifyError(err)
	}

	return models.NewPageResult(items, total, page), nil
}

// likePattern builds a contains-style LIKE pattern from a raw term,
// escaping the LIKE metacharacters so user input matches literally.
// Queries using it must carry ESCAPE '\'.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + strings.ToLower(escaped) + "%"
}
