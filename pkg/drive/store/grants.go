package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Grants

// UpsertGrant writes a grant, updating the role in place when the
// (node, grantee) pair already exists. ON CONFLICT targets the unique index
// on (node_id, grantee_id), which both SQLite and PostgreSQL support.
func (s *GORMStore) UpsertGrant(ctx context.Context, grant *models.Grant) error {
	if grant.ID == "" {
		grant.ID = uuid.New().String()
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "node_id"}, {Name: "grantee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(grant).Error
	return classifyError(err)
}

// GetGrant returns the grant for (nodeID, granteeID). No grant is not an
// error: callers treat a nil grant as "no access beyond ownership".
func (s *GORMStore) GetGrant(ctx context.Context, nodeID, granteeID string) (*models.Grant, error) {
	var grant models.Grant
	if err := s.db.WithContext(ctx).
		Where("node_id = ? AND grantee_id = ?", nodeID, granteeID).
		First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError(err)
	}
	return &grant, nil
}

// ListGrantsByNode returns all grants on a node, oldest first.
func (s *GORMStore) ListGrantsByNode(ctx context.Context, nodeID string) ([]*models.Grant, error) {
	var grants []*models.Grant
	if err := s.db.WithContext(ctx).
		Where("node_id = ?", nodeID).
		Order("created_at ASC").
		Find(&grants).Error; err != nil {
		return nil, classifyError(err)
	}
	return grants, nil
}

// DeleteGrant removes the grant for (nodeID, granteeID).
func (s *GORMStore) DeleteGrant(ctx context.Context, nodeID, granteeID string) error {
	result := s.db.WithContext(ctx).
		Where("node_id = ? AND grantee_id = ?", nodeID, granteeID).
		Delete(&models.Grant{})
	if result.Error != nil {
		return classifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fault.NotFound("grant", granteeID)
	}
	return nil
}
