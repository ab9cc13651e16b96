// Package models provides shared domain types for the DittoDrive metadata
// layer.
//
// This package contains all data models used across the drive: nodes,
// permission grants and the activity log. It provides a single source of
// truth for domain types with GORM annotations for database persistence.
package models

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&Node{},
		&Grant{},
		&ActivityEntry{},
	}
}
