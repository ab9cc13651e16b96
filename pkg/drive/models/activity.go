package models

import "time"

// Action identifies the kind of mutation recorded in the activity log.
type Action string

const (
	ActionCreateFolder Action = "create_folder"
	ActionUploadFile   Action = "upload_file"
	ActionTrash        Action = "trash"
	ActionRestore      Action = "restore"
	ActionPurge        Action = "purge"
	ActionRename       Action = "rename"
	ActionMove         Action = "move"
	ActionGrant        Action = "grant"
	ActionRevoke       Action = "revoke"
	ActionShare        Action = "share"
)

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// ActivityEntry is one row of the append-only activity log. Entries record
// successful mutations per principal; they are informational and never
// consulted for authorization.
type ActivityEntry struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	PrincipalID string    `gorm:"not null;size:36;index" json:"principal_id"`
	Action      string    `gorm:"not null;size:32" json:"action"`
	NodeID      string    `gorm:"size:36" json:"node_id,omitempty"`
	Path        string    `gorm:"size:4096" json:"path,omitempty"`
	Detail      string    `gorm:"size:1024" json:"detail,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName returns the table name for ActivityEntry.
func (ActivityEntry) TableName() string {
	return "activity_entries"
}
