package models

import "time"

// UserGroup is one local group membership. Group membership for
// directory users is reconciled against the directory on every login;
// memberships in unmapped groups are never touched by reconciliation.
type UserGroup struct {
	// UserID is the ID of the user in this membership.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// Name is the local group name.
	Name string `gorm:"primaryKey;size:100"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user was added to the group (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the UserGroup model.
func (UserGroup) TableName() string {
	return "user_groups"
}
