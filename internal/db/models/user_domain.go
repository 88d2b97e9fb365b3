// Package models contains database model definitions.
package models

import "time"

// UserDomain records which authentication domain a locally created user
// originated from. Written on account auto-creation, deleted when the
// directory credential linkage is removed.
type UserDomain struct {
	// UserID is the ID of the user this record belongs to.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// Domain is the originating authentication domain.
	Domain string `gorm:"size:100;not null"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the record was written (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the UserDomain model.
func (UserDomain) TableName() string {
	return "user_domains"
}
