package model

import "time"

// AccountModel mirrors the 'users' table. PostgreSQL assigns IDs from a BIGSERIAL sequence.
// The unique indexes on username and email are what settle concurrent registrations.
type AccountModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex:users_username_key"`
	Email        string    `gorm:"type:varchar(100);not null;uniqueIndex:users_email_key"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "users"
}
