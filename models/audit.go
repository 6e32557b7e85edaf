package models

import "time"

// AuditLog is append-only: rows are written for every security-relevant
// action and never updated or deleted by the application. UserID is nulled
// by the database when the user is deleted.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Action    string    `gorm:"not null;index" json:"action"`
	Detail    string    `gorm:"not null;default:''" json:"detail"`
	IP        string    `gorm:"not null;default:''" json:"ip"`
	UA        string    `gorm:"not null;default:''" json:"ua"`
	CreatedAt time.Time `json:"created_at"`
}
