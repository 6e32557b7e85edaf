package models

import "time"

// Image is strictly owned by one user; every lookup must filter on UserID.
// StoredName and WatermarkedName are server-generated random filenames in
// the upload and watermarked directories.
type Image struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OriginalName    string    `gorm:"not null" json:"original_name"`
	StoredName      string    `gorm:"not null" json:"-"`
	WatermarkedName string    `gorm:"not null" json:"-"`
	WatermarkText   string    `gorm:"not null;default:''" json:"watermark_text"`
	CreatedAt       time.Time `json:"created_at"`
}
