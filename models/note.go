package models

// Note is the fixture table queried by the SQL injection lab. It carries no
// ownership or validation on purpose.
type Note struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`
}
