package models

import "github.com/lib/pq"

// User is the profile row consulted for sender display enrichment. Account
// management (registration, verification, photos) lives in a separate
// service; this core only reads nickname and avatar.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Nickname string `gorm:"type:text;not null" json:"nickname"`
	Avatar   string `gorm:"type:text" json:"avatar"`
	Gender   string `gorm:"type:text" json:"gender"`
	Age      int    `json:"age"`
	// Interests is stored as a native PostgreSQL text array.
	Interests pq.StringArray `gorm:"type:text[]" json:"interests"`
}
