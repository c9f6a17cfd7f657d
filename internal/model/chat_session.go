package model

import "time"

// ChatSession is the mentor conversation for one (roadmap, user) pair.
// It is created lazily on the first message.
type ChatSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_session_owner" json:"user_id"`
	RoadmapID uint      `gorm:"not null;uniqueIndex:idx_session_owner" json:"roadmap_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
