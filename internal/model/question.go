package model

import (
	"encoding/json"
	"time"
)

type Question struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	Topic            string    `gorm:"size:64;not null;index" json:"topic"`
	OriginalQuestion string    `gorm:"type:text;not null" json:"original_question"`
	Title            string    `gorm:"size:256;not null" json:"title"`
	TagsJSON         string    `gorm:"column:tags;type:text" json:"-"`
	UpvotesJSON      string    `gorm:"column:upvotes;type:text" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (q *Question) Tags() []string {
	if q.TagsJSON == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(q.TagsJSON), &tags); err != nil {
		return []string{}
	}
	return tags
}

func (q *Question) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	q.TagsJSON = string(b)
}
