package model

import (
	"encoding/json"
	"time"
)

type Answer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuestionID    uint      `gorm:"not null;index" json:"question_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	IsAIGenerated bool      `gorm:"not null;default:false" json:"is_ai_generated"`
	UpvotesJSON   string    `gorm:"column:upvotes;type:text" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a *Answer) Upvotes() []uint {
	return decodeUpvotes(a.UpvotesJSON)
}

// ToggleUpvote flips the user's membership in the upvote set and reports
// whether the user is a member afterwards.
func (a *Answer) ToggleUpvote(userID uint) bool {
	next, member := toggleMembership(decodeUpvotes(a.UpvotesJSON), userID)
	a.UpvotesJSON = encodeUpvotes(next)
	return member
}

func decodeUpvotes(raw string) []uint {
	if raw == "" {
		return []uint{}
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []uint{}
	}
	return ids
}

func encodeUpvotes(ids []uint) string {
	if ids == nil {
		ids = []uint{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

func toggleMembership(ids []uint, userID uint) ([]uint, bool) {
	next := make([]uint, 0, len(ids)+1)
	found := false
	for _, id := range ids {
		if id == userID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if found {
		return next, false
	}
	return append(next, userID), true
}
