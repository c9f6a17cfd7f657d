package model

import (
	"encoding/json"
	"time"
)

// Plan is the AI-generated week-by-week learning structure. It is stored
// embedded in the roadmap row as a JSON text column.
type Plan struct {
	Title string `json:"title"`
	Weeks []Week `json:"weeks"`
}

type Week struct {
	Week     int      `json:"week"`
	Focus    string   `json:"focus"`
	Concepts []string `json:"concepts"`
}

type Roadmap struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Topic          string    `gorm:"size:128;not null" json:"topic"`
	PlanJSON       string    `gorm:"column:plan;type:text;not null" json:"-"`
	CompletedJSON  string    `gorm:"column:completed_concepts;type:text" json:"-"`
	CompletedCount int       `gorm:"not null;default:0" json:"completed_count"`
	IsPublic       bool      `gorm:"not null;default:false" json:"is_public"`
	ShareableID    *string   `gorm:"size:36;uniqueIndex" json:"shareable_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Plan returns the parsed week structure; zero value on parse error.
func (r *Roadmap) Plan() Plan {
	var p Plan
	if r.PlanJSON != "" {
		_ = json.Unmarshal([]byte(r.PlanJSON), &p)
	}
	return p
}

func (r *Roadmap) SetPlan(p Plan) {
	b, _ := json.Marshal(p)
	r.PlanJSON = string(b)
}

// CompletedConcepts returns the completed set in insertion order.
func (r *Roadmap) CompletedConcepts() []string {
	if r.CompletedJSON == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(r.CompletedJSON), &list); err != nil {
		return []string{}
	}
	return list
}

// SetCompleted idempotently adds or removes a concept from the completed
// set and keeps CompletedCount in sync for the leaderboard aggregation.
func (r *Roadmap) SetCompleted(concept string, completed bool) {
	current := r.CompletedConcepts()
	next := make([]string, 0, len(current)+1)
	found := false
	for _, c := range current {
		if c == concept {
			found = true
			if !completed {
				continue
			}
		}
		next = append(next, c)
	}
	if completed && !found {
		next = append(next, concept)
	}

	b, _ := json.Marshal(next)
	r.CompletedJSON = string(b)
	r.CompletedCount = len(next)
}
