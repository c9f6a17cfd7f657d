package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pathfinder/internal/ai"
	"pathfinder/internal/model"
	"pathfinder/internal/pkg/jsonextract"
	"pathfinder/internal/repository"
)

const (
	minWeeks = 1
	maxWeeks = 52

	leaderboardSize = 10
)

var (
	ErrInvalidTopic    = errors.New("topic is not suitable for a learning roadmap")
	ErrRoadmapNotFound = errors.New("roadmap not found")
	ErrNotOwner        = errors.New("not the roadmap owner")
)

// LeaderboardCacher shields the leaderboard aggregation behind a TTL cache.
type LeaderboardCacher interface {
	Get(ctx context.Context) ([]repository.LeaderboardEntry, bool, error)
	Set(ctx context.Context, entries []repository.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

type RoadmapService struct {
	roadmapRepo *repository.RoadmapRepository
	sessionRepo *repository.ChatSessionRepository
	messageRepo *repository.ChatMessageRepository
	lbCache     LeaderboardCacher
	llm         TextCompleter
	llmCfg      ai.ChatConfig
}

type RoadmapView struct {
	ID                uint       `json:"id"`
	Topic             string     `json:"topic"`
	Roadmap           model.Plan `json:"roadmap"`
	CompletedConcepts []string   `json:"completed_concepts"`
	IsPublic          bool       `json:"is_public"`
	ShareableID       string     `json:"shareable_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SharedRoadmapView is the public projection. Owner identity, progress and
// chat history stay out of it.
type SharedRoadmapView struct {
	Topic     string     `json:"topic"`
	Roadmap   model.Plan `json:"roadmap"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewRoadmapService(
	roadmapRepo *repository.RoadmapRepository,
	sessionRepo *repository.ChatSessionRepository,
	messageRepo *repository.ChatMessageRepository,
	lbCache LeaderboardCacher,
	llm TextCompleter,
	llmCfg ai.ChatConfig,
) *RoadmapService {
	return &RoadmapService{
		roadmapRepo: roadmapRepo,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		lbCache:     lbCache,
		llm:         llm,
		llmCfg:      llmCfg,
	}
}

func (s *RoadmapService) CreateRoadmap(ctx context.Context, userID uint, topic string, weeks int) (*RoadmapView, error) {
	topic = strings.TrimSpace(topic)
	if userID == 0 || topic == "" || weeks < minWeeks || weeks > maxWeeks {
		return nil, ErrInvalidInput
	}

	if !s.classifyTopic(ctx, topic) {
		return nil, ErrInvalidTopic
	}

	plan, err := s.generatePlan(ctx, topic, weeks)
	if err != nil {
		return nil, err
	}

	roadmap := &model.Roadmap{
		UserID:        userID,
		Topic:         topic,
		CompletedJSON: "[]",
	}
	roadmap.SetPlan(plan)
	if err := s.roadmapRepo.Create(roadmap); err != nil {
		return nil, err
	}
	return roadmapView(roadmap), nil
}

func (s *RoadmapService) ListRoadmaps(userID uint) ([]RoadmapView, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	roadmaps, err := s.roadmapRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	views := make([]RoadmapView, 0, len(roadmaps))
	for i := range roadmaps {
		views = append(views, *roadmapView(&roadmaps[i]))
	}
	return views, nil
}

// DeleteRoadmap removes the roadmap together with its chat sessions and
// messages, and drops the cached leaderboard since the owner's score
// changes.
func (s *RoadmapService) DeleteRoadmap(ctx context.Context, roadmapID, userID uint) error {
	roadmap, err := s.ownedRoadmap(roadmapID, userID)
	if err != nil {
		return err
	}

	sessionIDs, err := s.sessionRepo.ListIDsByRoadmapID(roadmap.ID)
	if err != nil {
		return err
	}
	if err := s.messageRepo.DeleteBySessionIDs(sessionIDs); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByRoadmapID(roadmap.ID); err != nil {
		return err
	}
	if err := s.roadmapRepo.DeleteByID(roadmap.ID); err != nil {
		return err
	}

	if s.lbCache != nil {
		_ = s.lbCache.Invalidate(ctx)
	}
	return nil
}

func (s *RoadmapService) UpdateProgress(ctx context.Context, roadmapID, userID uint, concept string, completed bool) (*RoadmapView, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil, ErrInvalidInput
	}

	roadmap, err := s.ownedRoadmap(roadmapID, userID)
	if err != nil {
		return nil, err
	}

	roadmap.SetCompleted(concept, completed)
	if err := s.roadmapRepo.Save(roadmap); err != nil {
		return nil, err
	}

	if s.lbCache != nil {
		_ = s.lbCache.Invalidate(ctx)
	}
	return roadmapView(roadmap), nil
}

// CreateShareableLink is idempotent: a roadmap that is already public with
// an assigned id returns that id unchanged.
func (s *RoadmapService) CreateShareableLink(roadmapID, userID uint) (string, error) {
	roadmap, err := s.ownedRoadmap(roadmapID, userID)
	if err != nil {
		return "", err
	}

	if roadmap.IsPublic && roadmap.ShareableID != nil {
		return *roadmap.ShareableID, nil
	}

	shareableID := uuid.NewString()
	roadmap.ShareableID = &shareableID
	roadmap.IsPublic = true
	if err := s.roadmapRepo.Save(roadmap); err != nil {
		return "", err
	}
	return shareableID, nil
}

func (s *RoadmapService) GetSharedRoadmap(shareableID string) (*SharedRoadmapView, error) {
	shareableID = strings.TrimSpace(shareableID)
	if shareableID == "" {
		return nil, ErrRoadmapNotFound
	}

	roadmap, err := s.roadmapRepo.GetShared(shareableID)
	if err != nil {
		return nil, err
	}
	if roadmap == nil {
		return nil, ErrRoadmapNotFound
	}

	return &SharedRoadmapView{
		Topic:     roadmap.Topic,
		Roadmap:   roadmap.Plan(),
		CreatedAt: roadmap.CreatedAt,
	}, nil
}

func (s *RoadmapService) Leaderboard(ctx context.Context) ([]repository.LeaderboardEntry, error) {
	if s.lbCache != nil {
		if cached, hit, err := s.lbCache.Get(ctx); err == nil && hit {
			return cached, nil
		}
	}

	entries, err := s.roadmapRepo.LeaderboardTop(leaderboardSize)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []repository.LeaderboardEntry{}
	}

	if s.lbCache != nil {
		_ = s.lbCache.Set(ctx, entries)
	}
	return entries, nil
}

func (s *RoadmapService) ownedRoadmap(roadmapID, userID uint) (*model.Roadmap, error) {
	if roadmapID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}

	roadmap, err := s.roadmapRepo.GetByID(roadmapID)
	if err != nil {
		return nil, err
	}
	if roadmap == nil {
		return nil, ErrRoadmapNotFound
	}
	if roadmap.UserID != userID {
		return nil, ErrNotOwner
	}
	return roadmap, nil
}

// classifyTopic gates generation behind a yes/no prompt. A provider failure
// lets the topic through; generation has its own fallbacks and a flaky
// provider should not block users.
func (s *RoadmapService) classifyTopic(ctx context.Context, topic string) bool {
	prompt := fmt.Sprintf(
		"Is '%s' a technical skill, scientific concept, or otherwise learnable subject "+
			"suitable for a structured week-by-week study plan? Answer with exactly YES or NO.",
		topic,
	)

	reply, err := s.llm.Complete(ctx, s.llmCfg, singleUserPrompt(prompt))
	if err != nil {
		return true
	}
	return !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(reply)), "NO")
}

func (s *RoadmapService) generatePlan(ctx context.Context, topic string, weeks int) (model.Plan, error) {
	prompt := planPrompt(topic, weeks)

	reply, err := s.llm.Complete(ctx, s.llmCfg, singleUserPrompt(prompt))
	if err != nil {
		// Quota and availability failures degrade to a deterministic mock
		// plan so the user flow never dead-ends on provider flakiness.
		if errors.Is(err, ai.ErrRateLimited) || errors.Is(err, ai.ErrModelNotFound) {
			return mockPlan(topic, weeks), nil
		}
		return model.Plan{}, fmt.Errorf("generate roadmap content failed: %w", err)
	}

	var payload struct {
		Roadmap model.Plan `json:"roadmap"`
	}
	if err := jsonextract.Extract(reply, &payload); err != nil || len(payload.Roadmap.Weeks) == 0 {
		return mockPlan(topic, weeks), nil
	}
	return payload.Roadmap, nil
}

func planPrompt(topic string, weeks int) string {
	return fmt.Sprintf(`Act as an expert curriculum designer. Create a detailed %d-week learning roadmap for a beginner on the topic of '%s'.

Structure the output as a JSON object with this EXACT schema:
{
  "roadmap": {
    "title": "Start Your Journey in %s",
    "weeks": [
      {
        "week": 1,
        "focus": "Fundamental Concepts & Setup",
        "concepts": ["Specific Concept 1", "Specific Concept 2", "Hands-on Practice Task"]
      }
    ]
  }
}

Requirements:
1. The "weeks" array MUST have exactly %d items.
2. "focus" is a short, action-oriented theme for the week.
3. "concepts" are specific, granular topics, not generic headers.
4. Difficulty progresses naturally from basic to intermediate.
Return only the JSON object.`, weeks, topic, topic, weeks)
}

func mockPlan(topic string, weeks int) model.Plan {
	plan := model.Plan{
		Title: fmt.Sprintf("[MOCK] Learning Path: %s", topic),
		Weeks: make([]model.Week, 0, weeks),
	}
	for i := 1; i <= weeks; i++ {
		plan.Weeks = append(plan.Weeks, model.Week{
			Week:  i,
			Focus: fmt.Sprintf("Core Concepts of %s (Week %d)", topic, i),
			Concepts: []string{
				fmt.Sprintf("Introduction to %s Part %d", topic, i),
				"Key Principles and Syntax",
				"Practical Exercises and Documentation",
			},
		})
	}
	return plan
}

func roadmapView(roadmap *model.Roadmap) *RoadmapView {
	view := &RoadmapView{
		ID:                roadmap.ID,
		Topic:             roadmap.Topic,
		Roadmap:           roadmap.Plan(),
		CompletedConcepts: roadmap.CompletedConcepts(),
		IsPublic:          roadmap.IsPublic,
		CreatedAt:         roadmap.CreatedAt,
	}
	if roadmap.ShareableID != nil {
		view.ShareableID = *roadmap.ShareableID
	}
	return view
}
