package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pathfinder/internal/ai"
	"pathfinder/internal/model"
	"pathfinder/internal/repository"
)

var (
	ErrMessageEmpty   = errors.New("message content is empty")
	ErrMessageEnqueue = errors.New("message enqueue failed")
)

const (
	apologyRateLimited = "I'm currently overwhelmed with requests. Please wait a moment and ask again."
	apologyUnavailable = "My AI mentor service is currently unavailable. Please try again later."
	apologyGeneric     = "I apologize, but I'm having trouble connecting to my AI services right now."
)

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.ChatMessage) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID uint) ([]model.ChatMessage, bool, error)
	SetHistory(ctx context.Context, sessionID uint, messages []model.ChatMessage) error
	DeleteHistory(ctx context.Context, sessionID uint) error
	MarkDirty(ctx context.Context, sessionID uint) error
	IsDirty(ctx context.Context, sessionID uint) (bool, error)
}

type ChatService struct {
	roadmapRepo  *repository.RoadmapRepository
	sessionRepo  *repository.ChatSessionRepository
	messageRepo  *repository.ChatMessageRepository
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	llm          TextCompleter
	llmCfg       ai.ChatConfig
	maxContext   int
}

func NewChatService(
	roadmapRepo *repository.RoadmapRepository,
	sessionRepo *repository.ChatSessionRepository,
	messageRepo *repository.ChatMessageRepository,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	llm TextCompleter,
	llmCfg ai.ChatConfig,
	maxContext int,
) *ChatService {
	if maxContext <= 0 {
		maxContext = 20
	}
	return &ChatService{
		roadmapRepo:  roadmapRepo,
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		publisher:    publisher,
		historyCache: historyCache,
		llm:          llm,
		llmCfg:       llmCfg,
		maxContext:   maxContext,
	}
}

// PostMessage appends the user's question to the roadmap's chat session,
// asks the mentor model for the next step, and returns only the AI reply.
// Provider failures degrade to a static apology, never a failed request.
func (s *ChatService) PostMessage(ctx context.Context, roadmapID, userID uint, question string) (*model.ChatMessage, error) {
	if roadmapID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrMessageEmpty
	}
	if s.publisher == nil {
		return nil, ErrMessageEnqueue
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

	session, err := s.findOrCreateSession(roadmapID, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.ListRecentBySessionID(session.ID, s.maxContext)
	if err != nil {
		return nil, err
	}

	userMessage := model.ChatMessage{
		SessionID: session.ID,
		UserID:    userID,
		Sender:    model.SenderUser,
		Text:      question,
		CreatedAt: time.Now(),
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, session.ID)
		_ = s.historyCache.DeleteHistory(ctx, session.ID)
	}
	if err := s.publisher.Publish(ctx, userMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	reply := s.mentorReply(ctx, roadmap, history, question)

	aiMessage := model.ChatMessage{
		SessionID: session.ID,
		UserID:    userID,
		Sender:    model.SenderAI,
		Text:      reply,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, aiMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	return &aiMessage, nil
}

// GetHistory returns the session's messages for the owning user, oldest
// first. An owner who never chatted gets an empty history, not an error.
func (s *ChatService) GetHistory(ctx context.Context, roadmapID, userID uint) ([]model.ChatMessage, error) {
	if roadmapID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByRoadmapAndUser(roadmapID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return []model.ChatMessage{}, nil
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, session.ID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, session.ID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListBySessionID(session.ID, 0)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, session.ID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, session.ID, messages)
		}
	}
	return messages, nil
}

func (s *ChatService) findOrCreateSession(roadmapID, userID uint) (*model.ChatSession, error) {
	session, err := s.sessionRepo.GetByRoadmapAndUser(roadmapID, userID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &model.ChatSession{
		UserID:    userID,
		RoadmapID: roadmapID,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) mentorReply(ctx context.Context, roadmap *model.Roadmap, history []model.ChatMessage, question string) string {
	prompt := mentorPrompt(roadmap, history, question)

	reply, err := s.llm.Complete(ctx, s.llmCfg, singleUserPrompt(prompt))
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrRateLimited):
			return apologyRateLimited
		case errors.Is(err, ai.ErrModelNotFound):
			return apologyUnavailable
		default:
			return apologyGeneric
		}
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return apologyGeneric
	}
	return reply
}

func mentorPrompt(roadmap *model.Roadmap, history []model.ChatMessage, question string) string {
	plan := roadmap.Plan()

	var b strings.Builder
	b.WriteString("You are \"PathFinder,\" an intelligent AI learning mentor.\n\nCONTEXT:\n")
	fmt.Fprintf(&b, "- User's Roadmap Topic: %q\n", plan.Title)
	b.WriteString("- Full Learning Plan:\n")
	for _, week := range plan.Weeks {
		fmt.Fprintf(&b, "  Week %d (%s): %s\n", week.Week, week.Focus, strings.Join(week.Concepts, ", "))
	}
	fmt.Fprintf(&b, "- Completed Concepts: %s\n", strings.Join(roadmap.CompletedConcepts(), ", "))
	b.WriteString("- Recent Conversation:\n")
	for _, msg := range history {
		fmt.Fprintf(&b, "  [%s] %s\n", msg.Sender, msg.Text)
	}
	fmt.Fprintf(&b, "- User's Latest Question: %q\n", question)
	b.WriteString(`
YOUR ROLE:
Deliver the next logical, focused step.

GUIDELINES:
1. One step at a time.
2. Real-world focus.
3. Format with Markdown (Step 1: ..., **bold**, etc).
4. Be concise.
5. End with engagement.
6. Stay relevant to the roadmap.`)
	return b.String()
}
