package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pathfinder/internal/ai"
	"pathfinder/internal/model"
	"pathfinder/internal/repository"
)

func newChatService(db *gorm.DB, llm TextCompleter) *ChatService {
	messageRepo := repository.NewChatMessageRepository(db)
	return NewChatService(
		repository.NewRoadmapRepository(db),
		repository.NewChatSessionRepository(db),
		messageRepo,
		&syncPublisher{repo: messageRepo},
		nil,
		llm,
		testLLMConfig(),
		20,
	)
}

func seedOwnedRoadmap(t *testing.T, db *gorm.DB, userID uint) *model.Roadmap {
	t.Helper()

	roadmap := &model.Roadmap{UserID: userID, Topic: "Go", CompletedJSON: `["Variables"]`}
	roadmap.SetPlan(model.Plan{
		Title: "Start Your Journey in Go",
		Weeks: []model.Week{{Week: 1, Focus: "Basics", Concepts: []string{"Variables", "Loops"}}},
	})
	require.NoError(t, db.Create(roadmap).Error)
	return roadmap
}

func TestPostMessage_ReturnsAIReplyAndPersistsBoth(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	roadmap := seedOwnedRoadmap(t, db, user.ID)
	llm := &fakeLLM{replies: []string{"Step 1: review **Loops**."}}
	svc := newChatService(db, llm)

	aiMsg, err := svc.PostMessage(context.Background(), roadmap.ID, user.ID, "What should I do next?")

	require.NoError(t, err)
	assert.Equal(t, model.SenderAI, aiMsg.Sender)
	assert.Equal(t, "Step 1: review **Loops**.", aiMsg.Text)

	history, err := svc.GetHistory(context.Background(), roadmap.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.SenderUser, history[0].Sender)
	assert.Equal(t, "What should I do next?", history[0].Text)
	assert.Equal(t, model.SenderAI, history[1].Sender)
}

func TestPostMessage_PromptEmbedsRoadmapContext(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	roadmap := seedOwnedRoadmap(t, db, user.ID)
	llm := &fakeLLM{replies: []string{"ok"}}
	svc := newChatService(db, llm)

	_, err := svc.PostMessage(context.Background(), roadmap.ID, user.ID, "help me")

	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "Start Your Journey in Go")
	assert.Contains(t, prompt, "Variables, Loops")
	assert.Contains(t, prompt, "Completed Concepts: Variables")
	assert.Contains(t, prompt, `"help me"`)
}

func TestPostMessage_ProviderFailureDegradesToApology(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	roadmap := seedOwnedRoadmap(t, db, user.ID)

	cases := []struct {
		name    string
		err     error
		apology string
	}{
		{"rate limited", ai.ErrRateLimited, apologyRateLimited},
		{"model missing", ai.ErrModelNotFound, apologyUnavailable},
		{"other", context.DeadlineExceeded, apologyGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newChatService(db, &fakeLLM{errs: []error{tc.err}})

			aiMsg, err := svc.PostMessage(context.Background(), roadmap.ID, user.ID, "hello?")

			require.NoError(t, err)
			assert.Equal(t, tc.apology, aiMsg.Text)
		})
	}
}

func TestPostMessage_OwnershipChecks(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "Ada", "ada@example.com")
	other := createTestUser(t, db, "Bob", "bob@example.com")
	roadmap := seedOwnedRoadmap(t, db, owner.ID)
	svc := newChatService(db, &fakeLLM{})

	_, err := svc.PostMessage(context.Background(), roadmap.ID, other.ID, "hi")
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.PostMessage(context.Background(), roadmap.ID+999, owner.ID, "hi")
	assert.ErrorIs(t, err, ErrRoadmapNotFound)

	_, err = svc.PostMessage(context.Background(), roadmap.ID, owner.ID, "   ")
	assert.ErrorIs(t, err, ErrMessageEmpty)
}

func TestPostMessage_ReusesSessionAcrossMessages(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	roadmap := seedOwnedRoadmap(t, db, user.ID)
	llm := &fakeLLM{replies: []string{"first", "second"}}
	svc := newChatService(db, llm)

	_, err := svc.PostMessage(context.Background(), roadmap.ID, user.ID, "one")
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), roadmap.ID, user.ID, "two")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.ChatSession{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	history, err := svc.GetHistory(context.Background(), roadmap.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)

	// The second prompt carries the first exchange as context.
	require.Len(t, llm.prompts, 2)
	assert.True(t, strings.Contains(llm.prompts[1], "[user] one"))
	assert.True(t, strings.Contains(llm.prompts[1], "[ai] first"))
}

func TestPostMessage_EnqueueFailure(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	roadmap := seedOwnedRoadmap(t, db, user.ID)
	svc := NewChatService(
		repository.NewRoadmapRepository(db),
		repository.NewChatSessionRepository(db),
		repository.NewChatMessageRepository(db),
		failingPublisher{},
		nil,
		&fakeLLM{},
		testLLMConfig(),
		20,
	)

	_, err := svc.PostMessage(context.Background(), roadmap.ID, user.ID, "hi")

	assert.ErrorIs(t, err, ErrMessageEnqueue)
}

func TestGetHistory_ReturnsFullLongSession(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	roadmap := seedOwnedRoadmap(t, db, user.ID)
	svc := newChatService(db, &fakeLLM{})

	session := &model.ChatSession{UserID: user.ID, RoadmapID: roadmap.ID}
	require.NoError(t, db.Create(session).Error)

	const total = 250
	for i := 0; i < total; i++ {
		sender := model.SenderUser
		if i%2 == 1 {
			sender = model.SenderAI
		}
		msg := &model.ChatMessage{
			SessionID: session.ID,
			UserID:    user.ID,
			Sender:    sender,
			Text:      "m",
		}
		require.NoError(t, db.Create(msg).Error)
	}

	history, err := svc.GetHistory(context.Background(), roadmap.ID, user.ID)

	require.NoError(t, err)
	assert.Len(t, history, total)
}

func TestGetHistory_NoSessionIsEmpty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	roadmap := seedOwnedRoadmap(t, db, user.ID)
	svc := newChatService(db, &fakeLLM{})

	history, err := svc.GetHistory(context.Background(), roadmap.ID, user.ID)

	require.NoError(t, err)
	assert.Empty(t, history)
}
