package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pathfinder/internal/ai"
	"pathfinder/internal/model"
	"pathfinder/internal/repository"
	"pathfinder/internal/search"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Roadmap{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Question{},
		&model.Answer{},
	)
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()

	user := &model.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeLLM scripts provider replies per call and records prompts so tests
// can assert which calls were made.
type fakeLLM struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	idx := f.calls
	f.calls++
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}

	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	if err != nil {
		return "", err
	}
	if idx < len(f.replies) {
		return f.replies[idx], nil
	}
	return "", nil
}

// syncPublisher persists directly instead of going through the broker,
// standing in for publisher plus worker.
type syncPublisher struct {
	repo *repository.ChatMessageRepository
}

func (p *syncPublisher) Publish(_ context.Context, msg model.ChatMessage) error {
	return p.repo.Create(&msg)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, model.ChatMessage) error {
	return context.DeadlineExceeded
}

type fakeSearcher struct {
	results []search.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func testLLMConfig() ai.ChatConfig {
	return ai.ChatConfig{BaseURL: "http://llm.test", APIKey: "k", Model: "m"}
}
