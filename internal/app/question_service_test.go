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

func newQuestionService(db *gorm.DB, llm TextCompleter) *QuestionService {
	return NewQuestionService(
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewUserRepository(db),
		llm,
		testLLMConfig(),
	)
}

func TestCreateQuestion_ElaboratedByModel(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	llm := &fakeLLM{replies: []string{
		"```json\n{\"title\":\"How do Go slices grow?\",\"tags\":[\"go\",\"slices\"],\"ai_answer\":\"Slices double below 1024 elements.\"}\n```",
	}}
	svc := newQuestionService(db, llm)

	detail, err := svc.CreateQuestion(context.Background(), user.ID, "why does append sometimes copy my slice??", "Go")

	require.NoError(t, err)
	assert.Equal(t, "How do Go slices grow?", detail.Title)
	assert.Equal(t, "go", detail.Topic)
	assert.Equal(t, []string{"go", "slices"}, detail.Tags)
	assert.Equal(t, "Ada", detail.AskerName)
	require.Len(t, detail.Answers, 1)
	assert.True(t, detail.Answers[0].IsAIGenerated)
	assert.Equal(t, "Slices double below 1024 elements.", detail.Answers[0].Text)
}

func TestCreateQuestion_ProviderFailureFallsBack(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	llm := &fakeLLM{errs: []error{ai.ErrRateLimited}}
	svc := newQuestionService(db, llm)

	long := strings.Repeat("why does my goroutine leak ", 5)
	detail, err := svc.CreateQuestion(context.Background(), user.ID, long, "Go")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(detail.Title, "..."))
	assert.Len(t, []rune(strings.TrimSuffix(detail.Title, "...")), fallbackTitleLen)
	assert.Equal(t, []string{"Go"}, detail.Tags)
	require.Len(t, detail.Answers, 1)
	assert.Equal(t, fallbackAIAnswer, detail.Answers[0].Text)
	assert.True(t, detail.Answers[0].IsAIGenerated)
}

func TestCreateQuestion_EmptyInputPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	llm := &fakeLLM{}
	svc := newQuestionService(db, llm)

	_, err := svc.CreateQuestion(context.Background(), user.ID, "   ", "Go")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateQuestion(context.Background(), user.ID, "real question", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, llm.calls)

	var questions, answers int64
	require.NoError(t, db.Model(&model.Question{}).Count(&questions).Error)
	require.NoError(t, db.Model(&model.Answer{}).Count(&answers).Error)
	assert.Zero(t, questions)
	assert.Zero(t, answers)
}

func TestAddAnswer_AppendsInOrder(t *testing.T) {
	db := newTestDB(t)
	asker := createTestUser(t, db, "Ada", "ada@example.com")
	helper := createTestUser(t, db, "Bob", "bob@example.com")
	llm := &fakeLLM{errs: []error{ai.ErrRateLimited}}
	svc := newQuestionService(db, llm)

	detail, err := svc.CreateQuestion(context.Background(), asker.ID, "how do channels work?", "Go")
	require.NoError(t, err)

	view, err := svc.AddAnswer(detail.ID, helper.ID, "Channels are typed conduits.")
	require.NoError(t, err)
	assert.Equal(t, "Bob", view.AuthorName)
	assert.False(t, view.IsAIGenerated)

	after, err := svc.GetQuestion(detail.ID)
	require.NoError(t, err)
	require.Len(t, after.Answers, 2)
	assert.True(t, after.Answers[0].IsAIGenerated)
	assert.Equal(t, "Channels are typed conduits.", after.Answers[1].Text)
}

func TestAddAnswer_QuestionMissing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	svc := newQuestionService(db, &fakeLLM{})

	_, err := svc.AddAnswer(12345, user.ID, "hello")

	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestUpvoteAnswer_DoubleToggleRestoresState(t *testing.T) {
	db := newTestDB(t)
	asker := createTestUser(t, db, "Ada", "ada@example.com")
	voter := createTestUser(t, db, "Bob", "bob@example.com")
	llm := &fakeLLM{errs: []error{ai.ErrRateLimited}}
	svc := newQuestionService(db, llm)

	detail, err := svc.CreateQuestion(context.Background(), asker.ID, "how do channels work?", "Go")
	require.NoError(t, err)
	answerID := detail.Answers[0].ID

	up, err := svc.UpvoteAnswer(answerID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, up.Upvotes)
	assert.Equal(t, []uint{voter.ID}, up.UpvotedBy)

	down, err := svc.UpvoteAnswer(answerID, voter.ID)
	require.NoError(t, err)
	assert.Zero(t, down.Upvotes)
	assert.Empty(t, down.UpvotedBy)
}

func TestUpvoteAnswer_AnswerMissing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	svc := newQuestionService(db, &fakeLLM{})

	_, err := svc.UpvoteAnswer(999, user.ID)

	assert.ErrorIs(t, err, ErrAnswerNotFound)
}

func TestListQuestions_NewestFirstWithCounts(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ada", "ada@example.com")
	llm := &fakeLLM{errs: []error{ai.ErrRateLimited, ai.ErrRateLimited}}
	svc := newQuestionService(db, llm)

	first, err := svc.CreateQuestion(context.Background(), user.ID, "first question", "Go")
	require.NoError(t, err)
	second, err := svc.CreateQuestion(context.Background(), user.ID, "second question", "SQL")
	require.NoError(t, err)
	_, err = svc.AddAnswer(second.ID, user.ID, "an extra answer")
	require.NoError(t, err)

	summaries, err := svc.ListQuestions()

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	byID := map[uint]QuestionSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, 1, byID[first.ID].AnswerCount)
	assert.Equal(t, 2, byID[second.ID].AnswerCount)
	assert.Equal(t, "Ada", byID[first.ID].AskerName)
}
