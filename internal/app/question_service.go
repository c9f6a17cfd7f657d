package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pathfinder/internal/ai"
	"pathfinder/internal/model"
	"pathfinder/internal/pkg/jsonextract"
	"pathfinder/internal/repository"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
)

const (
	fallbackTitleLen = 50
	fallbackAIAnswer = "I am unable to generate a detailed answer right now, but I can help you find resources."
	unknownAskerName = "Unknown"
)

type QuestionService struct {
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	userRepo     *repository.UserRepository
	llm          TextCompleter
	llmCfg       ai.ChatConfig
}

type QuestionSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Topic       string    `json:"topic"`
	Tags        []string  `json:"tags"`
	AskerName   string    `json:"asker_name"`
	AnswerCount int       `json:"answer_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type AnswerView struct {
	ID            uint      `json:"id"`
	Text          string    `json:"text"`
	AuthorName    string    `json:"author_name"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	Upvotes       int       `json:"upvotes"`
	UpvotedBy     []uint    `json:"upvoted_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuestionDetail struct {
	ID               uint         `json:"id"`
	Title            string       `json:"title"`
	Topic            string       `json:"topic"`
	OriginalQuestion string       `json:"original_question"`
	Tags             []string     `json:"tags"`
	AskerName        string       `json:"asker_name"`
	Answers          []AnswerView `json:"answers"`
	CreatedAt        time.Time    `json:"created_at"`
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	userRepo *repository.UserRepository,
	llm TextCompleter,
	llmCfg ai.ChatConfig,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		llm:          llm,
		llmCfg:       llmCfg,
	}
}

// CreateQuestion elaborates the raw question through the model into a clean
// title, tags and a seed AI answer, then persists question and answer in
// one transaction. Elaboration failures fall back deterministically.
func (s *QuestionService) CreateQuestion(ctx context.Context, userID uint, originalQuestion, topic string) (*QuestionDetail, error) {
	originalQuestion = strings.TrimSpace(originalQuestion)
	topic = strings.TrimSpace(topic)
	if userID == 0 || originalQuestion == "" || topic == "" {
		return nil, ErrInvalidInput
	}

	title, tags, aiAnswer := s.elaborate(ctx, originalQuestion, topic)

	question := &model.Question{
		UserID:           userID,
		Topic:            strings.ToLower(topic),
		OriginalQuestion: originalQuestion,
		Title:            title,
		UpvotesJSON:      "[]",
	}
	question.SetTags(tags)

	answer := &model.Answer{
		UserID:        userID,
		Text:          aiAnswer,
		IsAIGenerated: true,
		UpvotesJSON:   "[]",
	}

	if err := s.questionRepo.CreateWithAnswer(question, answer); err != nil {
		return nil, err
	}
	return s.detail(question)
}

func (s *QuestionService) ListQuestions() ([]QuestionSummary, error) {
	questions, err := s.questionRepo.List()
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(questions))
	questionIDs := make([]uint, 0, len(questions))
	for i := range questions {
		userIDs = append(userIDs, questions[i].UserID)
		questionIDs = append(questionIDs, questions[i].ID)
	}

	names, err := s.userNames(userIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.answerRepo.CountByQuestionIDs(questionIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]QuestionSummary, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		summaries = append(summaries, QuestionSummary{
			ID:          q.ID,
			Title:       q.Title,
			Topic:       q.Topic,
			Tags:        q.Tags(),
			AskerName:   names[q.UserID],
			AnswerCount: counts[q.ID],
			CreatedAt:   q.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *QuestionService) GetQuestion(questionID uint) (*QuestionDetail, error) {
	if questionID == 0 {
		return nil, ErrInvalidInput
	}

	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return s.detail(question)
}

// AddAnswer appends a human answer. Any authenticated user may answer.
func (s *QuestionService) AddAnswer(questionID, userID uint, text string) (*AnswerView, error) {
	text = strings.TrimSpace(text)
	if questionID == 0 || userID == 0 || text == "" {
		return nil, ErrInvalidInput
	}

	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	answer := &model.Answer{
		QuestionID:  questionID,
		UserID:      userID,
		Text:        text,
		UpvotesJSON: "[]",
	}
	if err := s.answerRepo.Create(answer); err != nil {
		return nil, err
	}
	return s.answerView(answer)
}

// UpvoteAnswer toggles the requesting user's membership in the answer's
// upvote set: present removes, absent adds.
func (s *QuestionService) UpvoteAnswer(answerID, userID uint) (*AnswerView, error) {
	if answerID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}

	answer, err := s.answerRepo.GetByID(answerID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}

	answer.ToggleUpvote(userID)
	if err := s.answerRepo.Save(answer); err != nil {
		return nil, err
	}
	return s.answerView(answer)
}

func (s *QuestionService) elaborate(ctx context.Context, originalQuestion, topic string) (title string, tags []string, aiAnswer string) {
	prompt := fmt.Sprintf(`You are an expert technical editor. A user has submitted the following question about %q:
%q

1. Suggest a clean, concise title for this question.
2. Identify 3-5 relevant keywords or tags.
3. Provide a basic, helpful answer to get the conversation started.

Respond with a JSON object containing keys: "title", "tags", "ai_answer".`, topic, originalQuestion)

	reply, err := s.llm.Complete(ctx, s.llmCfg, singleUserPrompt(prompt))
	if err == nil {
		var payload struct {
			Title    string   `json:"title"`
			Tags     []string `json:"tags"`
			AIAnswer string   `json:"ai_answer"`
		}
		if extractErr := jsonextract.Extract(reply, &payload); extractErr == nil &&
			strings.TrimSpace(payload.Title) != "" && strings.TrimSpace(payload.AIAnswer) != "" {
			tags := payload.Tags
			if len(tags) == 0 {
				tags = []string{topic}
			}
			return strings.TrimSpace(payload.Title), tags, strings.TrimSpace(payload.AIAnswer)
		}
	}

	return truncateTitle(originalQuestion), []string{topic}, fallbackAIAnswer
}

func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= fallbackTitleLen {
		return text
	}
	return string(runes[:fallbackTitleLen]) + "..."
}

func (s *QuestionService) detail(question *model.Question) (*QuestionDetail, error) {
	answers, err := s.answerRepo.ListByQuestionID(question.ID)
	if err != nil {
		return nil, err
	}

	userIDs := []uint{question.UserID}
	for i := range answers {
		userIDs = append(userIDs, answers[i].UserID)
	}
	names, err := s.userNames(userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]AnswerView, 0, len(answers))
	for i := range answers {
		a := &answers[i]
		views = append(views, AnswerView{
			ID:            a.ID,
			Text:          a.Text,
			AuthorName:    names[a.UserID],
			IsAIGenerated: a.IsAIGenerated,
			Upvotes:       len(a.Upvotes()),
			UpvotedBy:     a.Upvotes(),
			CreatedAt:     a.CreatedAt,
		})
	}

	return &QuestionDetail{
		ID:               question.ID,
		Title:            question.Title,
		Topic:            question.Topic,
		OriginalQuestion: question.OriginalQuestion,
		Tags:             question.Tags(),
		AskerName:        names[question.UserID],
		Answers:          views,
		CreatedAt:        question.CreatedAt,
	}, nil
}

func (s *QuestionService) answerView(answer *model.Answer) (*AnswerView, error) {
	names, err := s.userNames([]uint{answer.UserID})
	if err != nil {
		return nil, err
	}
	return &AnswerView{
		ID:            answer.ID,
		Text:          answer.Text,
		AuthorName:    names[answer.UserID],
		IsAIGenerated: answer.IsAIGenerated,
		Upvotes:       len(answer.Upvotes()),
		UpvotedBy:     answer.Upvotes(),
		CreatedAt:     answer.CreatedAt,
	}, nil
}

func (s *QuestionService) userNames(ids []uint) (map[uint]string, error) {
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].Name
	}
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			names[id] = unknownAskerName
		}
	}
	return names, nil
}
