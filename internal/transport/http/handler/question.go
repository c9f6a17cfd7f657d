package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pathfinder/internal/app"
	"pathfinder/internal/transport/http/response"
)

type QuestionHandler struct {
	questionService *app.QuestionService
}

type CreateQuestionRequest struct {
	OriginalQuestion string `json:"originalQuestion" binding:"required"`
	Topic            string `json:"topic" binding:"required,max=128"`
}

type AddAnswerRequest struct {
	Text string `json:"text" binding:"required"`
}

func NewQuestionHandler(questionService *app.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	detail, err := h.questionService.CreateQuestion(c.Request.Context(), userID, req.OriginalQuestion, req.Topic)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create question failed")
		}
		return
	}

	response.Created(c, detail)
}

func (h *QuestionHandler) List(c *gin.Context) {
	summaries, err := h.questionService.ListQuestions()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list questions failed")
		return
	}
	response.OK(c, summaries)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.questionService.GetQuestion(questionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeQuestionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch question failed")
		}
		return
	}
	response.OK(c, detail)
}

func (h *QuestionHandler) AddAnswer(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	view, err := h.questionService.AddAnswer(questionID, userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeQuestionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "add answer failed")
		}
		return
	}

	response.Created(c, view)
}

func (h *QuestionHandler) UpvoteAnswer(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	answerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.questionService.UpvoteAnswer(answerID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrAnswerNotFound):
			response.Error(c, http.StatusNotFound, response.CodeAnswerNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upvote answer failed")
		}
		return
	}

	response.OK(c, view)
}
