package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pathfinder/internal/app"
	"pathfinder/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type PostMessageRequest struct {
	UserQuestion string `json:"userQuestion" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	roadmapID, ok := parseIDParam(c, "roadmapId")
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	reply, err := h.chatService.PostMessage(c.Request.Context(), roadmapID, userID, req.UserQuestion)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotOwner):
			response.Error(c, http.StatusUnauthorized, response.CodeNotOwner, err.Error())
		case errors.Is(err, app.ErrRoadmapNotFound):
			response.Error(c, http.StatusNotFound, response.CodeRoadmapNotFound, err.Error())
		case errors.Is(err, app.ErrMessageEnqueue):
			response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "post message failed")
		}
		return
	}

	response.OK(c, gin.H{
		"sender": reply.Sender,
		"text":   reply.Text,
	})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	roadmapID, ok := parseIDParam(c, "roadmapId")
	if !ok {
		return
	}

	history, err := h.chatService.GetHistory(c.Request.Context(), roadmapID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		}
		return
	}

	views := make([]gin.H, 0, len(history))
	for i := range history {
		views = append(views, gin.H{
			"sender":     history[i].Sender,
			"text":       history[i].Text,
			"created_at": history[i].CreatedAt,
		})
	}
	response.OK(c, views)
}
