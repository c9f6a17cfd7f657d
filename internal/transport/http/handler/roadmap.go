package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pathfinder/internal/app"
	"pathfinder/internal/transport/http/response"
)

type RoadmapHandler struct {
	roadmapService  *app.RoadmapService
	resourceService *app.ResourceService
}

type GenerateRoadmapRequest struct {
	Topic string `json:"topic" binding:"required,max=128"`
	Week  int    `json:"week" binding:"required"`
}

type UpdateProgressRequest struct {
	Concept   string `json:"concept" binding:"required,max=256"`
	Completed *bool  `json:"completed" binding:"required"`
}

type FindResourcesRequest struct {
	Concept string `json:"concept" binding:"required,max=256"`
	Topic   string `json:"topic" binding:"required,max=128"`
}

func NewRoadmapHandler(roadmapService *app.RoadmapService, resourceService *app.ResourceService) *RoadmapHandler {
	return &RoadmapHandler{
		roadmapService:  roadmapService,
		resourceService: resourceService,
	}
}

func (h *RoadmapHandler) Generate(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req GenerateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	view, err := h.roadmapService.CreateRoadmap(c.Request.Context(), userID, req.Topic, req.Week)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidTopic):
			response.Error(c, http.StatusBadRequest, response.CodeInvalidTopic, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate roadmap failed")
		}
		return
	}

	response.Created(c, view)
}

func (h *RoadmapHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	views, err := h.roadmapService.ListRoadmaps(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list roadmaps failed")
		return
	}
	response.OK(c, views)
}

func (h *RoadmapHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	roadmapID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roadmapService.DeleteRoadmap(c.Request.Context(), roadmapID, userID); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotOwner):
			response.Error(c, http.StatusUnauthorized, response.CodeNotOwner, err.Error())
		case errors.Is(err, app.ErrRoadmapNotFound):
			response.Error(c, http.StatusNotFound, response.CodeRoadmapNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete roadmap failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_roadmap_id": roadmapID})
}

func (h *RoadmapHandler) UpdateProgress(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	roadmapID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	view, err := h.roadmapService.UpdateProgress(c.Request.Context(), roadmapID, userID, req.Concept, *req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotOwner):
			response.Error(c, http.StatusUnauthorized, response.CodeNotOwner, err.Error())
		case errors.Is(err, app.ErrRoadmapNotFound):
			response.Error(c, http.StatusNotFound, response.CodeRoadmapNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update progress failed")
		}
		return
	}

	response.OK(c, view)
}

func (h *RoadmapHandler) Share(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	roadmapID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shareableID, err := h.roadmapService.CreateShareableLink(roadmapID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotOwner):
			response.Error(c, http.StatusUnauthorized, response.CodeNotOwner, err.Error())
		case errors.Is(err, app.ErrRoadmapNotFound):
			response.Error(c, http.StatusNotFound, response.CodeRoadmapNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create share link failed")
		}
		return
	}

	response.OK(c, gin.H{"shareableId": shareableID})
}

func (h *RoadmapHandler) GetShared(c *gin.Context) {
	view, err := h.roadmapService.GetSharedRoadmap(c.Param("shareableId"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrRoadmapNotFound):
			response.Error(c, http.StatusNotFound, response.CodeRoadmapNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch shared roadmap failed")
		}
		return
	}
	response.OK(c, view)
}

func (h *RoadmapHandler) Leaderboard(c *gin.Context) {
	entries, err := h.roadmapService.Leaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch leaderboard failed")
		return
	}
	response.OK(c, entries)
}

func (h *RoadmapHandler) FindResources(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req FindResourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	results, err := h.resourceService.FindResources(c.Request.Context(), req.Concept, req.Topic)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNoResources):
			response.Error(c, http.StatusNotFound, response.CodeNoResources, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "resource search failed")
		}
		return
	}

	response.OK(c, results)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id64), true
}
