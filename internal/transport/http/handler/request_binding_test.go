package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindBody(t *testing.T, body string, target any) error {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(target)
}

// The request field names are the wire contract the frontend already
// speaks; these pin them down so a rename breaks loudly.
func TestGenerateRoadmapRequest_BindsClientFieldNames(t *testing.T) {
	var req GenerateRoadmapRequest
	require.NoError(t, bindBody(t, `{"topic":"Go","week":4}`, &req))
	assert.Equal(t, "Go", req.Topic)
	assert.Equal(t, 4, req.Week)
}

func TestPostMessageRequest_BindsClientFieldNames(t *testing.T) {
	var req PostMessageRequest
	require.NoError(t, bindBody(t, `{"userQuestion":"what next?"}`, &req))
	assert.Equal(t, "what next?", req.UserQuestion)
}

func TestCreateQuestionRequest_BindsClientFieldNames(t *testing.T) {
	var req CreateQuestionRequest
	require.NoError(t, bindBody(t, `{"originalQuestion":"why does append copy?","topic":"Go"}`, &req))
	assert.Equal(t, "why does append copy?", req.OriginalQuestion)
	assert.Equal(t, "Go", req.Topic)
}

func TestGenerateRoadmapRequest_RejectsMissingWeek(t *testing.T) {
	var req GenerateRoadmapRequest
	assert.Error(t, bindBody(t, `{"topic":"Go"}`, &req))
}
