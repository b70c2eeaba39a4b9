package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSuccessWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-1")

	Success(c, http.StatusCreated, map[string]string{"id": "p1"}, "created", Pagination{Page: 1, PerPage: 12})

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Success   bool              `json:"success"`
		RequestID string            `json:"request_id"`
		Data      map[string]string `json:"data"`
		Meta      Pagination        `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "rid-1", body.RequestID)
	require.Equal(t, "p1", body.Data["id"])
	require.Equal(t, 12, body.Meta.PerPage)
}

func TestErrorAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error[any](c, 0, "bad", map[string]string{"title": "is required"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.True(t, c.IsAborted())
	require.Contains(t, w.Body.String(), `"title":"is required"`)
}
