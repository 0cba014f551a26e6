package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestItemHandler_ReportLost_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ItemHandler{items: nil}
	r.POST("/items/lost", handler.ReportLost)

	req, _ := http.NewRequest("POST", "/items/lost", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestItemHandler_ReportFound_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ItemHandler{items: nil}
	r.POST("/items/found", handler.ReportFound)

	req, _ := http.NewRequest("POST", "/items/found", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestItemHandler_ListMine_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ItemHandler{items: nil}
	r.GET("/items/mine", handler.ListMine)

	req, _ := http.NewRequest("GET", "/items/mine", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMatchHandler_Dashboard_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &MatchHandler{}
	r.GET("/dashboard", handler.Dashboard)

	req, _ := http.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMatchHandler_Decide_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &MatchHandler{}
	r.POST("/matches/lost/:lostId/found/:foundId/decision", handler.Decide)

	req, _ := http.NewRequest("POST", "/matches/lost/a/found/b/decision", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParsePhotoID(t *testing.T) {
	id, err := parsePhotoID(nil)
	assert.NoError(t, err)
	assert.Nil(t, id)

	empty := ""
	id, err = parsePhotoID(&empty)
	assert.NoError(t, err)
	assert.Nil(t, id)

	bad := "not-a-uuid"
	_, err = parsePhotoID(&bad)
	assert.Error(t, err)

	valid := "7b1786a1-64e4-4b4e-95c2-bb7ea9a15a6a"
	id, err = parsePhotoID(&valid)
	assert.NoError(t, err)
	assert.Equal(t, valid, id.String())
}
