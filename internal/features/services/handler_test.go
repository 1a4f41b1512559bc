package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/features/auth"
)

// Authorization failures reject before any repository call, so a handler
// with nil repositories is safe for these paths.
func setupCreateRouter(role string, authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(nil, nil)
	router := gin.New()
	if authed {
		router.Use(func(c *gin.Context) {
			c.Set("user", &auth.User{ID: primitive.NewObjectID(), Role: role})
		})
	}
	router.POST("/services", handler.CreateService)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateServiceRequiresAuth(t *testing.T) {
	router := setupCreateRouter("", false)
	w := postJSON(router, "/services", CreateServiceRequest{})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateServiceRejectsClients(t *testing.T) {
	router := setupCreateRouter(auth.RoleClient, true)
	w := postJSON(router, "/services", CreateServiceRequest{})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateServiceValidatesBody(t *testing.T) {
	router := setupCreateRouter(auth.RoleProvider, true)

	// Missing required fields.
	w := postJSON(router, "/services", map[string]interface{}{"title": "Lawn mowing"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
}

func TestCreateServiceRejectsMalformedCategoryID(t *testing.T) {
	router := setupCreateRouter(auth.RoleProvider, true)

	w := postJSON(router, "/services", CreateServiceRequest{
		CategoryID:  "not-an-id",
		Title:       "Lawn mowing",
		Description: "Weekly lawn mowing for small gardens",
		PricingType: "fixed",
		Price:       25,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
