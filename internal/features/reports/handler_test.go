package reports

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

// Validation failures must reject before any repository call, so a handler
// with nil repositories is safe for these paths.
func setupCreateRouter(t *testing.T, authed bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidations()

	handler := NewHandler(nil, nil, nil, nil, nil)
	router := gin.New()
	if authed {
		router.Use(func(c *gin.Context) {
			c.Set("user", &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleClient})
		})
	}
	router.POST("/reports", handler.CreateReport)
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

func TestCreateReportRequiresAuth(t *testing.T) {
	router := setupCreateRouter(t, false)
	w := postJSON(router, "/reports", validUserReport())
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateReportRejectsUnknownReason(t *testing.T) {
	router := setupCreateRouter(t, true)

	req := validUserReport()
	req.Reason = "rudeness"
	w := postJSON(router, "/reports", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReportRejectsShortDescription(t *testing.T) {
	router := setupCreateRouter(t, true)

	req := validUserReport()
	req.Description = "too short"
	w := postJSON(router, "/reports", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReportRejectsMissingTargetFields(t *testing.T) {
	router := setupCreateRouter(t, true)

	req := validUserReport()
	req.ReportedUserID = ""
	w := postJSON(router, "/reports", req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
}

func TestCreateReportRejectsOtherWithoutCustomReason(t *testing.T) {
	router := setupCreateRouter(t, true)

	req := validUserReport()
	req.Reason = ReasonOther
	req.CustomReason = ""
	w := postJSON(router, "/reports", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
