package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/models"
)

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	staff := []models.UserRole{models.RoleAdmin, models.RoleSubAdmin, models.RoleLabHead, models.RoleTeacher}
	am := &AuthMiddleware{}

	newRouter := func(role models.UserRole) *gin.Engine {
		router := gin.New()
		router.POST("/projects/:id/star",
			func(c *gin.Context) { c.Set("user_role", role) },
			am.RequireRole(staff...),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		return router
	}

	tests := []struct {
		name       string
		role       models.UserRole
		wantStatus int
	}{
		{name: "admin may star", role: models.RoleAdmin, wantStatus: http.StatusOK},
		{name: "sub_admin may star", role: models.RoleSubAdmin, wantStatus: http.StatusOK},
		{name: "lab_head may star", role: models.RoleLabHead, wantStatus: http.StatusOK},
		{name: "teacher may star", role: models.RoleTeacher, wantStatus: http.StatusOK},
		{name: "student may not star", role: models.RoleStudent, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/projects/7/star", nil)
			newRouter(tt.role).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}

	t.Run("missing role is forbidden", func(t *testing.T) {
		router := gin.New()
		router.GET("/guarded", am.RequireRole(staff...), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})
}
