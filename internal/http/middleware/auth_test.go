package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peakcomfort/backend/internal/utils"
)

func protectedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AdminAuth(secret))
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(AdminEmailKey)})
	})
	return r
}

func TestAdminAuthAcceptsValidToken(t *testing.T) {
	token, err := utils.GenerateAdminToken("s3cret", "office@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	r := protectedRouter("s3cret")
	req, _ := http.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminAuthRejects(t *testing.T) {
	token, _ := utils.GenerateAdminToken("other-secret", "office@example.com", time.Hour)
	expired, _ := utils.GenerateAdminToken("s3cret", "office@example.com", -time.Minute)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + token},
		{"expired", "Bearer " + expired},
	}
	r := protectedRouter("s3cret")
	for _, tc := range cases {
		req, _ := http.NewRequest(http.MethodGet, "/x", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, w.Code)
		}
	}
}
