package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clipstream/accounts/internal/common"
	"github.com/clipstream/accounts/internal/server/models"
)

func gateService(t *testing.T, wantToken string, user *models.User) *mockUserService {
	t.Helper()
	return &mockUserService{
		currentUserFunc: func(ctx context.Context, accessToken string) (*models.User, error) {
			if accessToken != wantToken {
				return nil, common.ErrorUnauthorized
			}
			return user, nil
		},
	}
}

func TestRequireAuth_CookieToken(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "ana"}
	svc := gateService(t, "acc-1", user)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seen *models.User
	r.GET("/protected", requireAuth(svc), func(c *gin.Context) {
		seen = authenticatedUser(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "acc-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if seen == nil || seen.ID != "u-1" {
		t.Fatalf("authenticated user must be attached to the context, got %+v", seen)
	}
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	user := &models.User{ID: "u-1"}
	svc := gateService(t, "acc-1", user)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", requireAuth(svc), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer acc-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestRequireAuth_CookieWinsOverHeader(t *testing.T) {
	var presented string
	svc := &mockUserService{
		currentUserFunc: func(ctx context.Context, accessToken string) (*models.User, error) {
			presented = accessToken
			return &models.User{ID: "u-1"}, nil
		},
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", requireAuth(svc), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if presented != "from-cookie" {
		t.Fatalf("cookie token must be tried first, got %q", presented)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*http.Request)
	}{
		{"no credentials", func(req *http.Request) {}},
		{"wrong cookie token", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "bad"})
		}},
		{"wrong bearer token", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer bad")
		}},
		{"malformed authorization header", func(req *http.Request) {
			req.Header.Set("Authorization", "acc-1")
		}},
		{"wrong scheme", func(req *http.Request) {
			req.Header.Set("Authorization", "Basic acc-1")
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := gateService(t, "acc-1", &models.User{ID: "u-1"})

			gin.SetMode(gin.TestMode)
			r := gin.New()
			handlerRan := false
			r.GET("/protected", requireAuth(svc), func(c *gin.Context) {
				handlerRan = true
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tc.mutate(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if handlerRan {
				t.Fatalf("handler must not run after a rejected gate")
			}

			resp := decodeError(t, w)
			if resp.Success || resp.Status != http.StatusUnauthorized {
				t.Fatalf("unexpected error envelope: %+v", resp)
			}
		})
	}
}

func TestAuthenticatedUser_WithoutGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if user := authenticatedUser(c); user != nil {
		t.Fatalf("expected nil without the auth gate, got %+v", user)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"missing", "", ""},
		{"no scheme", "abc", ""},
		{"wrong scheme", "Basic abc", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				c.Request.Header.Set("Authorization", tc.header)
			}

			if got := bearerToken(c); got != tc.want {
				t.Fatalf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
