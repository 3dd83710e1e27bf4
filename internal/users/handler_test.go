package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-shortlister/internal/shared/server/middleware"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo())
	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r, svc
}

func TestSignupSetsSessionCookie(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected session cookie to be set")
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("expected session cookie to be http-only")
	}

	var body struct {
		User User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.User.Email != "ada@example.com" || body.User.Role != RoleHR {
		t.Fatalf("unexpected user: %+v", body.User)
	}
}

func TestSignupResponseOmitsPasswordHash(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if strings.Contains(resp.Body.String(), "passwordHash") || strings.Contains(resp.Body.String(), "$2a$") {
		t.Fatalf("response leaks credentials: %s", resp.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, svc := newAuthRouter(t)
	if _, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "secret123", ""); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"nope"}`))
	request.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, request)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	router, _ := newAuthRouter(t)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, request)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.MaxAge >= 0 {
			t.Fatalf("expected expired cookie, got max age %d", cookie.MaxAge)
		}
	}
}
