package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salehdz/mangarid/internal/auth"
	"github.com/salehdz/mangarid/internal/testutil"
)

func TestLogin(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	hash, err := auth.HashPassword("secret-password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if _, err := server.Store().CreateUser("admin", hash, "admin"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "secret-password"})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewBuffer(payload))
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var sessionCookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == "session_token" {
				sessionCookie = c
			}
		}
		if sessionCookie == nil || sessionCookie.Value == "" {
			t.Fatal("expected a session cookie")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewBuffer(payload))
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"username": "ghost", "password": "x"})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewBuffer(payload))
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	req := httptest.NewRequest("GET", "/api/manga", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a session, got %d", rr.Code)
	}
}

func TestGetMe(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	cookie := testutil.GetAuthCookie(t, server, "reader", "password123", "user")

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Username != "reader" || body.Role != "user" {
		t.Errorf("unexpected identity: %+v", body)
	}
}

func TestLogout(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	cookie := testutil.GetAuthCookie(t, server, "reader", "password123", "user")

	req := httptest.NewRequest("POST", "/api/users/logout", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", rr.Code)
	}

	// The old session must no longer authenticate.
	req = httptest.NewRequest("GET", "/api/users/me", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rr.Code)
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	cookie := testutil.GetAuthCookie(t, server, "reader", "password123", "user")

	payload, _ := json.Marshal(map[string]string{"site_id": "olympus", "slug": "test-series"})
	req := httptest.NewRequest("POST", "/api/admin/import", bytes.NewBuffer(payload))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin, got %d", rr.Code)
	}
}
