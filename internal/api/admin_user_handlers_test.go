package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/testutil"
)

func TestAdminUserManagement(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	cookie := testutil.GetAuthCookie(t, server, "admin", "password123", "admin")

	t.Run("create user", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"username": "newuser", "password": "password123", "role": "user",
		})
		req := httptest.NewRequest("POST", "/api/admin/users", bytes.NewBuffer(payload))
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rr.Code)
		}
	})

	t.Run("create user with bad role", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"username": "u2", "password": "p", "role": "superadmin",
		})
		req := httptest.NewRequest("POST", "/api/admin/users", bytes.NewBuffer(payload))
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("list users", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/users", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var users []*models.User
		if err := json.Unmarshal(rr.Body.Bytes(), &users); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("expected admin and newuser, got %d users", len(users))
		}
	})

	t.Run("cannot delete self", func(t *testing.T) {
		admin, err := server.Store().GetUserByUsername("admin")
		if err != nil {
			t.Fatalf("failed to look up admin: %v", err)
		}
		req := httptest.NewRequest("DELETE", "/api/admin/users/"+itoa(admin.ID), nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("delete another user", func(t *testing.T) {
		user, err := server.Store().GetUserByUsername("newuser")
		if err != nil {
			t.Fatalf("failed to look up newuser: %v", err)
		}
		req := httptest.NewRequest("DELETE", "/api/admin/users/"+itoa(user.ID), nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rr.Code)
		}
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
