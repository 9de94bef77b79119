package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/account-service/internal/core/domain"
)

type stubGuard struct {
	gotToken string
	account  *domain.Account
	err      error
}

func (g *stubGuard) Authenticate(_ context.Context, token string) (*domain.Account, error) {
	g.gotToken = token
	return g.account, g.err
}

func newContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	guard := &stubGuard{account: &domain.Account{ID: "abc", Role: domain.RoleUser, Status: domain.StatusActive}}
	c, rec := newContext("Bearer good-token")

	called := false
	handler := Auth(guard)(func(c echo.Context) error {
		called = true
		p, ok := Principal(c)
		if !ok || p.ID != "abc" {
			t.Fatalf("principal not set: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if guard.gotToken != "good-token" {
		t.Fatalf("guard received %q", guard.gotToken)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_HeaderFormats(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Token abc", ""},
		{"Bearer", ""},
		{"bearer abc", "abc"},
		{"Bearer   abc  ", "abc"},
	}
	for _, tc := range tests {
		guard := &stubGuard{err: domain.ErrUnauthenticated}
		c, _ := newContext(tc.header)

		err := Auth(guard)(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})(c)

		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("header %q: expected ErrUnauthenticated, got %v", tc.header, err)
		}
		if guard.gotToken != tc.want {
			t.Fatalf("header %q: guard received %q, want %q", tc.header, guard.gotToken, tc.want)
		}
	}
}

func TestAuthMiddleware_InactiveAccountNeverReachesHandler(t *testing.T) {
	guard := &stubGuard{err: domain.NewAccountNotActiveError(domain.StatusInactive)}
	c, _ := newContext("Bearer valid-but-inactive")

	err := Auth(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
	if _, ok := Principal(c); ok {
		t.Fatalf("principal must not be set")
	}
}
