package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/accounthub/account-service/internal/api/middleware"
	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

type stubAccountService struct {
	listFn           func(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error)
	getFn            func(ctx context.Context, id string) (*domain.Account, error)
	activateFn       func(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error)
	deactivateFn     func(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error)
	profileFn        func(ctx context.Context, p *domain.Account) (*domain.Account, error)
	updateProfileFn  func(ctx context.Context, p *domain.Account, in ports.ProfileChanges) (*domain.Account, error)
	changePasswordFn func(ctx context.Context, p *domain.Account, in ports.ChangePasswordInput) error
}

func (s *stubAccountService) List(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) Activate(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error) {
	return s.activateFn(ctx, actor, id)
}

func (s *stubAccountService) Deactivate(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error) {
	return s.deactivateFn(ctx, actor, id)
}

func (s *stubAccountService) Profile(ctx context.Context, p *domain.Account) (*domain.Account, error) {
	return s.profileFn(ctx, p)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, p *domain.Account, in ports.ProfileChanges) (*domain.Account, error) {
	return s.updateProfileFn(ctx, p, in)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, p *domain.Account, in ports.ChangePasswordInput) error {
	return s.changePasswordFn(ctx, p, in)
}

var adminAccount = &domain.Account{
	ID:       "acc-admin",
	FullName: "Ada Admin",
	Email:    "ada@x.com",
	Role:     domain.RoleAdmin,
	Status:   domain.StatusActive,
}

func TestUserHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAccountService{
		listFn: func(_ context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
			if in.Page != 2 || in.Limit != 5 || in.Status != "active" || in.Role != "" || in.Search != "jane" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ListAccountsResult{
				Accounts: []*domain.Account{janeAccount},
				Pagination: ports.Pagination{
					CurrentPage: 2, TotalPages: 3, TotalUsers: 11, Limit: 5,
					HasNextPage: true, HasPrevPage: true,
				},
			}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/users?page=2&limit=5&status=active&search=jane", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	users := data["users"].([]any)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	p := data["pagination"].(map[string]any)
	if p["currentPage"] != float64(2) || p["totalUsers"] != float64(11) || p["hasNextPage"] != true {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestUserHandler_List_EmptyPageRendersArray(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAccountService{
		listFn: func(context.Context, ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
			return &ports.ListAccountsResult{Pagination: ports.Pagination{CurrentPage: 1, Limit: 10}}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	users, ok := decodeEnvelope(t, rec)["data"].(map[string]any)["users"].([]any)
	if !ok || len(users) != 0 {
		t.Fatalf("expected empty users array, got %s", rec.Body.String())
	}
}

func TestUserHandler_List_BadQuery(t *testing.T) {
	tests := map[string]string{
		"unknown status": "/users?status=deleted",
		"unknown role":   "/users?role=root",
		"non-numeric":    "/users?page=abc",
		"negative limit": "/users?limit=-1",
		"huge page":      "/users?page=9223372036854775807",
	}

	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			h := NewUserHandler(&stubAccountService{
				listFn: func(context.Context, ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			})
			c, _ := newJSONContext(e, http.MethodGet, target, "")
			if err := h.List(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUserHandler_Get(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAccountService{
		getFn: func(_ context.Context, id string) (*domain.Account, error) {
			if id != "acc-1" {
				return nil, domain.ErrNotFound
			}
			return janeAccount, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/users/acc-1", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	user := decodeEnvelope(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	if user["fullName"] != "Jane Doe" {
		t.Fatalf("unexpected user: %+v", user)
	}

	c, _ = newJSONContext(e, http.MethodGet, "/users/acc-9", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-9")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserHandler_Transitions(t *testing.T) {
	var gotActor *domain.Account
	var gotID string
	record := func(status domain.Status) func(context.Context, *domain.Account, string) (*domain.Account, error) {
		return func(_ context.Context, actor *domain.Account, id string) (*domain.Account, error) {
			gotActor, gotID = actor, id
			a := *janeAccount
			a.Status = status
			return &a, nil
		}
	}

	e := newTestEcho()
	h := NewUserHandler(&stubAccountService{
		activateFn:   record(domain.StatusActive),
		deactivateFn: record(domain.StatusInactive),
	})

	c, rec := newJSONContext(e, http.MethodPut, "/users/acc-1/deactivate", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-1")
	middleware.SetPrincipal(c, adminAccount)
	if err := h.Deactivate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	if resp["message"] != "User account deactivated successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if gotActor != adminAccount || gotID != "acc-1" {
		t.Fatalf("service got actor=%v id=%q", gotActor, gotID)
	}
	if resp["data"].(map[string]any)["user"].(map[string]any)["status"] != "inactive" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	c, rec = newJSONContext(e, http.MethodPut, "/users/acc-1/activate", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-1")
	middleware.SetPrincipal(c, adminAccount)
	if err := h.Activate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decodeEnvelope(t, rec)["message"] != "User account activated successfully" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUserHandler_TransitionErrors(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAccountService{
		deactivateFn: func(context.Context, *domain.Account, string) (*domain.Account, error) {
			return nil, domain.NewError(domain.KindForbidden, "You cannot deactivate your own account")
		},
	})

	c, _ := newJSONContext(e, http.MethodPut, "/users/acc-admin/deactivate", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-admin")
	middleware.SetPrincipal(c, adminAccount)
	if err := h.Deactivate(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	c, _ = newJSONContext(e, http.MethodPut, "/users/acc-1/deactivate", "")
	if err := h.Deactivate(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated without principal, got %v", err)
	}
}
