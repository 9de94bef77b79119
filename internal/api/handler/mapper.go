package handler

import (
	"time"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

// toUserSummary is the short form used by auth and status-change responses.
func toUserSummary(a *domain.Account) userResponse {
	return userResponse{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
		Role:     string(a.Role),
		Status:   string(a.Status),
	}
}

// toUserDetail adds the timestamps shown on profile and admin views.
func toUserDetail(a *domain.Account) userResponse {
	r := toUserSummary(a)
	r.LastLogin = a.LastLogin
	r.CreatedAt = timePtr(a.CreatedAt)
	r.UpdatedAt = timePtr(a.UpdatedAt)
	return r
}

func toListResponse(res *ports.ListAccountsResult) listUsersData {
	users := make([]userResponse, 0, len(res.Accounts))
	for _, a := range res.Accounts {
		users = append(users, toUserDetail(a))
	}
	p := res.Pagination
	return listUsersData{
		Users: users,
		Pagination: paginationResponse{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			TotalUsers:  p.TotalUsers,
			Limit:       p.Limit,
			HasNextPage: p.HasNextPage,
			HasPrevPage: p.HasPrevPage,
		},
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
