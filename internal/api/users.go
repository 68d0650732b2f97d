package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

const (
	// DefaultRolePageSize is the page size of ListByRole.
	DefaultRolePageSize = 50

	// DefaultTopLimit is the number of users returned by TopByXP.
	DefaultTopLimit = 10
)

type Users struct {
	c *httpx.Client
}

func (u *Users) List(ctx context.Context, page, size int) (*domain.UsersPage, error) {
	return u.page(ctx, "/users", pageQuery(page, size, DefaultPageSize))
}

// ListActive lists only users whose account is active.
func (u *Users) ListActive(ctx context.Context, page, size int) (*domain.UsersPage, error) {
	return u.page(ctx, "/users/active", pageQuery(page, size, DefaultPageSize))
}

func (u *Users) ListByRole(ctx context.Context, role domain.Role, page, size int) (*domain.UsersPage, error) {
	q := pageQuery(page, size, DefaultRolePageSize)
	q.Set("role", string(role))
	return u.page(ctx, "/users/by-role", q)
}

func (u *Users) page(ctx context.Context, path string, q url.Values) (*domain.UsersPage, error) {
	out, err := call[domain.UsersPage](ctx, u.c, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TopByXP returns the users with the most experience points, best first.
func (u *Users) TopByXP(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return call[[]domain.User](ctx, u.c, http.MethodGet, "/users/top-xp", url.Values{"limit": {strconv.Itoa(limit)}}, nil)
}

func (u *Users) Get(ctx context.Context, id int64) (*domain.User, error) {
	out, err := call[domain.User](ctx, u.c, http.MethodGet, idPath("/users", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) Create(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	out, err := call[domain.User](ctx, u.c, http.MethodPost, "/users", nil, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) Update(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.User, error) {
	out, err := call[domain.User](ctx, u.c, http.MethodPatch, idPath("/users", id), nil, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) Deactivate(ctx context.Context, id int64) error {
	return send(ctx, u.c, http.MethodDelete, idPath("/users", id), nil)
}

// DeactivateBatch deactivates several users in one request.
func (u *Users) DeactivateBatch(ctx context.Context, ids []int64) error {
	return send(ctx, u.c, http.MethodPost, "/users/deactivate-batch", map[string][]int64{"ids": ids})
}
