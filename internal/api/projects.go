package api

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

type Projects struct {
	c *httpx.Client
}

// List returns one page of projects.
func (p *Projects) List(ctx context.Context, page, size int) (*domain.ProjectsPage, error) {
	out, err := call[domain.ProjectsPage](ctx, p.c, http.MethodGet, "/projects", pageQuery(page, size, DefaultPageSize), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Projects) Get(ctx context.Context, id int64) (*domain.Project, error) {
	out, err := call[domain.Project](ctx, p.c, http.MethodGet, idPath("/projects", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Projects) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	out, err := call[domain.Project](ctx, p.c, http.MethodPost, "/projects", nil, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Projects) Update(ctx context.Context, id int64, req domain.UpdateProjectRequest) (*domain.Project, error) {
	out, err := call[domain.Project](ctx, p.c, http.MethodPatch, idPath("/projects", id), nil, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Deactivate removes a project from listings. The backend keeps the record.
func (p *Projects) Deactivate(ctx context.Context, id int64) error {
	return send(ctx, p.c, http.MethodDelete, idPath("/projects", id), nil)
}
