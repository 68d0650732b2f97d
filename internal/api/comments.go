package api

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

// Comments are listed and created under their project but edited and
// deleted by comment id alone.
type Comments struct {
	c *httpx.Client
}

func commentsPath(projectID int64) string {
	return idPath("/projects", projectID) + "/comments"
}

func (s *Comments) List(ctx context.Context, projectID int64, page, size int) (*domain.CommentsPage, error) {
	out, err := call[domain.CommentsPage](ctx, s.c, http.MethodGet, commentsPath(projectID), pageQuery(page, size, DefaultPageSize), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Comments) Get(ctx context.Context, projectID, commentID int64) (*domain.ProjectComment, error) {
	out, err := call[domain.ProjectComment](ctx, s.c, http.MethodGet, idPath(commentsPath(projectID), commentID), nil, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Comments) Create(ctx context.Context, projectID int64, req domain.CreateCommentRequest) (*domain.ProjectComment, error) {
	out, err := call[domain.ProjectComment](ctx, s.c, http.MethodPost, commentsPath(projectID), nil, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Comments) Update(ctx context.Context, commentID int64, req domain.UpdateCommentRequest) (*domain.ProjectComment, error) {
	out, err := call[domain.ProjectComment](ctx, s.c, http.MethodPatch, idPath("/comments", commentID), nil, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Comments) Delete(ctx context.Context, commentID int64) error {
	return send(ctx, s.c, http.MethodDelete, idPath("/comments", commentID), nil)
}
