package api

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

type Topics struct {
	c *httpx.Client
}

func (t *Topics) Create(ctx context.Context, req domain.CreateTopicRequest) (*domain.Topic, error) {
	out, err := call[domain.Topic](ctx, t.c, http.MethodPost, "/topics", nil, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Topics) List(ctx context.Context) ([]domain.Topic, error) {
	return call[[]domain.Topic](ctx, t.c, http.MethodGet, "/topics", nil, nil)
}
