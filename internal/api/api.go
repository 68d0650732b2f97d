// Package api wraps the devhub REST resources. Every call goes through the
// protected pipeline and unwraps the {message, data} success envelope.
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

// Default page parameters.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Client groups the resource services.
type Client struct {
	Projects *Projects
	Comments *Comments
	Users    *Users
	Topics   *Topics
}

// New returns a Client sending through c.
func New(c *httpx.Client) *Client {
	return &Client{
		Projects: &Projects{c: c},
		Comments: &Comments{c: c},
		Users:    &Users{c: c},
		Topics:   &Topics{c: c},
	}
}

// call sends a request and returns the data member of the response envelope.
func call[T any](ctx context.Context, c *httpx.Client, method, path string, query url.Values, body any) (T, error) {
	var env domain.APIResponse[T]
	if err := c.Do(ctx, method, path, query, body, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// send is call for endpoints whose data is not used.
func send(ctx context.Context, c *httpx.Client, method, path string, body any) error {
	return c.Do(ctx, method, path, nil, body, nil)
}

func pageQuery(page, size, defaultSize int) url.Values {
	if page <= 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = defaultSize
	}
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

