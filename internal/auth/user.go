package auth

import (
	"context"

	"github.com/aussiebroadwan/devhub/internal/domain"
)

// DefaultUserName is shown when no user is signed in.
const DefaultUserName = "Usuário"

// CurrentUser returns the signed-in user, or nil.
func (c *Client) CurrentUser() *domain.User {
	return c.state.Current()
}

// CurrentUserID returns the id of the signed-in user.
func (c *Client) CurrentUserID() (int64, error) {
	u := c.CurrentUser()
	if u == nil {
		return 0, ErrNotAuthenticated
	}
	return u.ID, nil
}

// CurrentUserIDOrZero returns the id of the signed-in user, or 0.
func (c *Client) CurrentUserIDOrZero() int64 {
	id, _ := c.CurrentUserID()
	return id
}

func (c *Client) CurrentUserName() string {
	if u := c.CurrentUser(); u != nil && u.Name != "" {
		return u.Name
	}
	return DefaultUserName
}

func (c *Client) CurrentUserAvatar() string {
	if u := c.CurrentUser(); u != nil {
		return u.AvatarURL
	}
	return ""
}

func (c *Client) CurrentUserEmail() string {
	if u := c.CurrentUser(); u != nil {
		return u.Email
	}
	return ""
}

// RequireAuth navigates to login and fails with ErrAuthRequired when no
// one is signed in.
func (c *Client) RequireAuth(ctx context.Context) error {
	if c.IsAuthenticated(ctx) {
		return nil
	}
	c.nav.ToLogin(ctx)
	return ErrAuthRequired
}
