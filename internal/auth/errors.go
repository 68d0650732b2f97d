package auth

import "errors"

var (
	// ErrNoRefreshToken is returned by Refresh when no refresh token is stored.
	// No request is sent in that case.
	ErrNoRefreshToken = errors.New("auth: no refresh token")

	// ErrNotAuthenticated is returned when an operation needs a signed-in user.
	ErrNotAuthenticated = errors.New("nenhum usuário autenticado")

	// ErrAuthRequired is returned by RequireAuth after redirecting to login.
	ErrAuthRequired = errors.New("autenticação necessária")
)
