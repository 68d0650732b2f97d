package domain

// Session is the (access token, refresh token, cached user) triple. It is
// always written and cleared as one unit.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// IsZero reports whether no part of the session is present.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// Complete reports whether all three parts of the session are present.
func (s Session) Complete() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && s.User != nil
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by the login, register and refresh endpoints.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// Session converts the response into the session triple it establishes.
func (r AuthResponse) Session() Session {
	user := r.User
	return Session{
		AccessToken:  r.Token,
		RefreshToken: r.RefreshToken,
		User:         &user,
	}
}
