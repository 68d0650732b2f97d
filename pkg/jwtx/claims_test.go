package jwtx_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/devhub/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func mint(t *testing.T, claims jwtx.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)
	return token
}

func TestDecode(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0).UTC()

	t.Run("reads custom and registered claims", func(t *testing.T) {
		token := mint(t, jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				ID:        "jti-1",
			},
			UserID: 42,
			Name:   "Ana",
			Email:  "ana@example.com",
			Role:   "ADMIN",
		})

		claims := jwtx.Decode(token)
		require.NotNil(t, claims)
		require.Equal(t, int64(42), claims.UserID)
		require.Equal(t, "Ana", claims.Name)
		require.Equal(t, "ana@example.com", claims.Email)
		require.Equal(t, "ADMIN", claims.Role)
		require.Equal(t, "jti-1", claims.ID)
		require.False(t, claims.IsRefresh())
		require.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
	})

	t.Run("refresh type", func(t *testing.T) {
		token := mint(t, jwtx.Claims{Type: jwtx.TokenTypeRefresh})
		require.True(t, jwtx.Decode(token).IsRefresh())
	})

	t.Run("signature is not checked", func(t *testing.T) {
		token := mint(t, jwtx.Claims{Name: "Ana"})
		forged := token[:len(token)-4] + "AAAA"
		require.Equal(t, "Ana", jwtx.Decode(forged).Name)
	})

	t.Run("header is not read", func(t *testing.T) {
		token := mint(t, jwtx.Claims{Name: "Ana", UserID: 7})
		payload := strings.Split(token, ".")[1]

		for _, header := range []string{"%%%", "not-base64!", ""} {
			claims := jwtx.Decode(header + "." + payload + ".sig")
			require.NotNil(t, claims, "header %q", header)
			require.Equal(t, "Ana", claims.Name)
			require.Equal(t, int64(7), claims.UserID)
		}

		require.NotNil(t, jwtx.Decode("x."+payload))
	})

	t.Run("malformed input yields nil", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte("{not json"))
		for _, token := range []string{
			"",
			"   ",
			"not-a-token",
			"a.b",
			"eyJhbGciOiJIUzI1NiJ9." + payload + ".sig",
			"eyJhbGciOiJIUzI1NiJ9.%%%.sig",
		} {
			require.Nil(t, jwtx.Decode(token), "token %q", token)

			_, err := jwtx.Parse(token)
			require.ErrorIs(t, err, jwtx.ErrMalformed)
		}
	})
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0).UTC()
	at := func(d time.Duration) string {
		return mint(t, jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(d))},
		})
	}

	t.Run("expired once now reaches exp", func(t *testing.T) {
		require.False(t, jwtx.IsExpired(at(time.Second), now))
		require.True(t, jwtx.IsExpired(at(0), now))
		require.True(t, jwtx.IsExpired(at(-time.Minute), now))
	})

	t.Run("due inside the five minute window", func(t *testing.T) {
		require.False(t, jwtx.ShouldRefresh(at(10*time.Minute), now))
		require.True(t, jwtx.ShouldRefresh(at(5*time.Minute), now))
		require.True(t, jwtx.ShouldRefresh(at(time.Minute), now))
		require.True(t, jwtx.ShouldRefresh(at(-time.Minute), now))
	})

	t.Run("missing exp", func(t *testing.T) {
		token := mint(t, jwtx.Claims{Name: "Ana"})
		require.True(t, jwtx.IsExpired(token, now))
		require.False(t, jwtx.ShouldRefresh(token, now))
	})

	t.Run("garbage", func(t *testing.T) {
		require.True(t, jwtx.IsExpired("garbage", now))
		require.False(t, jwtx.ShouldRefresh("garbage", now))
	})
}
