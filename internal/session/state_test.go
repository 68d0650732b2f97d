package session_test

import (
	"sync"
	"testing"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/internal/session"
	"github.com/stretchr/testify/require"
)

func names(users []*domain.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		if u != nil {
			out[i] = u.Name
		}
	}
	return out
}

func TestState(t *testing.T) {
	t.Parallel()

	ana := &domain.User{ID: 1, Name: "ana"}
	bia := &domain.User{ID: 2, Name: "bia"}

	t.Run("late subscriber gets current value", func(t *testing.T) {
		st := session.NewState(ana)

		var got []*domain.User
		unsubscribe := st.Subscribe(func(u *domain.User) { got = append(got, u) })
		defer unsubscribe()

		require.Equal(t, []string{"ana"}, names(got))
		require.Same(t, ana, st.Current())
	})

	t.Run("every update in order", func(t *testing.T) {
		st := session.NewState(nil)

		var first, second []*domain.User
		defer st.Subscribe(func(u *domain.User) { first = append(first, u) })()
		st.Publish(ana)
		defer st.Subscribe(func(u *domain.User) { second = append(second, u) })()
		st.Publish(bia)
		st.Publish(nil)

		require.Equal(t, []string{"", "ana", "bia", ""}, names(first))
		require.Equal(t, []string{"ana", "bia", ""}, names(second))
		require.Nil(t, st.Current())
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		st := session.NewState(nil)

		calls := 0
		unsubscribe := st.Subscribe(func(*domain.User) { calls++ })
		require.Equal(t, 1, st.Subscribers())

		unsubscribe()
		unsubscribe()
		st.Publish(ana)

		require.Equal(t, 1, calls)
		require.Zero(t, st.Subscribers())
	})

	t.Run("unsubscribe from inside a listener", func(t *testing.T) {
		st := session.NewState(nil)

		var unsubscribe func()
		calls := 0
		unsubscribe = st.Subscribe(func(u *domain.User) {
			calls++
			if u != nil {
				unsubscribe()
			}
		})

		st.Publish(ana)
		st.Publish(bia)
		require.Equal(t, 2, calls)
	})
}

func TestStateConcurrentPublish(t *testing.T) {
	t.Parallel()

	st := session.NewState(nil)

	var mu sync.Mutex
	var a, b []*domain.User
	defer st.Subscribe(func(u *domain.User) { mu.Lock(); a = append(a, u); mu.Unlock() })()
	defer st.Subscribe(func(u *domain.User) { mu.Lock(); b = append(b, u); mu.Unlock() })()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Publish(&domain.User{ID: int64(i)})
		}()
	}
	wg.Wait()

	// Both listeners observed the same sequence, and it ends with Current
	require.Len(t, a, 51)
	require.Equal(t, a, b[len(b)-len(a):])
	require.Same(t, st.Current(), a[len(a)-1])
}
