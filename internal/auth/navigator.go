package auth

import "context"

// Navigator moves the user interface to the login screen.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

type nopNavigator struct{}

func (nopNavigator) ToLogin(context.Context) {}
