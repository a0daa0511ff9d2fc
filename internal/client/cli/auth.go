package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errRefreshFailed = errors.New("token refresh failed, please log in again")

// requireAuth runs fn when the session is authenticated. Otherwise the
// session navigates to login, which prints a hint, and nil is returned.
func (a *App) requireAuth(fn func() error) error {
	var err error
	a.auth.RequireAuth(func() { err = fn() })
	return err
}

// Register prompts for the account details and signs up. On success the
// session is established and the navigator greets the user.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role (artist or visitor, empty to skip)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.auth.Signup(ctx, models.RegisterRequest{
		Email:    email,
		Password: string(password),
		FullName: fullName,
		Role:     role,
	})
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.auth.Login(ctx, email, string(password))
}

// Logout ends the session here and in every other process sharing the
// credential database.
func (a *App) Logout(ctx context.Context) error {
	return a.auth.Logout(ctx)
}

func (a *App) Whoami(ctx context.Context) error {
	return a.requireAuth(func() error {
		u := a.auth.State().User
		fmt.Fprintf(a.out, "%s <%s>\n", displayName(u.FullName, u.Username, u.Email), u.Email)
		if u.Role != nil {
			fmt.Fprintf(a.out, "role:      %s\n", *u.Role)
		}
		fmt.Fprintf(a.out, "followers: %d, following: %d\n", u.FollowersCount, u.FollowingCount)
		if !u.DateJoined.IsZero() {
			fmt.Fprintf(a.out, "joined:    %s\n", humanTime(u.DateJoined))
		}
		return nil
	})
}

func (a *App) Refresh(ctx context.Context) error {
	return a.requireAuth(func() error {
		if !a.auth.RefreshToken(ctx) {
			return errRefreshFailed
		}
		fmt.Fprintln(a.out, "Token refreshed.")
		return nil
	})
}
