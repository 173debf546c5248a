package cli

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
	"github.com/Divert12/divert-ai-crew/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

// Register prompts for username, email and password (twice) and creates the
// account. The session is not changed; the user logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, err := requireText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := requireText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	if password != confirm {
		return errPasswordMismatch
	}

	res := session.MustFromContext(ctx).Register(ctx, models.Registration{
		Username: username,
		Email:    email,
		Password: password,
	})
	if !res.OK() {
		fmt.Fprintln(a.out, errorStyle.Render("Registration failed: "+res.Message()))
		return nil
	}

	fmt.Fprintln(a.out, okStyle.Render(fmt.Sprintf("Account %s created. Type 'login' to sign in.", res.User.Username)))
	return nil
}

// Login prompts for credentials and authenticates. The outcome is printed;
// a rejected login is not an error of the command itself.
func (a *App) Login(ctx context.Context) error {
	username, err := requireText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	res := session.MustFromContext(ctx).Login(ctx, models.Credentials{Username: username, Password: password})
	if !res.OK() {
		fmt.Fprintln(a.out, errorStyle.Render("Login failed: "+res.Message()))
		return nil
	}

	fmt.Fprintln(a.out, okStyle.Render(fmt.Sprintf("Welcome, %s!", res.User.Username)))
	return nil
}

// Logout forgets the stored credential. The session ends even when the
// storage could not be cleared; that error is returned.
func (a *App) Logout(ctx context.Context) error {
	if err := session.MustFromContext(ctx).Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami prints the logged-in user.
func (a *App) Whoami(ctx context.Context) error {
	s := session.MustFromContext(ctx).State()
	if s.User == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> (id %s)\n", s.User.Username, s.User.Email, s.User.ID)
	return nil
}
