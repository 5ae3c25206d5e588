package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/dmitrijs2005/gophtodo/internal/authtoken"
	"github.com/dmitrijs2005/gophtodo/internal/client/services"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register switches to the register view, prompts for name, email, password
// and its confirmation, and signs the new account in. The form is validated
// before anything is sent.
func (a *App) Register(ctx context.Context) error {
	a.setView(services.ViewRegister)

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password: ", a.out)
	if err != nil {
		return err
	}
	defer clear(password)
	confirm, err := getPassword(a.reader, "Confirm password: ", a.out)
	if err != nil {
		return err
	}
	defer clear(confirm)

	if err := services.ValidateRegistration(name, email, string(password), string(confirm)); err != nil {
		return err
	}
	if _, err := a.session.Register(ctx, name, email, string(password)); err != nil {
		return err
	}

	a.activate(services.ViewDashboard)
	return a.List(ctx)
}

// Login prompts for credentials and, on success, opens the dashboard with
// the user's tasks. A failed login leaves the session untouched.
func (a *App) Login(ctx context.Context) error {
	a.setView(services.ViewLogin)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password: ", a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	if _, err := a.session.Login(ctx, email, string(password)); err != nil {
		a.activate(services.ViewDashboard)
		return err
	}

	a.activate(services.ViewDashboard)
	return a.List(ctx)
}

// Logout drops the session; the backend is told in the background.
func (a *App) Logout(ctx context.Context) error {
	if a.session.CurrentUser() == nil {
		a.println("Not signed in")
		return nil
	}
	a.session.Logout(ctx)
	a.activate(services.ViewDashboard)
	return nil
}

// Whoami prints the current user and whether the access token is still live.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		if a.config.GuestMode {
			a.println("Not signed in (guest mode, tasks are kept locally)")
		} else {
			a.println("Not signed in")
		}
		return nil
	}

	a.println("Name: ", u.Name)
	a.println("Email:", u.Email)
	if p, err := authtoken.Decode(a.session.Token()); err == nil {
		state := "valid"
		if !a.session.IsAuthenticated() {
			state = "expired"
		}
		a.println("Token:", state, "until", p.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new session. A failed
// refresh signs the user out.
func (a *App) Refresh(ctx context.Context) error {
	_, err := a.session.RefreshToken(ctx)
	a.activate(services.ViewDashboard)
	if err != nil {
		return err
	}
	a.println("Session refreshed")
	return nil
}

// Health probes the backend once and updates the connectivity mode.
func (a *App) Health(ctx context.Context) error {
	if !a.checkOnline(ctx) {
		return apperror.New(apperror.ErrUnavailable, "backend is unreachable at "+a.config.ServerBaseURL)
	}
	a.println("Backend is up")
	return nil
}
