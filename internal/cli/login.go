package cli

import (
	"context"
	"fmt"
)

// Login prompts for credentials and exchanges them for a session token.
// The token lives only in memory; restarting the app means logging in again.
func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.session.SetToken(res.Token, res.Name)
	fmt.Fprintf(a.out, "Logged in as %s\n", res.Name)

	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Clear()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
