package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register asks for the account details and creates the account. The new
// account is logged in right away.
func (a *App) Register(ctx context.Context) error {
	var acc client.Account
	var err error

	if acc.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if acc.Password, err = getPassword(a.out); err != nil {
		return err
	}
	defer common.WipeByteArray(acc.Password)

	if acc.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if acc.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if acc.LastName, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}

	if err := a.client.Register(ctx, acc); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", a.client.Username())
	return nil
}

// Login prompts for credentials and replaces the current login on success.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// DropAccount deletes the account after the user retypes the username.
func (a *App) DropAccount(ctx context.Context) error {
	username := a.client.Username()
	if username == "" {
		return client.ErrNotLoggedIn
	}

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("This deletes %s and all notes. Type the username to confirm", username), a.out)
	if err != nil {
		return err
	}
	if confirm != username {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.client.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
