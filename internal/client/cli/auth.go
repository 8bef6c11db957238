package cli

import (
	"context"
	"os"
)

// Register prompts for credentials, creates the account, and logs the user in.
func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, username, string(password)); err != nil {
		printlnFn("Registration failed:", err)
		return err
	}
	printlnFn("Account created, logging in...")

	if err := a.api.Login(ctx, username, string(password)); err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	a.userName = username
	return nil
}

// Login prompts for credentials and obtains an access token.
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, username, string(password)); err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	a.userName = username
	printlnFn("Logged in as", username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	printlnFn("Logged out")
	return nil
}
