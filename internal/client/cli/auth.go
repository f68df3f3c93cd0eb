package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkarlovs/cloudvault/internal/common"
)

func (a *App) Register(ctx context.Context) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	password, err := GetPassword("Choose password (min 8 characters)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, userName, password); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			fmt.Fprintln(a.out, "Username already taken.")
		} else {
			fmt.Fprintf(a.out, "Registration unsuccessful: %v\n", err)
		}
		return
	}

	fmt.Fprintln(a.out, "Registered. You can log in now.")
}

func (a *App) Login(ctx context.Context) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			fmt.Fprintln(a.out, "Login unsuccessful: wrong username or password.")
		} else {
			fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		}
		return
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful.")
}

func (a *App) Logout(ctx context.Context) {
	a.api.Logout()
	a.userName = ""
	a.vault = nil
	fmt.Fprintln(a.out, "Logged out.")
}
