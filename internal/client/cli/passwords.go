package cli

import (
	"context"
	"fmt"
)

// listPasswords shows the stored password items. The vault gate runs
// first; without an unlocked vault nothing is fetched.
func (a *App) listPasswords(ctx context.Context) {
	if !a.openVault(ctx) {
		return
	}

	items, err := a.api.ListPasswords(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No passwords stored.")
		return
	}

	for _, item := range items {
		fmt.Fprintf(a.out, "%s  %-20s %s\n", item.ID, item.Label, item.Password)
	}
}

func (a *App) addPassword(ctx context.Context) {
	if !a.openVault(ctx) {
		return
	}

	label, err := GetSimpleText(a.reader, "Label", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	password, err := GetSimpleText(a.reader, "Password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	color, err := GetSimpleText(a.reader, "Color (e.g. #e63946)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	item, err := a.api.CreatePassword(ctx, label, password, color)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Saved %s (%s)\n", item.Label, item.ID)
}

func (a *App) deletePassword(ctx context.Context) {
	if !a.openVault(ctx) {
		return
	}

	id, err := GetSimpleText(a.reader, "Password ID to delete", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if err := a.api.DeletePassword(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	fmt.Fprintln(a.out, "Deleted.")
}
