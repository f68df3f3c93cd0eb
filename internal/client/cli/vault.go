package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkarlovs/cloudvault/internal/common"
	"github.com/dkarlovs/cloudvault/internal/unlock"
	"github.com/dkarlovs/cloudvault/internal/vaultseal"
)

// openVault walks the unlock session until the vault is open or the user
// backs out. A session that reached StateUnlocked earlier in this process
// stays open; closing the program forgets it.
func (a *App) openVault(ctx context.Context) bool {

	if a.vault != nil && a.vault.State() == unlock.StateUnlocked {
		return true
	}

	s := unlock.NewSession(a.sealer, remoteStore{a.api}, remoteGate{a.api})
	if err := s.Open(ctx); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return false
	}

	for {
		switch s.State() {

		case unlock.StateUnlocked:
			a.vault = s
			return true

		case unlock.StateSet:
			if !a.vaultSet(ctx, s) {
				return false
			}

		case unlock.StateUnlock:
			if !a.vaultUnlock(ctx, s) {
				return false
			}

		case unlock.StateConfirmReset:
			if !a.vaultConfirmReset(ctx, s) {
				return false
			}

		default:
			return false
		}
	}
}

// vaultSet runs one round of choosing and storing a new vault secret.
// Returns false when the user aborts.
func (a *App) vaultSet(ctx context.Context, s *unlock.Session) bool {
	kind, err := GetSimpleText(a.reader, "No vault secret set. Choose kind: pin / password (or 'back')", a.out)
	if err != nil {
		return false
	}
	if kind == "back" {
		return false
	}

	if err := s.SelectKind(kind); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return true
	}

	secret, err := GetSimpleText(a.reader, a.secretPrompt(kind, "Choose"), a.out)
	if err != nil {
		return false
	}

	a.enterSecret(s, kind, secret)

	if err := s.SubmitSet(ctx); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return true
	}

	fmt.Fprintln(a.out, "Vault secret saved.")
	return true
}

// vaultUnlock runs one unlock attempt. Returns false when the user aborts.
func (a *App) vaultUnlock(ctx context.Context, s *unlock.Session) bool {
	kind := s.SecretKind()

	secret, err := GetSimpleText(a.reader, a.secretPrompt(kind, "Enter")+" (or 'reset' / 'back')", a.out)
	if err != nil {
		return false
	}

	switch secret {
	case "back":
		return false
	case "reset":
		if err := s.BeginReset(); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		return true
	}

	a.enterSecret(s, kind, secret)

	if err := s.SubmitUnlock(ctx); err != nil {
		if errors.Is(err, common.ErrorCredentialMismatch) {
			fmt.Fprintln(a.out, "Incorrect, try again.")
		} else {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
	return true
}

// vaultConfirmReset asks for the account password to authorize wiping the
// vault secret. Returns false when the user aborts.
func (a *App) vaultConfirmReset(ctx context.Context, s *unlock.Session) bool {
	pw, err := GetSimpleText(a.reader, "Enter your account password to reset the vault secret (or 'cancel')", a.out)
	if err != nil {
		return false
	}
	if pw == "cancel" {
		if err := s.CancelReset(); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		return true
	}

	s.EnterConfirmReset(pw)

	if err := s.SubmitReset(ctx); err != nil {
		if errors.Is(err, common.ErrorWrongCredential) {
			fmt.Fprintln(a.out, "Wrong account password, try again.")
		} else {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		return true
	}

	fmt.Fprintln(a.out, "Vault secret cleared. Choose a new one.")
	return true
}

func (a *App) secretPrompt(kind, verb string) string {
	if kind == vaultseal.KindPIN {
		return verb + " vault PIN (4 digits)"
	}
	return verb + " vault password"
}

func (a *App) enterSecret(s *unlock.Session, kind, secret string) {
	if kind == vaultseal.KindPIN {
		s.EnterPIN(secret)
	} else {
		s.EnterPassword(secret)
	}
}
