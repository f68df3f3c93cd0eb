// Package unlock implements the client-held state machine that gates access
// to the vault. A Session is constructed when the vault view opens and
// discarded when it closes; it owns the current state and the transient
// input buffers, and talks to the credential store and the reset gate
// through narrow interfaces.
package unlock

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"

	"github.com/dkarlovs/cloudvault/internal/common"
	"github.com/dkarlovs/cloudvault/internal/vaultseal"
)

// State enumerates the session states.
type State int

const (
	// StateClosed is the zero value: the vault view is not open.
	StateClosed State = iota
	// StateSet: no credential exists yet; the user is choosing one.
	StateSet
	// StateUnlock: a credential exists and the vault is locked.
	StateUnlock
	// StateUnlocked: terminal for the session; vault contents visible.
	StateUnlocked
	// StateConfirmReset: the user is proving control of the primary
	// account before the vault secret is cleared.
	StateConfirmReset
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateSet:
		return "set"
	case StateUnlock:
		return "unlock"
	case StateUnlocked:
		return "unlocked"
	case StateConfirmReset:
		return "confirm-reset"
	default:
		return "unknown"
	}
}

// Credential is the stored form of a vault-unlock secret.
// An empty CipherText means "not set".
type Credential struct {
	SecretKind string
	CipherText string
}

// CredentialStore persists exactly one credential for the current user.
// Get returns common.ErrorNotFound when no credential exists.
type CredentialStore interface {
	Get(ctx context.Context) (*Credential, error)
	Put(ctx context.Context, secretKind, cipherText string) error
}

// ResetGate verifies the user's primary account credential. It returns
// common.ErrorWrongCredential when the candidate does not match and any
// other error for system failures.
type ResetGate interface {
	VerifyPrimaryCredential(ctx context.Context, candidate string) error
}

// ErrInvalidTransition is returned when an event is not legal in the
// session's current state.
var ErrInvalidTransition = errors.New("invalid transition")

// Shape constraints on the vault secret.
var (
	ErrPINFormat        = fmt.Errorf("%w: PIN must be exactly 4 digits", common.ErrorValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least 4 characters", common.ErrorValidation)
	ErrUnknownKind      = fmt.Errorf("%w: unknown secret kind", common.ErrorValidation)
)

var pinShape = regexp.MustCompile(`^[0-9]{4}$`)

// ValidateSecret checks a candidate secret against the shape constraint
// of the given kind.
func ValidateSecret(kind, secret string) error {
	switch kind {
	case vaultseal.KindPIN:
		if !pinShape.MatchString(secret) {
			return ErrPINFormat
		}
	case vaultseal.KindPassword:
		if len(secret) < 4 {
			return ErrPasswordTooShort
		}
	default:
		return ErrUnknownKind
	}
	return nil
}

// Session is one open vault view. Not safe for concurrent use; a view is
// driven by a single user.
type Session struct {
	state      State
	secretKind string

	sealer *vaultseal.Sealer
	store  CredentialStore
	gate   ResetGate

	// transient input buffers, wiped on every successful transition
	pin          string
	password     string
	confirmReset string
}

// NewSession returns a closed session. Call Open to enter the flow.
func NewSession(sealer *vaultseal.Sealer, store CredentialStore, gate ResetGate) *Session {
	return &Session{
		sealer:     sealer,
		store:      store,
		gate:       gate,
		secretKind: vaultseal.KindPIN,
	}
}

// State reports the current session state.
func (s *Session) State() State { return s.state }

// SecretKind reports the kind currently selected (in StateSet) or stored
// (in StateUnlock and later).
func (s *Session) SecretKind() string { return s.secretKind }

func (s *Session) wipeBuffers() {
	s.pin = ""
	s.password = ""
	s.confirmReset = ""
}

// Open fetches the stored credential and enters StateSet when none exists
// (absent row or empty ciphertext) or StateUnlock otherwise, pre-loading
// the stored secret kind. On a store failure the session stays closed.
func (s *Session) Open(ctx context.Context) error {
	if s.state != StateClosed {
		return ErrInvalidTransition
	}

	s.wipeBuffers()

	cred, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.state = StateSet
			s.secretKind = vaultseal.KindPIN
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if cred.CipherText == "" {
		s.state = StateSet
		s.secretKind = vaultseal.KindPIN
		return nil
	}

	s.state = StateUnlock
	s.secretKind = cred.SecretKind
	return nil
}

// SelectKind chooses the secret kind while setting up a new credential.
func (s *Session) SelectKind(kind string) error {
	if s.state != StateSet {
		return ErrInvalidTransition
	}
	if kind != vaultseal.KindPIN && kind != vaultseal.KindPassword {
		return ErrUnknownKind
	}
	s.secretKind = kind
	return nil
}

// EnterPIN stores keyboard input into the PIN buffer.
func (s *Session) EnterPIN(v string) { s.pin = v }

// EnterPassword stores keyboard input into the password buffer.
func (s *Session) EnterPassword(v string) { s.password = v }

// EnterConfirmReset stores keyboard input into the reset-confirmation buffer.
func (s *Session) EnterConfirmReset(v string) { s.confirmReset = v }

func (s *Session) secretBuffer() string {
	if s.secretKind == vaultseal.KindPIN {
		return s.pin
	}
	return s.password
}

// SubmitSet validates the buffered secret, seals it, and writes it to the
// store. On success the session moves to StateUnlock with buffers cleared.
// A validation failure keeps the state and buffers untouched so the user
// can correct the input; a store failure keeps them too.
func (s *Session) SubmitSet(ctx context.Context) error {
	if s.state != StateSet {
		return ErrInvalidTransition
	}

	secret := s.secretBuffer()
	if err := ValidateSecret(s.secretKind, secret); err != nil {
		return err
	}

	sealed, err := s.sealer.Seal(vaultseal.Payload{SecretKind: s.secretKind, Secret: secret})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.store.Put(ctx, s.secretKind, sealed); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.state = StateUnlock
	s.wipeBuffers()
	return nil
}

// SubmitUnlock compares the buffered candidate against the stored secret.
// Any failure to produce a stored plaintext (absent credential, blob sealed
// under another key, tampered blob) is reported exactly like a mismatch, and
// the buffers are cleared either way. On a match the session becomes
// StateUnlocked.
func (s *Session) SubmitUnlock(ctx context.Context) error {
	if s.state != StateUnlock {
		return ErrInvalidTransition
	}

	candidate := s.secretBuffer()

	cred, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// credential was reset from another session
			s.wipeBuffers()
			return common.ErrorCredentialMismatch
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	payload := s.sealer.Open(cred.CipherText)
	if payload == nil {
		s.wipeBuffers()
		return common.ErrorCredentialMismatch
	}

	if subtle.ConstantTimeCompare([]byte(payload.Secret), []byte(candidate)) != 1 {
		s.wipeBuffers()
		return common.ErrorCredentialMismatch
	}

	s.state = StateUnlocked
	s.wipeBuffers()
	return nil
}

// BeginReset moves from StateUnlock to StateConfirmReset.
func (s *Session) BeginReset() error {
	if s.state != StateUnlock {
		return ErrInvalidTransition
	}
	s.state = StateConfirmReset
	s.confirmReset = ""
	return nil
}

// SubmitReset verifies the buffered primary account credential through the
// reset gate. On success the stored credential is overwritten with an empty
// ciphertext and the session returns to StateSet. A wrong credential clears
// the confirmation buffer and stays in StateConfirmReset so the user may
// retry; a gate or store failure leaves everything untouched.
func (s *Session) SubmitReset(ctx context.Context) error {
	if s.state != StateConfirmReset {
		return ErrInvalidTransition
	}

	if err := s.gate.VerifyPrimaryCredential(ctx, s.confirmReset); err != nil {
		if errors.Is(err, common.ErrorWrongCredential) {
			s.confirmReset = ""
			return common.ErrorWrongCredential
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.store.Put(ctx, vaultseal.KindPIN, ""); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.state = StateSet
	s.secretKind = vaultseal.KindPIN
	s.wipeBuffers()
	return nil
}

// CancelReset abandons the reset and returns to StateUnlock with the
// confirmation buffer cleared.
func (s *Session) CancelReset() error {
	if s.state != StateConfirmReset {
		return ErrInvalidTransition
	}
	s.confirmReset = ""
	s.state = StateUnlock
	return nil
}

// Close discards all input buffers and closes the view. Legal in every
// state; a session that was not unlocked stays locked for the next open.
func (s *Session) Close() {
	s.wipeBuffers()
	s.state = StateClosed
}
