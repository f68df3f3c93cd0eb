// Package vaultseal implements the symmetric sealing of vault-unlock secrets.
//
// A payload of the form {secret_kind, secret} is serialized to JSON and
// encrypted with AES-GCM. The key is process-wide: every user's blob is
// sealed under the same key, derived once from the configured secret string.
// Opening is fail-closed: malformed input, a wrong key, or non-JSON plaintext
// all yield nil rather than an error the caller could mistake for state.
package vaultseal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
)

// Secret kinds accepted by the vault.
const (
	KindPIN      = "pin"
	KindPassword = "password"
)

const nonceSize = 12

// Payload is the ephemeral plaintext form of a vault-unlock secret.
// It only ever exists in memory; at rest it is represented by the
// sealed string produced by Seal.
type Payload struct {
	SecretKind string `json:"secret_kind"`
	Secret     string `json:"secret"`
}

// Sealer encrypts and decrypts vault payloads under a single shared key.
type Sealer struct {
	key []byte
}

// New derives a 256-bit AES key from the configured secret string.
func New(secret string) *Sealer {
	key := sha256.Sum256([]byte(secret))
	return &Sealer{key: key[:]}
}

// Seal serializes p to JSON and encrypts it with AES-GCM under a fresh
// random nonce. The nonce is prepended to the ciphertext and the whole
// blob is base64-encoded, so two calls with the same payload produce
// different strings that both open to the same payload.
func (s *Sealer) Seal(p Payload) (string, error) {
	plaintext, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a string produced by Seal and returns the payload, or nil
// if the blob is malformed, was sealed under a different key, was tampered
// with, or does not contain valid JSON. Callers must treat nil exactly like
// a mismatched secret.
func (s *Sealer) Open(cipherText string) *Payload {
	raw, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil || len(raw) <= nonceSize {
		return nil
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil
	}

	p := &Payload{}
	if err := json.Unmarshal(plaintext, p); err != nil {
		return nil
	}

	return p
}
