package rest

import (
	"net/http"
)

type vaultCredentialResponse struct {
	SecretKind string `json:"secret_kind"`
	CipherText string `json:"cipher_text"`
}

// getVaultCredential returns the user's sealed vault credential, or 404
// when none was ever stored. A row with an empty cipher text still comes
// back 200: the secret was reset, not the record.
func (s *RESTServer) getVaultCredential(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	cred, err := s.vault.Get(r.Context(), userID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, vaultCredentialResponse{
		SecretKind: cred.SecretKind,
		CipherText: cred.CipherText,
	})
}

type setVaultCredentialRequest struct {
	SecretKind string `json:"secret_kind" validate:"required"`
	CipherText string `json:"cipher_text"`
}

// setVaultCredential overwrites the user's sealed credential. Concurrent
// writers race as last-writer-wins; the row is unique per user.
func (s *RESTServer) setVaultCredential(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req setVaultCredentialRequest
	if !readJSON(rw, r, &req) {
		return
	}

	if err := s.vault.Set(r.Context(), userID, req.SecretKind, req.CipherText); err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, Response{Message: "OK"})
}
