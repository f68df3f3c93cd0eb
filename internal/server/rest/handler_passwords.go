package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkarlovs/cloudvault/internal/server/passwords"
)

type passwordItemRequest struct {
	Label    string `json:"label" validate:"required"`
	Password string `json:"password" validate:"required"`
	Color    string `json:"color" validate:"required"`
}

type passwordItemResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Password string `json:"password"`
	Color    string `json:"color"`
}

func toPasswordItemResponse(item *passwords.Item) passwordItemResponse {
	return passwordItemResponse{
		ID:       item.ID,
		Label:    item.Label,
		Password: item.Password,
		Color:    item.Color,
	}
}

func (s *RESTServer) listPasswords(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	items, err := s.passwords.List(r.Context(), userID)
	if err != nil {
		writeError(rw, err)
		return
	}

	result := make([]passwordItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toPasswordItemResponse(item))
	}

	writeJSON(rw, http.StatusOK, result)
}

func (s *RESTServer) getPassword(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	item, err := s.passwords.Get(r.Context(), userID, chi.URLParam(r, "passwordID"))
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, toPasswordItemResponse(item))
}

func (s *RESTServer) createPassword(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req passwordItemRequest
	if !readJSON(rw, r, &req) {
		return
	}

	item, err := s.passwords.Create(r.Context(), userID, req.Label, req.Password, req.Color)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusCreated, toPasswordItemResponse(item))
}

func (s *RESTServer) updatePassword(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req passwordItemRequest
	if !readJSON(rw, r, &req) {
		return
	}

	item, err := s.passwords.Update(r.Context(), userID, chi.URLParam(r, "passwordID"), req.Label, req.Password, req.Color)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, toPasswordItemResponse(item))
}

func (s *RESTServer) deletePassword(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	if err := s.passwords.Delete(r.Context(), userID, chi.URLParam(r, "passwordID")); err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, Response{Message: "OK"})
}
