package rest

import (
	"net/http"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (s *RESTServer) register(rw http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !readJSON(rw, r, &req) {
		return
	}

	s.logger.Info(r.Context(), "Registration request", "username", req.Username)

	user, err := s.users.Register(r.Context(), req.Username, []byte(req.Password))
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(rw, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Username)
	writeJSON(rw, http.StatusCreated, registerResponse{ID: user.ID, Username: user.UserName})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *RESTServer) login(rw http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readJSON(rw, r, &req) {
		return
	}

	tokens, err := s.users.Login(r.Context(), req.Username, []byte(req.Password))
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, loginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// refreshToken redeems a refresh token for a new token pair. The presented
// token is consumed; an expired or unknown one answers 401.
func (s *RESTServer) refreshToken(rw http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !readJSON(rw, r, &req) {
		return
	}

	tokens, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, loginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type verifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// verifyPassword re-checks the account password of the logged-in user.
// Wrong password answers 403, so clients can tell a bad credential from
// an expired session.
func (s *RESTServer) verifyPassword(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req verifyPasswordRequest
	if !readJSON(rw, r, &req) {
		return
	}

	if err := s.users.VerifyPassword(r.Context(), userID, []byte(req.Password)); err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, Response{Message: "OK"})
}
