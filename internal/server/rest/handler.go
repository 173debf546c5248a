package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Divert12/divert-ai-crew/internal/common"
	"github.com/Divert12/divert-ai-crew/internal/server/services"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeValidation(w, validationItem{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
		return false
	}
	return true
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			writeValidation(w, validationItem{Loc: []string{"body", ve.Field}, Msg: ve.Message, Type: "value_error"})
		case errors.Is(err, services.ErrUsernameTaken):
			writeDetail(w, http.StatusBadRequest, "Username already registered")
		case errors.Is(err, services.ErrEmailTaken):
			writeDetail(w, http.StatusBadRequest, "Email already registered")
		default:
			s.logger.Error(r.Context(), "registration failed", "username", req.Username, "error", err)
			writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.Username)
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeUnauthorized(w, "Incorrect username or password")
			return
		}
		s.logger.Error(r.Context(), "login failed", "username", req.Username, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   common.TokenType,
		User:        toUserShort(sess.User),
	})
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, toUserShort(user))
}

func (s *HTTPServer) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
