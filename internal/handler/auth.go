package handler

import (
	"net/http"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/middleware"
	"github.com/pkordes/globetrotter/backend/internal/service"
)

var userErrs = errMessages{notFound: "user not found", conflict: "email already registered"}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1"`
	Avatar *string `json:"avatar"`
}

// Signup handles POST /auth/signup. A taken email is a 400.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var body signupRequest
	if !decodeBody(w, r, &body) {
		return
	}
	session, err := s.auth.Signup(r.Context(), service.SignupInput{
		Email:    body.Email,
		Name:     body.Name,
		Password: body.Password,
	})
	if err != nil {
		s.handleError(w, r, err, userErrs)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	session, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.handleError(w, r, err, userErrs)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		s.handleError(w, r, err, userErrs)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /auth/profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if !decodeBody(w, r, &body) {
		return
	}
	user, err := s.auth.UpdateProfile(r.Context(), middleware.UserID(r.Context()), domain.ProfileUpdate{
		Name:   body.Name,
		Avatar: body.Avatar,
	})
	if err != nil {
		s.handleError(w, r, err, userErrs)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
