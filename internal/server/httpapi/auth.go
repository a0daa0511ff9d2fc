package httpapi

import (
	"net/http"

	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.svc.Users.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.svc.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req api.TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Refresh == "" {
		s.writeError(w, r, services.FieldErrors{"refresh": {"This field is required."}})
		return
	}
	pair, err := s.svc.Users.RefreshToken(r.Context(), req.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.TokenResponse{Token: pair.AccessToken, Refresh: pair.RefreshToken})
}

// logout answers 205 Reset Content. The refresh token alone is enough, so a
// client whose access token already expired can still sign out.
func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	var req api.TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Users.Logout(r.Context(), userID(r), req.Refresh); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusResetContent, "Logout successful")
}

func (s *HTTPServer) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Users.ForgotPassword(r.Context(), req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "If an account with this email exists, a password reset link has been sent.")
}

func (s *HTTPServer) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password has been reset successfully.")
}
