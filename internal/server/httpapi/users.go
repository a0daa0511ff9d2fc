package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

func (s *HTTPServer) profile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Users.Profile(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	var upd api.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Users.UpdateProfile(r.Context(), userID(r), upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		s.writeError(w, r, services.FieldErrors{"profile_picture": {"No file was submitted."}})
		return
	}
	_, data, err := readForm(w, r, "profile_picture")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Users.SetAvatar(r.Context(), userID(r), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) follow(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Users.Follow(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "You are now following this user.")
}

func (s *HTTPServer) unfollow(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Users.Unfollow(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) followers(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Users.Followers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *HTTPServer) following(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Users.Following(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
