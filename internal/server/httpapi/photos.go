package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

func (s *HTTPServer) listPhotos(w http.ResponseWriter, r *http.Request) {
	p, pg, err := listParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.photoPage(w, r, p, pg)
}

func (s *HTTPServer) photoPage(w http.ResponseWriter, r *http.Request, p api.ListParams, pg services.Paging) {
	list, total, err := s.svc.Photos.List(r.Context(), userID(r), p, pg)
	if err == nil {
		err = pg.Check(total)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageOf(r, pg, total, list))
}

func (s *HTTPServer) getPhoto(w http.ResponseWriter, r *http.Request) {
	ph, err := s.svc.Photos.Get(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ph)
}

// createPhoto accepts the same multipart form as uploadPhoto. A JSON body
// carries no image and is rejected field by field.
func (s *HTTPServer) createPhoto(w http.ResponseWriter, r *http.Request) {
	if isMultipart(r) {
		s.uploadPhoto(w, r)
		return
	}
	var in api.PhotoInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.savePhoto(w, r, services.Upload{Input: in})
}

func (s *HTTPServer) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	filename, data, err := readForm(w, r, "image")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := photoForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.savePhoto(w, r, services.Upload{Input: in, Filename: filename, Data: data})
}

func (s *HTTPServer) savePhoto(w http.ResponseWriter, r *http.Request, up services.Upload) {
	ph, err := s.svc.Photos.Upload(r.Context(), userID(r), up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ph)
}

func (s *HTTPServer) updatePhoto(w http.ResponseWriter, r *http.Request) {
	var in api.PhotoInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ph, err := s.svc.Photos.Update(r.Context(), userID(r), mux.Vars(r)["id"], in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ph)
}

func (s *HTTPServer) deletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Photos.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) likePhoto(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Photos.Like(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) unlikePhoto(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Photos.Unlike(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) downloadPhoto(w http.ResponseWriter, r *http.Request) {
	link, err := s.svc.Photos.Download(r.Context(), userID(r), mux.Vars(r)["id"], r.URL.Query().Get("size"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}
