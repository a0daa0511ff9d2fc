package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	api "github.com/dmitrijs2005/artfolio/internal/models"
)

func (s *HTTPServer) listCollections(w http.ResponseWriter, r *http.Request) {
	p, pg, err := listParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, total, err := s.svc.Collections.List(r.Context(), userID(r), p, pg)
	if err == nil {
		err = pg.Check(total)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageOf(r, pg, total, list))
}

func (s *HTTPServer) getCollection(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Collections.Get(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *HTTPServer) createCollection(w http.ResponseWriter, r *http.Request) {
	var in api.CollectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.Collections.Create(r.Context(), userID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *HTTPServer) updateCollection(w http.ResponseWriter, r *http.Request) {
	var in api.CollectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.Collections.Update(r.Context(), userID(r), mux.Vars(r)["id"], in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *HTTPServer) deleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Collections.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) likeCollection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Collections.Like(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) unlikeCollection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Collections.Unlike(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) addCollectionPhoto(w http.ResponseWriter, r *http.Request) {
	var req api.AddPhotoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.Collections.AddPhoto(r.Context(), userID(r), mux.Vars(r)["id"], req.PhotoID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// removeCollectionPhoto takes the photo from the path, or from a
// {"photo_id"} body on the remove_photo action.
func (s *HTTPServer) removeCollectionPhoto(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	photoID := vars["photo_id"]
	if photoID == "" {
		var req api.AddPhotoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		photoID = req.PhotoID
	}
	if photoID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Photo ID is required"})
		return
	}
	if err := s.svc.Collections.RemovePhoto(r.Context(), userID(r), vars["id"], photoID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
