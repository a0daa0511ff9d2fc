package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

// termHandlers serves one taxonomy, categories or tags, mounted at root.
type termHandlers struct {
	s    *HTTPServer
	svc  *services.TermService
	root string
	kind string
}

// list answers with a plain array; taxonomies are small and unpaginated.
func (h termHandlers) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h termHandlers) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h termHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in api.TermInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.s.writeError(w, r, err)
		return
	}
	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h termHandlers) update(w http.ResponseWriter, r *http.Request) {
	var in api.TermInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.s.writeError(w, r, err)
		return
	}
	t, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h termHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// photos pages through the photos filed under the term.
func (h termHandlers) photos(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	p, pg, err := listParams(r)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	if h.kind == models.KindCategory {
		p.Category = t.ID
	} else {
		p.Tag = t.ID
	}
	h.s.photoPage(w, r, p, pg)
}
