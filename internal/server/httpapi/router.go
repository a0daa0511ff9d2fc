package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/artfolio/internal/server/media"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
)

// handle registers h for path with and without a trailing slash, since the
// client uses both forms.
func handle(r *mux.Router, path string, h http.HandlerFunc, methods ...string) {
	r.HandleFunc(path, h).Methods(methods...)
	r.HandleFunc(path+"/", h).Methods(methods...)
}

func (s *HTTPServer) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)
	r.NotFoundHandler = s.requestLogger(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = s.requestLogger(http.HandlerFunc(methodNotAllowed))

	if s.media != nil {
		r.PathPrefix(media.MediaPrefix).HandlerFunc(s.serveMedia).Methods(http.MethodGet, http.MethodHead)
	}

	// token endpoints tolerate a stale bearer header
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(s.authenticate(false))
	handle(authAPI, "/register", s.register, http.MethodPost)
	handle(authAPI, "/login", s.login, http.MethodPost)
	handle(authAPI, "/refresh-token", s.refreshToken, http.MethodPost)
	handle(authAPI, "/logout", s.logout, http.MethodPost)
	handle(authAPI, "/forgot-password", s.forgotPassword, http.MethodPost)
	handle(authAPI, "/reset-password", s.resetPassword, http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate(true))

	handle(api, "/users/profile", requireAuth(s.profile), http.MethodGet)
	handle(api, "/users/profile", requireAuth(s.updateProfile), http.MethodPut, http.MethodPatch)
	handle(api, "/users/avatar", requireAuth(s.uploadAvatar), http.MethodPost, http.MethodPut)
	handle(api, "/users/{id}/follow", requireAuth(s.follow), http.MethodPost)
	handle(api, "/users/{id}/follow", requireAuth(s.unfollow), http.MethodDelete)
	handle(api, "/users/{id}/followers", s.followers, http.MethodGet)
	handle(api, "/users/{id}/following", s.following, http.MethodGet)

	// upload must win over /photos/{id}
	handle(api, "/photos/upload", requireAuth(s.uploadPhoto), http.MethodPost)
	handle(api, "/photos", s.listPhotos, http.MethodGet)
	handle(api, "/photos", requireAuth(s.createPhoto), http.MethodPost)
	handle(api, "/photos/{id}", s.getPhoto, http.MethodGet)
	handle(api, "/photos/{id}", requireAuth(s.updatePhoto), http.MethodPut, http.MethodPatch)
	handle(api, "/photos/{id}", requireAuth(s.deletePhoto), http.MethodDelete)
	handle(api, "/photos/{id}/like", requireAuth(s.likePhoto), http.MethodPost)
	handle(api, "/photos/{id}/like", requireAuth(s.unlikePhoto), http.MethodDelete)
	handle(api, "/photos/{id}/unlike", requireAuth(s.unlikePhoto), http.MethodDelete)
	handle(api, "/photos/{id}/download", s.downloadPhoto, http.MethodGet)

	handle(api, "/collections", s.listCollections, http.MethodGet)
	handle(api, "/collections", requireAuth(s.createCollection), http.MethodPost)
	handle(api, "/collections/{id}", s.getCollection, http.MethodGet)
	handle(api, "/collections/{id}", requireAuth(s.updateCollection), http.MethodPut, http.MethodPatch)
	handle(api, "/collections/{id}", requireAuth(s.deleteCollection), http.MethodDelete)
	handle(api, "/collections/{id}/like", requireAuth(s.likeCollection), http.MethodPost)
	handle(api, "/collections/{id}/like", requireAuth(s.unlikeCollection), http.MethodDelete)
	handle(api, "/collections/{id}/unlike", requireAuth(s.unlikeCollection), http.MethodDelete)
	handle(api, "/collections/{id}/photos", requireAuth(s.addCollectionPhoto), http.MethodPost)
	handle(api, "/collections/{id}/photos/{photo_id}", requireAuth(s.removeCollectionPhoto), http.MethodDelete)
	handle(api, "/collections/{id}/add_photo", requireAuth(s.addCollectionPhoto), http.MethodPost)
	handle(api, "/collections/{id}/remove_photo", requireAuth(s.removeCollectionPhoto), http.MethodPost)

	for _, th := range []termHandlers{
		{s: s, svc: s.svc.Categories, root: "/categories", kind: models.KindCategory},
		{s: s, svc: s.svc.Tags, root: "/tags", kind: models.KindTag},
	} {
		root := th.root
		handle(api, root, th.list, http.MethodGet)
		handle(api, root, requireAuth(th.create), http.MethodPost)
		handle(api, root+"/{id}", th.get, http.MethodGet)
		handle(api, root+"/{id}", requireAuth(th.update), http.MethodPut, http.MethodPatch)
		handle(api, root+"/{id}", requireAuth(th.delete), http.MethodDelete)
		handle(api, root+"/{id}/photos", th.photos, http.MethodGet)
	}

	return r
}
