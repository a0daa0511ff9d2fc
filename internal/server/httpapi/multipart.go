package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

// multipartOverhead leaves room for form fields next to a maximal image.
const multipartOverhead = 1 << 20

func isMultipart(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "multipart/form-data"
}

// readForm parses a multipart request and returns the file in field. A
// missing file yields nil data, oversize uploads a field error.
func readForm(w http.ResponseWriter, r *http.Request, field string) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", nil, services.FieldErrors{field: {"File size cannot exceed 10MB."}}
		}
		return "", nil, &services.BadRequestError{Message: "Multipart form parse error - " + err.Error()}
	}

	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadSize+1))
	if err != nil {
		return "", nil, err
	}
	return hdr.Filename, data, nil
}

// photoForm reads the metadata fields sent next to an uploaded image. Id
// lists arrive JSON-encoded or as repeated fields.
func photoForm(r *http.Request) (api.PhotoInput, error) {
	in := api.PhotoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Medium:      r.FormValue("medium"),
		Year:        r.FormValue("year"),
		Location:    r.FormValue("location"),
	}

	fe := services.FieldErrors{}
	if v := r.FormValue("is_public"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fe["is_public"] = []string{"Must be a valid boolean."}
		}
		in.IsPublic = &b
	}
	for field, dst := range map[string]*[]string{"category_ids": &in.CategoryIDs, "tag_ids": &in.TagIDs} {
		ids, err := formIDs(r.MultipartForm.Value[field])
		if err != nil {
			fe[field] = []string{"Expected a list of items."}
		}
		*dst = ids
	}
	if len(fe) > 0 {
		return in, fe
	}
	return in, nil
}

func formIDs(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var ids []string
		err := json.Unmarshal([]byte(values[0]), &ids)
		return ids, err
	}
	return values, nil
}
