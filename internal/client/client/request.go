package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/artfolio/internal/common"
)

// Query holds query parameters. Values are stringified with fmt.Sprint,
// slices expand to repeated keys and nil values are dropped.
type Query map[string]any

// Request describes one logical API call.
type Request struct {
	Method   string
	Endpoint string
	Query    Query

	// Body is JSON-encoded unless it is a *Multipart.
	Body any

	// Header entries override the computed ones.
	Header http.Header

	// Timeout and MaxRetries override the client defaults when set.
	Timeout    time.Duration
	MaxRetries *int
}

// RequestOption adjusts a Request built by the verb helpers.
type RequestOption func(*Request)

func WithTimeout(d time.Duration) RequestOption {
	return func(r *Request) { r.Timeout = d }
}

func WithMaxRetries(n int) RequestOption {
	return func(r *Request) { r.MaxRetries = &n }
}

func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

func WithQuery(q Query) RequestOption {
	return func(r *Request) { r.Query = q }
}

// FilePart is one file of a multipart body.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// Multipart is a multipart/form-data body. The boundary, and therefore the
// Content-Type, is chosen when the body is encoded for the wire.
type Multipart struct {
	Fields map[string]string
	Files  []FilePart
}

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		ct := mime.TypeByExtension(filepath.Ext(f.Filename))
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func isMultipart(body any) bool {
	_, ok := body.(*Multipart)
	return ok
}

type encodedBody struct {
	data        []byte
	contentType string
}

func encodeBody(body any) (*encodedBody, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case *Multipart:
		data, ct, err := b.encode()
		if err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
		return &encodedBody{data: data, contentType: ct}, nil
	case json.RawMessage:
		return &encodedBody{data: b}, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		return &encodedBody{data: data}, nil
	}
}

// buildURL joins base and endpoint and appends the non-nil query values.
func buildURL(base, endpoint string, q Query) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	values := u.Query()
	for k, v := range q {
		if isNil(v) {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			rv = rv.Elem()
			v = rv.Interface()
		}
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				values.Add(k, fmt.Sprint(rv.Index(i).Interface()))
			}
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}
	u.RawQuery = values.Encode()

	return u.String(), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// buildHeaders computes the headers of r. Content-Type is JSON unless the
// body is multipart, in which case it is left to the encoder.
func buildHeaders(r *Request, token, requestID string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	if !isMultipart(r.Body) {
		h.Set("Content-Type", "application/json")
	}
	if token != "" {
		h.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	if requestID != "" {
		h.Set(common.RequestIDHeader, requestID)
	}

	for k, vs := range r.Header {
		h[textproto.CanonicalMIMEHeaderKey(k)] = append([]string(nil), vs...)
	}
	return h
}
