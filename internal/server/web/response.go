package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/guard"
)

const maxBodyBytes = 1 << 20

var (
	errMalformedBody = errors.New("malformed request body")
	errBodyTooLarge  = errors.New("request body exceeds 1 MiB")
)

type errorResponse struct {
	Error    string              `json:"error"`
	Fields   map[string][]string `json:"fields,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

type redirectResponse struct {
	Redirect    string `json:"redirect"`
	AccessToken string `json:"access_token,omitempty"`
	CSRFToken   string `json:"csrf_token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func redirect(w http.ResponseWriter, location string, body redirectResponse) {
	body.Redirect = location
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusSeeOther, body)
}

// writeError is the single place where service errors become HTTP responses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if location, ok := guard.RedirectOf(err); ok {
		w.Header().Set("Location", location)
		writeJSON(w, http.StatusSeeOther, errorResponse{Error: err.Error(), Redirect: location})
		return
	}

	var status int
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAntiForgery), errors.Is(err, errMalformedBody):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrorExportDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errBodyTooLarge):
		status = http.StatusRequestEntityTooLarge
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
		return
	}

	resp := errorResponse{Error: err.Error(), Fields: common.FieldsOf(err)}
	var fe *common.FieldError
	if errors.As(err, &fe) {
		resp.Error = fe.Kind.Error()
	}
	writeJSON(w, status, resp)
}

// readForm returns the submitted fields of a form-encoded or JSON body.
// Only the first value of a repeated form field is kept.
func readForm(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		form := map[string]string{}
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil && !errors.Is(err, io.EOF) {
			return nil, bodyError(err)
		}
		return form, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, bodyError(err)
	}
	form := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			form[k] = v[0]
		}
	}
	return form, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errMalformedBody
}

func csrfToken(r *http.Request, form map[string]string) string {
	if t := r.Header.Get(csrfHeader); t != "" {
		return t
	}
	return form[csrfField]
}
