package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// ErrorBody is the JSON envelope for failed requests.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteBytes writes a pre-encoded body with the given content type.
func WriteBytes(w http.ResponseWriter, status int, contentType string, body []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// WriteError writes err as an [ErrorBody] and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	body := ErrorBody{Code: string(code), Message: errors.Detail(err)}
	if code == "" || code == errors.ErrCodeInternal {
		body.Code = string(errors.ErrCodeInternal)
		body.Message = http.StatusText(status)
	}
	_ = WriteJSON(w, status, body)
	return status
}
