package httputil

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// ReadBody reads the request body, failing with INPUT_TOO_LARGE when it
// exceeds limit bytes. A non-positive limit disables the check.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit > 0 {
		if r.ContentLength > 0 {
			if err := errors.ValidateInputSize(r.ContentLength, limit); err != nil {
				return nil, err
			}
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInputTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

// QueryFloat parses an optional float query parameter. Missing parameters
// yield zero.
func QueryFloat(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a number", name, v)
	}
	return f, nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not an integer", name, v)
	}
	return n, nil
}

// QueryBool parses an optional boolean query parameter. A bare "?name"
// counts as true.
func QueryBool(r *http.Request, name string) (bool, error) {
	q := r.URL.Query()
	if !q.Has(name) {
		return false, nil
	}
	v := q.Get(name)
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
	}
	return b, nil
}
