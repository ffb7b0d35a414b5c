package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

var (
	errMissingBody = errors.New("missing JSON body")
	errInvalidBody = errors.New("invalid JSON body")
)

const (
	msgMissingBody   = "Missing JSON body"
	msgInvalidBody   = "Invalid JSON body"
	msgInternalError = "Internal server error"
)

// decodeObject reads a JSON object body into dst and returns how many keys it
// carried. An empty body or a literal null yields errMissingBody.
func decodeObject(w http.ResponseWriter, r *http.Request, dst any) (int, error) {
	if r.Body == nil {
		return 0, errMissingBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return 0, errInvalidBody
	}
	if len(body) == 0 {
		return 0, errMissingBody
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return 0, errInvalidBody
	}
	if fields == nil {
		return 0, errMissingBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return 0, errInvalidBody
	}
	return len(fields), nil
}

func bodyErrorMessage(err error) string {
	if errors.Is(err, errMissingBody) {
		return msgMissingBody
	}
	return msgInvalidBody
}

// accountParam returns the decoded {account} path segment. chi matches on the
// raw path when the request carries escaped characters.
func accountParam(r *http.Request) (string, error) {
	value := chi.URLParam(r, "account")
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}
