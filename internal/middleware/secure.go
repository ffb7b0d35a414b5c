package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders sets conservative response headers for a JSON API.
func SecureHeaders(next http.Handler) http.Handler {
	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
	})
	return s.Handler(next)
}
