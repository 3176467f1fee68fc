package httpapi

import (
	"net/http"
	"strings"
)

// DefaultSubjectHeader carries the member subject set by the identity front end.
const DefaultSubjectHeader = "X-Member-Subject"

// NewSubjectMiddleware stores the request subject in context.
//
// The subject comes from header (DefaultSubjectHeader when empty); if the header is
// absent it falls back to defaultSubject. Requests with neither continue anonymously
// and the handlers decide whether that is allowed.
//
// The header is trusted as-is: deploy behind a proxy that strips it from client requests.
func NewSubjectMiddleware(header string, defaultSubject string) func(http.Handler) http.Handler {
	if strings.TrimSpace(header) == "" {
		header = DefaultSubjectHeader
	}
	defaultSubject = strings.TrimSpace(defaultSubject)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := strings.TrimSpace(r.Header.Get(header))
			if sub == "" {
				sub = defaultSubject
			}
			if sub == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}
