package middleware

import (
	"net/http"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		if is {
			w.Header().Add("Vary", "HX-Request")
		}
		ctx := WithHTMX(r.Context(), is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HXTarget returns the id of the element htmx will swap, without the leading '#'.
func HXTarget(r *http.Request) string {
	t := r.Header.Get("HX-Target")
	if len(t) > 0 && t[0] == '#' {
		return t[1:]
	}
	return t
}
