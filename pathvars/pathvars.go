// Package pathvars reads path variables for routers that keep them outside
// the standard library's request patterns. Pass one of the functions to
// paramcheck.WithPathFunc.
package pathvars

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
)

// Std reads variables matched by an http.ServeMux pattern.
func Std(r *http.Request, name string) string {
	return r.PathValue(name)
}

// Chi reads variables matched by a chi router.
func Chi(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// Mux reads variables matched by a gorilla/mux router.
func Mux(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
