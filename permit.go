package paramcheck

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// Permission is one access check of an endpoint.
type Permission struct {
	// Before runs ahead of Allow, typically to load objects into values.
	Before func(r *http.Request, values Values)
	// Allow decides whether the request may proceed.
	Allow func(r *http.Request, values Values) (bool, error)
	// Reason is reported when Allow refuses the request.
	Reason string
}

// Permit returns middleware that evaluates perms in order. The first
// permission that refuses, fails or panics stops the request with 403 and
// its Reason. Values checked by an enclosing Set.Guard are passed to every
// permission and may be modified by them.
func Permit(perms []Permission, opts ...Option) func(http.Handler) http.Handler {
	cfg := newConfig(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			values := FromContext(r.Context())
			for i, p := range perms {
				ok, err := allow(cfg.logger, i, p, r, values)
				if ok {
					continue
				}
				cfg.logger.Debug("permission refused", "permission", i, "reason", p.Reason, "error", err)
				cfg.responder.Respond(w, r, http.StatusForbidden, &Result{
					Status: http.StatusForbidden,
					Msg:    p.Reason,
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), values)))
		})
	}
}

func allow(log Logger, i int, p Permission, r *http.Request, values Values) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("permission panicked", "permission", i, "panic", rec, "stack", string(debug.Stack()))
			ok, err = false, fmt.Errorf("permission panicked: %v", rec)
		}
	}()
	if p.Before != nil {
		p.Before(r, values)
	}
	if p.Allow == nil {
		return true, nil
	}
	return p.Allow(r, values)
}
