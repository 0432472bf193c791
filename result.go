package paramcheck

import (
	"encoding/json"
	"net/http"
)

// FieldError is one rejected parameter.
type FieldError struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is the body of a 400 or 403 response.
type Result struct {
	// Status is the HTTP status the result is written with.
	Status int `json:"-"`
	// Errors lists every rejected parameter of a 400 response.
	Errors []FieldError `json:"errors,omitempty"`
	// Name is the endpoint title or the denied parameter.
	Name string `json:"name,omitempty"`
	// Msg summarises the failure.
	Msg string `json:"msg"`
	// Data carries extra details supplied by the application.
	Data any `json:"data,omitempty"`
}

// Error implements error so that a Result can be returned through error
// paths.
func (r *Result) Error() string {
	if len(r.Errors) == 0 {
		return r.Msg
	}
	s := r.Msg + ":"
	for _, e := range r.Errors {
		s += " " + e.Name + ": " + e.Value + ";"
	}
	return s
}

// Responder writes a rejected request's result.
type Responder interface {
	Respond(w http.ResponseWriter, r *http.Request, status int, res *Result)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(w http.ResponseWriter, r *http.Request, status int, res *Result)

// Respond implements Responder.
func (f ResponderFunc) Respond(w http.ResponseWriter, r *http.Request, status int, res *Result) {
	f(w, r, status, res)
}

// JSONResponder writes the result as a JSON object.
type JSONResponder struct{}

// Respond implements Responder.
func (JSONResponder) Respond(w http.ResponseWriter, _ *http.Request, status int, res *Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}
