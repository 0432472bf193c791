package paramcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Set is the parameter declaration of one endpoint. It guards the endpoint's
// handler and documents it.
type Set struct {
	title  string
	params []Param
	norm   []Param
	cfg    *config
}

// New declares the parameters of an endpoint. The first line of title is the
// summary in the documentation, the whole of it the description.
func New(title string, params ...Param) (*Set, error) {
	return NewWithOptions(title, params)
}

// NewWithOptions is New with options.
func NewWithOptions(title string, params []Param, opts ...Option) (*Set, error) {
	s := &Set{title: title, params: params, cfg: newConfig(opts)}
	s.norm = make([]Param, len(params))
	for i, p := range params {
		s.norm[i] = p.Normalize(s.cfg.action)
		if Requires(p.Rules) {
			s.norm[i].Required = true
		}
	}
	if err := checkDefinition(s.norm); err != nil {
		return nil, err
	}
	return s, nil
}

// Must is New that panics on a definition error. It is meant for package
// level declarations.
func Must(title string, params ...Param) *Set {
	s, err := New(title, params...)
	if err != nil {
		panic(err)
	}
	return s
}

func checkDefinition(params []Param) error {
	seen := map[string]bool{}
	var body, form bool
	for _, p := range params {
		if p.Name == "" {
			return &DefinitionError{Message: "parameter without a name"}
		}
		if seen[p.Name] {
			return &DefinitionError{Param: p.Name, Message: "declared twice"}
		}
		seen[p.Name] = true
		switch p.In {
		case InBody:
			if body {
				return &DefinitionError{Param: p.Name, Message: "only one body parameter is allowed"}
			}
			body = true
		case InForm:
			form = true
		case InPath, InQuery, InHeader:
		default:
			return &DefinitionError{Param: p.Name, Message: fmt.Sprintf("unknown location %q", p.In)}
		}
		if p.Model != nil && p.In != InBody {
			return &DefinitionError{Param: p.Name, Message: "a model can only be read from the body"}
		}
	}
	if body && form {
		return &DefinitionError{Message: "form and body parameters cannot be mixed"}
	}
	return nil
}

// Title returns the endpoint title.
func (s *Set) Title() string { return s.title }

// Action returns the action set with WithAction.
func (s *Set) Action() string { return s.cfg.action }

// Params returns the normalized parameters.
func (s *Set) Params() []Param {
	return append([]Param(nil), s.norm...)
}

// ParamsFor returns the parameters normalized for action. An action set with
// WithAction takes precedence.
func (s *Set) ParamsFor(action string) []Param {
	if s.cfg.action != "" || action == "" {
		return s.Params()
	}
	out := make([]Param, len(s.params))
	for i, p := range s.params {
		out[i] = p.Normalize(action)
		if Requires(p.Rules) {
			out[i].Required = true
		}
	}
	return out
}

// Guard returns a handler that checks the request before calling next.
// Rejected requests get the Responder's 400 or 403 response; accepted ones
// reach next with the checked Values in the request context.
func (s *Set) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values, res := s.Check(r)
		if res != nil {
			s.cfg.responder.Respond(w, r, res.Status, res)
			return
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), values)))
	})
}

// GuardFunc is Guard for a handler function.
func (s *Set) GuardFunc(next http.HandlerFunc) http.HandlerFunc {
	return s.Guard(next).ServeHTTP
}

// Check runs every parameter of the set against r. It returns the checked
// values, or the result to reject the request with.
func (s *Set) Check(r *http.Request) (Values, *Result) {
	log := s.cfg.logger.With("endpoint", firstLine(s.title), "path", r.URL.Path)

	data, err := s.cfg.data(r)
	if err != nil {
		log.Debug("unreadable request data", "error", err)
		return nil, &Result{
			Status: http.StatusBadRequest,
			Name:   firstLine(s.title),
			Msg:    "invalid request data",
			Errors: []FieldError{{Name: "body", Value: err.Error()}},
		}
	}
	if data == nil {
		data = map[string]any{}
	}
	s.mergePath(r, data)

	values := Values{}
	var errs []FieldError
	for _, p := range s.norm {
		if p.Model != nil {
			v, ferrs := s.checkModel(r, p)
			errs = append(errs, ferrs...)
			if v != nil {
				values[p.Key()] = v
			}
			continue
		}

		raw, present := lookup(r, p, data)
		if p.Type != TypeArray {
			if vs, ok := raw.([]string); ok && len(vs) > 0 {
				raw = vs[0]
			}
		}
		if isEmpty(raw) {
			if p.Required {
				errs = append(errs, FieldError{Name: p.Name, Value: "required"})
			} else if present {
				values[p.Key()] = ""
			}
			continue
		}

		v, err := s.checkOne(r, p, raw)
		if err != nil {
			var d *Denial
			if errors.As(err, &d) {
				log.Debug("request denied", "param", p.Name, "reason", d.Msg)
				return nil, &Result{Status: http.StatusForbidden, Name: p.Name, Msg: d.Msg}
			}
			errs = append(errs, FieldError{Name: p.Name, Value: message(p, err)})
			continue
		}
		values[p.Key()] = v
	}

	if len(errs) > 0 {
		log.Debug("invalid parameters", "errors", errs)
		return nil, &Result{
			Status: http.StatusBadRequest,
			Name:   firstLine(s.title),
			Msg:    "invalid parameters",
			Errors: errs,
		}
	}
	return values, nil
}

// mergePath adds the path variables of the declared parameters, and "pk" as
// "id", underneath the request data.
func (s *Set) mergePath(r *http.Request, data map[string]any) {
	for _, p := range s.params {
		if _, ok := data[p.Name]; ok || p.Name == "" {
			continue
		}
		if v := s.cfg.path(r, p.Name); v != "" {
			data[p.Name] = v
		}
	}
	if _, ok := data["id"]; !ok {
		if pk := s.cfg.path(r, "pk"); pk != "" {
			data["id"] = pk
		} else if id := s.cfg.path(r, "id"); id != "" {
			data["id"] = id
		}
	}
}

func lookup(r *http.Request, p Param, data map[string]any) (any, bool) {
	if p.In == InHeader {
		if vs := r.Header.Values(p.Name); len(vs) > 0 {
			return flatten(vs), true
		}
	}
	raw, ok := data[p.Name]
	return raw, ok && raw != nil
}

func (s *Set) checkOne(r *http.Request, p Param, raw any) (v any, err error) {
	if len(p.Choices) > 0 {
		if err := checkChoices(r.Context(), p, raw); err != nil {
			return nil, err
		}
	}
	for _, rule := range p.Rules {
		if err := rule.Validate(raw); err != nil {
			return nil, Fail(err.Error())
		}
	}
	check := p.Check
	if check == nil && p.Type == TypeArray {
		check = Split()
	}
	if check == nil {
		return raw, nil
	}
	v, err = runCheck(r.Context(), s.cfg.logger, p.Name, check, raw)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = raw
	}
	return v, nil
}

// checkChoices tests the value against the choices. Every element of an
// array parameter must be a choice.
func checkChoices(ctx context.Context, p Param, raw any) error {
	if p.Type != TypeArray {
		return checkChoice(p, rawString(raw))
	}
	items, err := Split().Check(ctx, raw)
	if err != nil {
		return err
	}
	for _, item := range items.([]string) {
		if err := checkChoice(p, item); err != nil {
			return err
		}
	}
	return nil
}

func checkChoice(p Param, got string) error {
	for _, c := range p.Choices {
		if fmt.Sprint(c.Value) == got {
			return nil
		}
	}
	return fmt.Errorf("%q is not a choice", got)
}

// checkModel decodes and validates the JSON body into a new value of the
// param's model type.
func (s *Set) checkModel(r *http.Request, p Param) (any, []FieldError) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		b, err := readBody(r, s.cfg.maxBodyBytes)
		if err != nil {
			return nil, []FieldError{{Name: p.Name, Value: err.Error()}}
		}
		body = b
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if p.Required {
			return nil, []FieldError{{Name: p.Name, Value: "required"}}
		}
		return nil, nil
	}

	body = unwrapData(body)

	t := reflect.TypeOf(p.Model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	dst := reflect.New(t).Interface()
	err := UnmarshalAndValidate(r.Context(), body, dst)
	if err == nil {
		return dst, nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		var out []FieldError
		flattenErrors(p.Name, verrs, &out)
		return nil, out
	}
	return nil, []FieldError{{Name: p.Name, Value: p.Msg}}
}

// unwrapData returns the object of a {"data": {...}} envelope, or b.
func unwrapData(b []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(b, &env); err != nil || len(env) != 1 {
		return b
	}
	if inner, ok := env["data"]; ok && bytes.HasPrefix(bytes.TrimSpace(inner), []byte("{")) {
		return inner
	}
	return b
}

// flattenErrors turns nested validation errors into dotted field names.
func flattenErrors(prefix string, errs validation.Errors, out *[]FieldError) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		var inner validation.Errors
		if errors.As(errs[k], &inner) {
			flattenErrors(name, inner, out)
			continue
		}
		*out = append(*out, FieldError{Name: name, Value: errs[k].Error()})
	}
}

func message(p Param, err error) string {
	var f *Failure
	if errors.As(err, &f) && f.Msg != "" {
		return f.Msg
	}
	if p.Msg != "" {
		return p.Msg
	}
	return err.Error()
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0 || (len(v) == 1 && v[0] == "")
	}
	return false
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
