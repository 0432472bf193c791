package openapi

import (
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Filter returns a copy of doc holding only the paths that start with
// prefix and start with none of exclude, and only the tags those paths use.
// Components are shared with doc. Without a prefix or exclusions doc itself
// is returned.
func Filter(doc *openapi3.T, prefix string, exclude ...string) *openapi3.T {
	prefix = rooted(prefix)
	var skip []string
	for _, e := range exclude {
		if e = rooted(e); e != "" {
			skip = append(skip, e)
		}
	}
	if prefix == "" && len(skip) == 0 {
		return doc
	}

	out := *doc
	out.Paths = openapi3.NewPaths()
	used := map[string]bool{}
	for path, item := range doc.Paths.Map() {
		if !strings.HasPrefix(path, prefix) || hasAnyPrefix(path, skip) {
			continue
		}
		out.Paths.Set(path, item)
		for _, op := range item.Operations() {
			for _, tag := range op.Tags {
				used[tag] = true
			}
		}
	}
	out.Tags = nil
	for _, tag := range doc.Tags {
		if used[tag.Name] {
			out.Tags = append(out.Tags, tag)
		}
	}
	return &out
}

func rooted(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// SpecHandler serves doc as openapi.json, openapi.yaml and, converted to
// Swagger 2.0, swagger.json, whatever directory it is mounted under. The
// prefix query parameter restricts the paths served and exclude, repeated
// or comma separated, drops paths, see Filter.
//
//	mux.Handle("GET /docs/", http.StripPrefix("/docs", openapi.SpecHandler(doc)))
func SpecHandler(doc *openapi3.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var exclude []string
		for _, e := range q["exclude"] {
			exclude = append(exclude, strings.Split(e, ",")...)
		}
		d := Filter(doc, q.Get("prefix"), exclude...)

		var (
			b   []byte
			err error
			ct  string
		)
		switch {
		case strings.HasSuffix(r.URL.Path, "/openapi.json"):
			b, err = JSON(d)
			ct = "application/json"
		case strings.HasSuffix(r.URL.Path, "/openapi.yaml"):
			b, err = YAML(d)
			ct = "application/yaml"
		case strings.HasSuffix(r.URL.Path, "/swagger.json"):
			b, err = Swagger2(d)
			ct = "application/json"
		default:
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ct)
		_, _ = w.Write(b)
	})
}
