package openapi

import (
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var pathArg = regexp.MustCompile(`\{(\w+)\}`)

// PathArgs returns the names of the {variables} of path in order.
func PathArgs(path string) []string {
	var out []string
	for _, m := range pathArg.FindAllStringSubmatch(path, -1) {
		out = append(out, m[1])
	}
	return out
}

// InferAction names what an operation does: list for GET on a collection,
// retrieve for GET on a path ending in a variable, create, update,
// partial_update and destroy for the other methods.
func InferAction(method, path string) string {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		if IsCollection(path) {
			return "list"
		}
		return "retrieve"
	case http.MethodPost:
		return "create"
	case http.MethodPut:
		return "update"
	case http.MethodPatch:
		return "partial_update"
	case http.MethodDelete:
		return "destroy"
	}
	return strings.ToLower(method)
}

// IsCollection reports whether path ends in a named component rather than
// a variable.
func IsCollection(path string) bool {
	segs := segments(path)
	return len(segs) == 0 || !pathArg.MatchString(segs[len(segs)-1])
}

// OperationID joins the named components of path and action with
// underscores: "/users/{pk}/groups/" and "list" give "users_groups_list".
func OperationID(path, action string) string {
	var parts []string
	for _, seg := range segments(path) {
		if !pathArg.MatchString(seg) {
			parts = append(parts, strings.NewReplacer("-", "_", ".", "_").Replace(seg))
		}
	}
	if action != "" {
		parts = append(parts, action)
	}
	return strings.Join(parts, "_")
}

var titleCase = cases.Title(language.English)

// Tag returns the first named component of path in title case, "" for the
// root.
func Tag(path string) string {
	for _, seg := range segments(path) {
		if !pathArg.MatchString(seg) {
			return titleCase.String(strings.NewReplacer("-", " ", "_", " ").Replace(seg))
		}
	}
	return ""
}

func segments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
