package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/Gobd/paramcheck"
	"github.com/Gobd/paramcheck/openapi"
	"github.com/Gobd/paramcheck/pathvars"
)

// app holds the endpoint declarations of the daemon. Each set guards one
// route and documents the same operation.
type app struct {
	store *store
	opts  []paramcheck.Option

	listUsers     *paramcheck.Set
	retrieveUser  *paramcheck.Set
	createUser    *paramcheck.Set
	destroyUser   *paramcheck.Set
	listProjects  *paramcheck.Set
	createProject *paramcheck.Set

	destroyPerms []paramcheck.Permission
}

func newApp(s *store, log paramcheck.Logger, maxBodyBytes int64) *app {
	a := &app{
		store: s,
		opts: []paramcheck.Option{
			paramcheck.WithLogger(log),
			paramcheck.WithMaxBodyBytes(maxBodyBytes),
			paramcheck.WithPathFunc(pathvars.Chi),
		},
	}
	roles := Role("").Choices()

	a.listUsers = a.set("List users\nUsers matching every given filter, oldest first.", "list",
		paramcheck.Param{Name: "role", Choices: roles, Msg: "unknown role"},
		paramcheck.Param{Name: "search", Description: "part of the name", Check: paramcheck.Chain(paramcheck.Trim(), paramcheck.Name(50))},
	)
	a.retrieveUser = a.set("Get a user", "retrieve",
		paramcheck.Param{Name: "pk", In: paramcheck.InPath, Check: paramcheck.Lookup(s.findUser, "user not found"), Replace: "user"},
	)
	a.createUser = a.set("Create a user", "create",
		paramcheck.Param{Name: "user", Model: UserInput{}, Required: true},
	)
	a.destroyUser = a.set("Delete a user\nAlso deletes the projects the user owns.", "destroy",
		paramcheck.Param{Name: "pk", In: paramcheck.InPath, Check: paramcheck.Lookup(s.findUser, "user not found"), Replace: "user"},
		paramcheck.Param{Name: "identify", In: paramcheck.InHeader, Required: true, Description: "id of the calling user",
			Check: paramcheck.Lookup(s.findUser, "unknown caller"), Replace: "caller"},
	)
	a.destroyPerms = []paramcheck.Permission{
		{
			Allow: func(_ *http.Request, v paramcheck.Values) (bool, error) {
				caller, _ := v.Get("caller").(*UserSerializer)
				return caller != nil && caller.Role == RoleAdmin, nil
			},
			Reason: "only admins can delete users",
		},
		{
			Before: func(_ *http.Request, v paramcheck.Values) {
				caller, _ := v.Get("caller").(*UserSerializer)
				user, _ := v.Get("user").(*UserSerializer)
				v["self"] = caller != nil && user != nil && caller.ID == user.ID
			},
			Allow: func(_ *http.Request, v paramcheck.Values) (bool, error) {
				self, _ := v.Bool("self")
				return !self, nil
			},
			Reason: "users cannot delete themselves",
		},
	}
	a.listProjects = a.set("List projects", "list",
		paramcheck.Param{Name: "owner_id", Check: paramcheck.PositiveInt()},
		paramcheck.Param{Name: "since", Description: "started on or after", Check: paramcheck.Date(time.DateOnly)},
		paramcheck.Param{Name: "tags", Type: paramcheck.TypeArray, Description: "every tag must match"},
	)
	a.createProject = a.set("Create a project", "create",
		paramcheck.Param{Name: "name", Required: true, Rules: []paramcheck.Rule{paramcheck.Length(1, 80)}, Check: paramcheck.Trim()},
		paramcheck.Param{Name: "owner_id", Required: true, Check: paramcheck.Lookup(s.findUser, "owner not found"), Replace: "owner"},
		paramcheck.Param{Name: "tags", Type: paramcheck.TypeArray},
		paramcheck.Param{Name: "started", Check: paramcheck.Date(time.DateOnly)},
	)
	return a
}

func (a *app) set(title, action string, params ...paramcheck.Param) *paramcheck.Set {
	opts := append([]paramcheck.Option{paramcheck.WithAction(action)}, a.opts...)
	s, err := paramcheck.NewWithOptions(title, params, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (a *app) routes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(a.listUsers.Guard).Get("/users", a.handleListUsers)
	r.With(a.createUser.Guard).Post("/users", a.handleCreateUser)
	r.With(a.retrieveUser.Guard).Get("/users/{pk}", a.handleRetrieveUser)
	r.With(a.destroyUser.Guard, paramcheck.Permit(a.destroyPerms, a.opts...)).Delete("/users/{pk}", a.handleDestroyUser)
	r.With(a.listProjects.Guard).Get("/projects", a.handleListProjects)
	r.With(a.createProject.Guard).Post("/projects", a.handleCreateProject)
}

func (a *app) document(doc *openapi3.T) {
	openapi.Get(doc, "/health", "health", openapi.Endpoint{
		Summary: "Liveness check",
		Sample:  map[string]any{"status": "string: always ok"},
		Public:  true,
	})
	openapi.Get(doc, "/users", "", openapi.Endpoint{Params: a.listUsers, Model: UserSerializer{}})
	openapi.Post(doc, "/users", "", openapi.Endpoint{Params: a.createUser, Model: UserSerializer{}})
	openapi.Get(doc, "/users/{pk}", "", openapi.Endpoint{Params: a.retrieveUser, Model: UserSerializer{}})
	openapi.Delete(doc, "/users/{pk}", "", openapi.Endpoint{Params: a.destroyUser, Security: []string{openapi.APIKey}})
	openapi.Get(doc, "/projects", "", openapi.Endpoint{Params: a.listProjects, Model: ProjectSerializer{}})
	openapi.Post(doc, "/projects", "", openapi.Endpoint{Params: a.createProject, Model: ProjectSerializer{}})
}

func (a *app) handleListUsers(w http.ResponseWriter, r *http.Request) {
	v := paramcheck.FromContext(r.Context())
	writeJSON(w, http.StatusOK, a.store.listUsers(Role(v.String("role")), v.String("search")))
}

func (a *app) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	in := paramcheck.FromContext(r.Context()).Get("user").(*UserInput)
	writeJSON(w, http.StatusCreated, a.store.addUser(*in))
}

func (a *app) handleRetrieveUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paramcheck.FromContext(r.Context()).Get("user"))
}

func (a *app) handleDestroyUser(w http.ResponseWriter, r *http.Request) {
	user := paramcheck.FromContext(r.Context()).Get("user").(*UserSerializer)
	a.store.deleteUser(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) handleListProjects(w http.ResponseWriter, r *http.Request) {
	v := paramcheck.FromContext(r.Context())
	owner, _ := v.Int("owner_id")
	since, _ := v.Time("since")
	tags, _ := v.Get("tags").([]string)
	writeJSON(w, http.StatusOK, a.store.listProjects(owner, since, tags))
}

func (a *app) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	v := paramcheck.FromContext(r.Context())
	owner := v.Get("owner").(*UserSerializer)
	tags, _ := v.Get("tags").([]string)
	started, ok := v.Time("started")
	if !ok {
		started = time.Now().UTC().Truncate(24 * time.Hour)
	}
	p := a.store.addProject(ProjectSerializer{
		Name:    v.String("name"),
		OwnerID: owner.ID,
		Tags:    tags,
		Started: started,
	})
	writeJSON(w, http.StatusCreated, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
