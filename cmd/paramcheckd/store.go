package main

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Gobd/paramcheck"
	"github.com/Gobd/paramcheck/is"
	"github.com/Gobd/paramcheck/transform"
)

// Role is the access level of a user.
type Role string

// Roles.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Choices documents the roles.
func (Role) Choices() []paramcheck.Choice {
	return []paramcheck.Choice{
		{Value: RoleAdmin, Description: "manages users and projects"},
		{Value: RoleMember, Description: "works on projects"},
		{Value: RoleGuest, Description: "read only"},
	}
}

// ValueRules restricts roles wherever they appear.
func (Role) ValueRules() []paramcheck.Rule {
	return []paramcheck.Rule{paramcheck.In(RoleAdmin, RoleMember, RoleGuest)}
}

// UserSerializer is returned by the user endpoints.
type UserSerializer struct {
	ID      int64     `json:"id" readonly:"true"`
	Name    string    `json:"name" doc:"Display name"`
	Email   string    `json:"email" field:"email"`
	Role    Role      `json:"role"`
	Created time.Time `json:"created" readonly:"true"`
}

// UserInput is the body of a user creation.
type UserInput struct {
	Name  string `json:"name" doc:"Display name"`
	Email string `json:"email" field:"email"`
	Role  Role   `json:"role"`
}

// Normalize implements paramcheck.Normalizer.
func (u *UserInput) Normalize() {
	transform.CollapseSpace(u)
	transform.ToLower(&u.Email)
	if u.Role == "" {
		u.Role = RoleMember
	}
}

// Rules implements paramcheck.Ruler.
func (u *UserInput) Rules() []*paramcheck.FieldRules {
	return []*paramcheck.FieldRules{
		paramcheck.Field(&u.Name, paramcheck.Required, paramcheck.Length(1, 100)),
		paramcheck.Field(&u.Email, paramcheck.Required, is.Email),
		paramcheck.Field(&u.Role, paramcheck.Default(RoleMember)),
	}
}

// ProjectSerializer is returned by the project endpoints.
type ProjectSerializer struct {
	ID      int64     `json:"id" readonly:"true"`
	Name    string    `json:"name"`
	OwnerID int64     `json:"owner_id" doc:"Owning user"`
	Tags    []string  `json:"tags"`
	Started time.Time `json:"started" field:"date"`
}

// store keeps users and projects in memory.
type store struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*UserSerializer
	projects map[int64]*ProjectSerializer
}

func newStore() *store {
	s := &store{
		users:    map[int64]*UserSerializer{},
		projects: map[int64]*ProjectSerializer{},
	}
	s.addUser(UserInput{Name: "Ada", Email: "ada@example.com", Role: RoleAdmin})
	s.addUser(UserInput{Name: "Brian", Email: "brian@example.com", Role: RoleMember})
	return s
}

func (s *store) addUser(in UserInput) *UserSerializer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &UserSerializer{ID: s.nextID, Name: in.Name, Email: in.Email, Role: in.Role, Created: time.Now().UTC()}
	s.users[u.ID] = u
	return u
}

// findUser looks a user up by its id. It returns an untyped nil when there
// is none, as paramcheck.Lookup expects.
func (s *store) findUser(_ context.Context, key string) (any, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (s *store) listUsers(role Role, search string) []*UserSerializer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*UserSerializer{}
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) deleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for pid, p := range s.projects {
		if p.OwnerID == id {
			delete(s.projects, pid)
		}
	}
}

func (s *store) addProject(p ProjectSerializer) *ProjectSerializer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.projects[p.ID] = &p
	return &p
}

func (s *store) listProjects(ownerID int64, since time.Time, tags []string) []*ProjectSerializer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*ProjectSerializer{}
	for _, p := range s.projects {
		if ownerID != 0 && p.OwnerID != ownerID {
			continue
		}
		if !since.IsZero() && p.Started.Before(since) {
			continue
		}
		if !hasTags(p.Tags, tags) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hasTags(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}
