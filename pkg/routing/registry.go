package routing

import (
	"fmt"
	"strings"
)

// Registry is the immutable route table built at construction time
type Registry struct {
	routes      map[string]Route
	adminOf     map[string]string // workspace route name -> admin route name
	workspaceOf map[string]string // admin route name -> workspace route name
	order       []string
}

// NewRegistry builds a registry from route definitions. Route names must be
// unique. Admin pairs are linked here so the guard never derives names at
// navigation time.
func NewRegistry(routes []Route) (*Registry, error) {
	r := &Registry{
		routes:      make(map[string]Route, len(routes)),
		adminOf:     make(map[string]string),
		workspaceOf: make(map[string]string),
	}

	for _, route := range routes {
		if route.Name == "" {
			return nil, fmt.Errorf("route with empty name (path %q)", route.Path)
		}
		if _, exists := r.routes[route.Name]; exists {
			return nil, fmt.Errorf("duplicate route name %q", route.Name)
		}
		r.routes[route.Name] = route
		r.order = append(r.order, route.Name)
	}

	for name := range r.routes {
		if !strings.HasPrefix(name, adminPrefix) {
			continue
		}
		workspaceName := strings.TrimPrefix(name, adminPrefix)
		if _, ok := r.routes[workspaceName]; ok {
			r.adminOf[workspaceName] = name
			r.workspaceOf[name] = workspaceName
		}
	}

	return r, nil
}

// MustNewRegistry is NewRegistry that panics on invalid definitions.
// For static route tables wired at bootstrap.
func MustNewRegistry(routes []Route) *Registry {
	r, err := NewRegistry(routes)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the route definition for a name
func (r *Registry) Resolve(name string) (Route, bool) {
	route, ok := r.routes[name]
	return route, ok
}

// Routes returns all route definitions in registration order
func (r *Registry) Routes() []Route {
	out := make([]Route, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.routes[name])
	}
	return out
}

// IsAdminRoute reports whether the route is served under admin mode
func (r *Registry) IsAdminRoute(name string) bool {
	return strings.HasPrefix(name, adminPrefix)
}

// AdminEquivalent returns the admin-mode variant of a workspace route
func (r *Registry) AdminEquivalent(name string) (string, bool) {
	admin, ok := r.adminOf[name]
	return admin, ok
}

// WorkspaceEquivalent returns the workspace variant of an admin route
func (r *Registry) WorkspaceEquivalent(name string) (string, bool) {
	workspace, ok := r.workspaceOf[name]
	return workspace, ok
}

// Describe resolves a route name into a navigation descriptor
func (r *Registry) Describe(name string, params, query map[string]string, fullPath string) (Descriptor, bool) {
	route, ok := r.routes[name]
	if !ok {
		return Descriptor{}, false
	}
	return Descriptor{
		Name:     route.Name,
		Params:   params,
		Query:    query,
		FullPath: fullPath,
		Meta:     route.Meta,
	}, true
}
