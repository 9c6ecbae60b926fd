package routing

import "github.com/cloudsteer/console-core/pkg/access"

// Well-known route names the guard redirects to
const (
	ErrorRouteName         = "error"
	SignInRouteName        = "auth.sign-in"
	SignOutRouteName       = "auth.sign-out"
	ResetPasswordRouteName = "auth.password.reset"
	HomeDashboardRouteName = "home-dashboard"
)

// WorkspaceIDParam is the route parameter carrying the workspace scope
const WorkspaceIDParam = "workspaceId"

// adminPrefix names the admin-mode variant of a workspace route.
// Only the registry constructor looks at it.
const adminPrefix = "admin."

// RecentMeta declares that arriving at a route records a recent item
type RecentMeta struct {
	// ItemType classifies the visited resource (dashboard, cloudService, ...)
	ItemType string
	// IDParam names the route parameter holding the resource id
	IDParam string
}

// Meta is the static access metadata attached to a route definition
type Meta struct {
	AccessLevel  access.Level
	MenuID       string
	SubMenuID    string
	IsSignInPage bool
	Recent       *RecentMeta
}

// Route is one route definition, loaded once at registry construction
type Route struct {
	Name string
	// Path is the mux-style path template the gateway serves
	Path string
	Meta Meta
}

// Descriptor is a resolved navigation target or source
type Descriptor struct {
	Name     string
	Params   map[string]string
	Query    map[string]string
	FullPath string
	Meta     Meta
}

// Param returns a route parameter, or empty
func (d Descriptor) Param(key string) string {
	if d.Params == nil {
		return ""
	}
	return d.Params[key]
}

// Location is a redirect target handed back to the shell
type Location struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
	Query  map[string]string `json:"query,omitempty"`
}
