package access

// Level is an integer-ordered access level; navigation proceeds when the
// user's level is >= the route's level.
type Level int

const (
	// ExcludeAuth marks routes reachable without any session
	ExcludeAuth Level = iota
	// Authenticated marks routes requiring a live session
	Authenticated
	// WorkspacePermission marks routes requiring page access within a workspace
	WorkspacePermission
	// AdminPermission marks routes requiring an explicit domain-admin grant
	AdminPermission
)

func (l Level) String() string {
	switch l {
	case ExcludeAuth:
		return "EXCLUDE_AUTH"
	case Authenticated:
		return "AUTHENTICATED"
	case WorkspacePermission:
		return "WORKSPACE_PERMISSION"
	case AdminPermission:
		return "ADMIN_PERMISSION"
	default:
		return "UNKNOWN"
	}
}

// UserLevel computes the caller's access level against a route's menu.
//
// A dead token yields ExcludeAuth. A domain admin short-circuits to
// AdminPermission. Otherwise the parsed page access decides between
// WorkspacePermission (wildcard or a matching menu entry) and plain
// Authenticated. A wildcard under a non-admin role deliberately caps at
// WorkspacePermission: admin scope is granted by role, never by page access.
func UserLevel(menuID, subMenuID string, isDomainAdmin bool, pageAccess PageAccess, tokenAlive bool) Level {
	if !tokenAlive {
		return ExcludeAuth
	}
	if isDomainAdmin {
		return AdminPermission
	}
	if pageAccess.HasWildcard() {
		return WorkspacePermission
	}
	if menuID != "" && pageAccess.Satisfies(menuID, subMenuID) {
		return WorkspacePermission
	}
	return Authenticated
}
