package identity

// RoleType classifies the breadth of a granted role
type RoleType string

const (
	RoleTypeDomainAdmin     RoleType = "DOMAIN_ADMIN"
	RoleTypeWorkspaceOwner  RoleType = "WORKSPACE_OWNER"
	RoleTypeWorkspaceMember RoleType = "WORKSPACE_MEMBER"
	RoleTypeUser            RoleType = "USER"
)

// GrantScope is the authorization breadth requested in a token grant
type GrantScope string

const (
	ScopeDomain    GrantScope = "DOMAIN"
	ScopeWorkspace GrantScope = "WORKSPACE"
	ScopeUser      GrantScope = "USER"
)

// GrantTypeRefreshToken is the only grant type the console uses
const GrantTypeRefreshToken = "REFRESH_TOKEN"

// RoleInfo is the granted role descriptor cached between navigations.
// Replaced wholesale on every successful grant.
type RoleInfo struct {
	RoleType   RoleType `json:"role_type"`
	RoleID     string   `json:"role_id"`
	PageAccess []string `json:"page_access"`
}

// IsDomainAdmin reports whether the role is a domain-wide admin role
func (r *RoleInfo) IsDomainAdmin() bool {
	return r != nil && r.RoleType == RoleTypeDomainAdmin
}

// Role is the wire shape of a role record
type Role struct {
	RoleID     string   `json:"role_id"`
	RoleType   RoleType `json:"role_type"`
	PageAccess []string `json:"page_access"`
}

// TokenGrantRequest is the wire shape of a token grant call
type TokenGrantRequest struct {
	GrantType   string     `json:"grant_type"`
	Scope       GrantScope `json:"scope"`
	Token       string     `json:"token"`
	WorkspaceID string     `json:"workspace_id,omitempty"`
}

// TokenGrantResponse is the wire shape of a token grant result
type TokenGrantResponse struct {
	AccessToken string   `json:"access_token"`
	RoleID      string   `json:"role_id"`
	RoleType    RoleType `json:"role_type"`
}

// TokenRefreshRequest is the wire shape of a silent token refresh call
type TokenRefreshRequest struct {
	Token string `json:"token"`
}

// TokenRefreshResponse is the wire shape of a silent token refresh result
type TokenRefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// RoleGetRequest is the wire shape of a role lookup
type RoleGetRequest struct {
	RoleID string `json:"role_id"`
}

// managedRoles maps built-in role ids to their role types. Granted managed
// roles carry full page access without a role lookup round-trip.
var managedRoles = map[string]RoleType{
	"managed-domain-admin":     RoleTypeDomainAdmin,
	"managed-workspace-owner":  RoleTypeWorkspaceOwner,
	"managed-workspace-member": RoleTypeWorkspaceMember,
}
