package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudsteer/console-core/pkg/observability"
	"github.com/cloudsteer/console-core/pkg/session"
)

// Granter runs the role grant flow: exchange the refresh token for a scoped
// access token, install it into the session, and resolve the granted role's
// page access.
type Granter struct {
	client  *Client
	session *session.Manager
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewGranter creates a role granter. metrics may be nil.
func NewGranter(client *Client, sess *session.Manager, logger *observability.Logger, metrics *observability.Metrics) *Granter {
	return &Granter{
		client:  client,
		session: sess,
		logger:  logger,
		metrics: metrics,
	}
}

// Grant exchanges the refresh token for an access token scoped to the given
// breadth. On success the session's access token is replaced and the resolved
// RoleInfo returned. A USER-scope grant carries no role: it returns (nil, nil).
func (g *Granter) Grant(ctx context.Context, scope GrantScope, refreshToken, workspaceID string) (*RoleInfo, error) {
	start := time.Now()
	resp, err := g.client.TokenGrant(ctx, TokenGrantRequest{
		GrantType:   GrantTypeRefreshToken,
		Scope:       scope,
		Token:       refreshToken,
		WorkspaceID: workspaceID,
	})
	if g.metrics != nil {
		g.metrics.ObserveGrant(string(scope), err, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("role grant failed: %w", err)
	}

	g.session.SetAccessToken(resp.AccessToken)

	claims, err := session.DecodeClaims(resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("granted token undecodable: %w", err)
	}

	return g.resolveGrantedRole(ctx, resp.RoleID, RoleType(claims.RoleType), resp.RoleType)
}

// resolveGrantedRole turns a grant result into the cached RoleInfo.
// currentRoleType comes from the freshly granted token, baseRoleType is the
// user's standing role reported by the grant response.
func (g *Granter) resolveGrantedRole(ctx context.Context, roleID string, currentRoleType, baseRoleType RoleType) (*RoleInfo, error) {
	// A domain admin entering a workspace acts as a synthetic workspace owner.
	if baseRoleType == RoleTypeDomainAdmin && currentRoleType == RoleTypeWorkspaceOwner {
		return &RoleInfo{
			RoleType:   RoleTypeWorkspaceOwner,
			RoleID:     "managed-workspace-owner",
			PageAccess: []string{"*"},
		}, nil
	}

	// A USER-scope grant carries no role.
	if currentRoleType == RoleTypeUser {
		return nil, nil
	}

	if roleType, ok := managedRoles[roleID]; ok {
		return &RoleInfo{
			RoleType:   roleType,
			RoleID:     roleID,
			PageAccess: []string{"*"},
		}, nil
	}

	role, err := g.client.RoleGet(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("granted role lookup failed: %w", err)
	}

	return &RoleInfo{
		RoleType:   role.RoleType,
		RoleID:     role.RoleID,
		PageAccess: role.PageAccess,
	}, nil
}
