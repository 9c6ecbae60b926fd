package guard

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsteer/console-core/pkg/identity"
	"github.com/cloudsteer/console-core/pkg/observability"
	"github.com/cloudsteer/console-core/pkg/recent"
	"github.com/cloudsteer/console-core/pkg/reference"
	"github.com/cloudsteer/console-core/pkg/routing"
)

type fakeSession struct {
	tokenAlive   bool
	refreshToken string
	refreshOK    bool
	refreshCalls int
}

func (f *fakeSession) IsTokenAlive() bool   { return f.tokenAlive }
func (f *fakeSession) RefreshToken() string { return f.refreshToken }
func (f *fakeSession) RefreshAccessToken(ctx context.Context) bool {
	f.refreshCalls++
	if f.refreshOK {
		f.tokenAlive = true
	}
	return f.refreshOK
}

type fakeGranter struct {
	calls         int
	lastScope     identity.GrantScope
	lastWorkspace string
	roleInfo      *identity.RoleInfo
	err           error
}

func (f *fakeGranter) Grant(ctx context.Context, scope identity.GrantScope, refreshToken, workspaceID string) (*identity.RoleInfo, error) {
	f.calls++
	f.lastScope = scope
	f.lastWorkspace = workspaceID
	return f.roleInfo, f.err
}

type fakeReloader struct {
	calls    int
	lastOpts reference.Options
}

func (f *fakeReloader) LoadAll(ctx context.Context, opts reference.Options) {
	f.calls++
	f.lastOpts = opts
}

type fakeRecents struct {
	items []recent.Item
}

func (f *fakeRecents) Record(ctx context.Context, item recent.Item) {
	f.items = append(f.items, item)
}

type fixture struct {
	guard    *Guard
	registry *routing.Registry
	session  *fakeSession
	granter  *fakeGranter
	reloader *fakeReloader
	recents  *fakeRecents
	state    *State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		registry: routing.MustNewRegistry(routing.DefaultRoutes()),
		session:  &fakeSession{},
		granter:  &fakeGranter{},
		reloader: &fakeReloader{},
		recents:  &fakeRecents{},
		state:    NewState(),
	}
	f.guard = New(Options{
		Registry:   f.registry,
		Session:    f.session,
		Granter:    f.granter,
		References: f.reloader,
		Recents:    f.recents,
		State:      f.state,
		Logger:     observability.NewLogger(observability.ErrorLevel, io.Discard),
		Metrics:    observability.NewMetrics(prometheus.NewRegistry()),
		SyncReload: true,
	})
	return f
}

func (f *fixture) desc(t *testing.T, name string, params map[string]string, fullPath string) routing.Descriptor {
	t.Helper()
	d, ok := f.registry.Describe(name, params, nil, fullPath)
	require.True(t, ok, "unknown route %q", name)
	return d
}

func workspaceMember() *identity.RoleInfo {
	return &identity.RoleInfo{
		RoleType:   identity.RoleTypeWorkspaceMember,
		RoleID:     "role-member",
		PageAccess: []string{"dashboards.*", "asset-inventory.cloud-service"},
	}
}

func domainAdmin() *identity.RoleInfo {
	return &identity.RoleInfo{
		RoleType:   identity.RoleTypeDomainAdmin,
		RoleID:     "managed-domain-admin",
		PageAccess: []string{"*"},
	}
}

func TestGrantSkippedForSameWorkspace(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.session.refreshToken = "rt"
	f.state.SetRoleInfo(workspaceMember())

	to := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")
	from := f.desc(t, "iam.user", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/iam/user")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	assert.True(t, decision.Proceed())
	assert.Equal(t, 0, f.granter.calls)
}

func TestGrantSkippedWhenContinuingAdminContext(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.session.refreshToken = "rt"
	f.state.SetRoleInfo(domainAdmin())

	to := f.desc(t, "admin.iam.user", nil, "/admin/iam/user")
	from := f.desc(t, "admin.dashboards.all", nil, "/admin/dashboards")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	assert.True(t, decision.Proceed())
	assert.Equal(t, 0, f.granter.calls)
}

func TestGrantScopeSelection(t *testing.T) {
	tests := []struct {
		name          string
		to            string
		toParams      map[string]string
		fromPath      string
		wantScope     identity.GrantScope
		wantWorkspace string
	}{
		{
			name:      "admin route grants domain scope",
			to:        "admin.iam.user",
			fromPath:  "/workspace/ws-1/dashboards",
			wantScope: identity.ScopeDomain,
		},
		{
			name:          "workspace param grants workspace scope",
			to:            "dashboards.all",
			toParams:      map[string]string{routing.WorkspaceIDParam: "ws-2"},
			fromPath:      "/workspace/ws-1/dashboards",
			wantScope:     identity.ScopeWorkspace,
			wantWorkspace: "ws-2",
		},
		{
			name:      "plain route grants user scope",
			to:        routing.HomeDashboardRouteName,
			fromPath:  "/workspace/ws-1/dashboards",
			wantScope: identity.ScopeUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.session.tokenAlive = true
			f.session.refreshToken = "rt"
			f.granter.roleInfo = domainAdmin()

			to := f.desc(t, tt.to, tt.toParams, "/next")
			from := f.desc(t, "iam.user", map[string]string{routing.WorkspaceIDParam: "ws-1"}, tt.fromPath)

			f.guard.BeforeNavigate(context.Background(), to, from)
			require.Equal(t, 1, f.granter.calls)
			assert.Equal(t, tt.wantScope, f.granter.lastScope)
			assert.Equal(t, tt.wantWorkspace, f.granter.lastWorkspace)
		})
	}
}

func TestSuccessfulGrantTriggersForcedReferenceReload(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.session.refreshToken = "rt"
	f.granter.roleInfo = workspaceMember()

	to := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-2"}, "/workspace/ws-2/dashboards")
	from := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")

	f.guard.BeforeNavigate(context.Background(), to, from)
	require.Equal(t, 1, f.reloader.calls)
	assert.True(t, f.reloader.lastOpts.Force)
	assert.Equal(t, workspaceMember(), f.state.RoleInfo())
}

func TestUserScopeGrantSkipsReferenceReload(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.session.refreshToken = "rt"
	f.granter.roleInfo = nil

	to := f.desc(t, routing.HomeDashboardRouteName, nil, "/")
	from := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	assert.True(t, decision.Proceed())
	// The grant happened but carried no role, so the reference caches
	// keep their current contents.
	require.Equal(t, 1, f.granter.calls)
	assert.Nil(t, f.state.RoleInfo())
	assert.Equal(t, 0, f.reloader.calls)
}

func TestFailedGrantFailsOpenAndResetsRole(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.session.refreshToken = "rt"
	f.state.SetRoleInfo(domainAdmin())
	f.granter.err = errors.New("grant service down")

	to := f.desc(t, routing.HomeDashboardRouteName, nil, "/")
	from := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	// Navigation continues, but the stale grant is gone and the
	// reference caches were not reloaded.
	assert.True(t, decision.Proceed())
	assert.Nil(t, f.state.RoleInfo())
	assert.Equal(t, 0, f.reloader.calls)
}

func TestNonAdminNeverProceedsOnAdminRoute(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(workspaceMember())

	to := f.desc(t, "admin.iam.user", nil, "/admin/iam/user")
	from := f.desc(t, routing.HomeDashboardRouteName, nil, "/")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, routing.ErrorRouteName, decision.Redirect.Name)
	assert.Equal(t, "403", decision.Redirect.Params[StatusCodeParam])
}

func TestWildcardPageAccessDoesNotGrantAdmin(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(&identity.RoleInfo{
		RoleType:   identity.RoleTypeWorkspaceOwner,
		RoleID:     "managed-workspace-owner",
		PageAccess: []string{"*"},
	})

	to := f.desc(t, "admin.iam.role", nil, "/admin/iam/role")
	from := f.desc(t, routing.HomeDashboardRouteName, nil, "/")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, routing.ErrorRouteName, decision.Redirect.Name)
}

func TestAdminModeRedirectsToAdminEquivalent(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.session.refreshToken = "rt"
	f.state.SetRoleInfo(domainAdmin())
	f.granter.roleInfo = domainAdmin()

	params := map[string]string{routing.WorkspaceIDParam: "ws-1"}
	to := f.desc(t, "dashboards.all", params, "/workspace/ws-1/dashboards")
	from := f.desc(t, "admin.iam.user", nil, "/admin/iam/user")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, "admin.dashboards.all", decision.Redirect.Name)
	assert.Equal(t, params, decision.Redirect.Params)
}

func TestAdminModeWithoutAdminEquivalentIs404(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(domainAdmin())

	// alert-manager.alerts has no admin-prefixed counterpart.
	to := f.desc(t, "alert-manager.alerts", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/alert-manager/alerts")
	from := f.desc(t, "admin.iam.user", nil, "/admin/iam/user")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, routing.ErrorRouteName, decision.Redirect.Name)
	assert.Equal(t, "404", decision.Redirect.Params[StatusCodeParam])
}

func TestAdminModeNonAdminUserIs404(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(workspaceMember())

	to := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")
	from := f.desc(t, "admin.iam.user", nil, "/admin/iam/user")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, routing.ErrorRouteName, decision.Redirect.Name)
	assert.Equal(t, "404", decision.Redirect.Params[StatusCodeParam])
}

func TestPasswordResetOverridesAdminModeConversion(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(domainAdmin())
	f.state.SetNeedPwdReset(true)

	// The target would otherwise convert to admin.dashboards.all, but a
	// forced password reset takes precedence over the conversion.
	to := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")
	from := f.desc(t, "admin.iam.user", nil, "/admin/iam/user")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, routing.ResetPasswordRouteName, decision.Redirect.Name)
}

func TestPasswordResetOverridesEveryTarget(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(workspaceMember())
	f.state.SetNeedPwdReset(true)

	from := f.desc(t, routing.HomeDashboardRouteName, nil, "/")

	for _, target := range []string{routing.HomeDashboardRouteName, "iam.user", "dashboards.all"} {
		to := f.desc(t, target, map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/somewhere")
		decision := f.guard.BeforeNavigate(context.Background(), to, from)
		require.False(t, decision.Proceed(), "target %q", target)
		assert.Equal(t, routing.ResetPasswordRouteName, decision.Redirect.Name)
	}

	// The reset and sign-out routes themselves stay reachable.
	for _, target := range []string{routing.ResetPasswordRouteName, routing.SignOutRouteName} {
		to := f.desc(t, target, nil, "/auth")
		decision := f.guard.BeforeNavigate(context.Background(), to, from)
		assert.True(t, decision.Proceed(), "target %q", target)
	}
}

func TestAuthenticatedUserBouncedOffSignInPage(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(workspaceMember())

	to := f.desc(t, routing.SignInRouteName, nil, "/sign-in")
	from := f.desc(t, routing.HomeDashboardRouteName, nil, "/")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, routing.HomeDashboardRouteName, decision.Redirect.Name)
}

func TestDeadTokenSilentRefreshThenProceed(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = false
	f.session.refreshOK = true

	to := f.desc(t, routing.HomeDashboardRouteName, nil, "/")
	from := f.desc(t, routing.SignInRouteName, nil, "/sign-in")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	assert.True(t, decision.Proceed())
	assert.Equal(t, 1, f.session.refreshCalls)
}

func TestDeadTokenSkipsGrantAndRefreshesInstead(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = false
	f.session.refreshToken = "rt"
	f.session.refreshOK = true

	// The workspace change would normally trigger a grant, but a grant
	// against a dead token would mint the wrong scope; the silent
	// refresh handles the expired session first.
	to := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-2"}, "/workspace/ws-2/dashboards")
	from := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	assert.True(t, decision.Proceed())
	assert.Equal(t, 0, f.granter.calls)
	assert.Equal(t, 1, f.session.refreshCalls)
}

func TestDeadTokenFailedRefreshRedirectsToSignOutWithNextPath(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = false
	f.session.refreshOK = false

	fullPath := "/workspace/ws-1/dashboards/dash-9"
	to := f.desc(t, "dashboards.detail",
		map[string]string{routing.WorkspaceIDParam: "ws-1", "dashboardId": "dash-9"}, fullPath)
	from := f.desc(t, routing.SignInRouteName, nil, "/sign-in")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	require.False(t, decision.Proceed())
	assert.Equal(t, routing.SignOutRouteName, decision.Redirect.Name)
	assert.Equal(t, fullPath, decision.Redirect.Query[NextPathQueryParam])
}

func TestUnauthenticatedUserReachesOpenRoutes(t *testing.T) {
	f := newFixture(t)

	to := f.desc(t, routing.SignInRouteName, nil, "/sign-in")
	from := f.desc(t, routing.ErrorRouteName, nil, "/error")

	decision := f.guard.BeforeNavigate(context.Background(), to, from)
	assert.True(t, decision.Proceed())
	assert.Equal(t, 0, f.session.refreshCalls)
}

func TestDeniedNavigationRaisesThenNextAttemptClearsBanner(t *testing.T) {
	f := newFixture(t)
	f.session.tokenAlive = true
	f.state.SetRoleInfo(workspaceMember())

	to := f.desc(t, "admin.iam.user", nil, "/admin/iam/user")
	from := f.desc(t, routing.HomeDashboardRouteName, nil, "/")

	f.guard.BeforeNavigate(context.Background(), to, from)
	// The banner is raised for the denial and cleared when the decision
	// finalizes, ready for the next attempt.
	assert.False(t, f.state.AuthzErrorVisible())
}

func TestAfterNavigateRecordsRecentItem(t *testing.T) {
	f := newFixture(t)
	f.state.SetRoleInfo(workspaceMember())

	to := f.desc(t, "dashboards.detail",
		map[string]string{routing.WorkspaceIDParam: "ws-1", "dashboardId": "dash-1"},
		"/workspace/ws-1/dashboards/dash-1")

	f.guard.AfterNavigate(context.Background(), to)
	require.Len(t, f.recents.items, 1)
	assert.Equal(t, "dashboard", f.recents.items[0].ItemType)
	assert.Equal(t, "dash-1", f.recents.items[0].ItemID)
	assert.Equal(t, "ws-1", f.recents.items[0].WorkspaceID)
}

func TestAfterNavigateSkipsDomainAdmins(t *testing.T) {
	f := newFixture(t)
	f.state.SetRoleInfo(domainAdmin())

	to := f.desc(t, "dashboards.detail",
		map[string]string{routing.WorkspaceIDParam: "ws-1", "dashboardId": "dash-1"},
		"/workspace/ws-1/dashboards/dash-1")

	f.guard.AfterNavigate(context.Background(), to)
	assert.Empty(t, f.recents.items)
}

func TestAfterNavigateSkipsRoutesWithoutRecentMeta(t *testing.T) {
	f := newFixture(t)
	f.state.SetRoleInfo(workspaceMember())

	to := f.desc(t, "dashboards.all", map[string]string{routing.WorkspaceIDParam: "ws-1"}, "/workspace/ws-1/dashboards")
	f.guard.AfterNavigate(context.Background(), to)
	assert.Empty(t, f.recents.items)
}
