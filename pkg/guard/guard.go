package guard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cloudsteer/console-core/pkg/access"
	"github.com/cloudsteer/console-core/pkg/async"
	"github.com/cloudsteer/console-core/pkg/identity"
	"github.com/cloudsteer/console-core/pkg/observability"
	"github.com/cloudsteer/console-core/pkg/recent"
	"github.com/cloudsteer/console-core/pkg/reference"
	"github.com/cloudsteer/console-core/pkg/routing"
)

const (
	adminPathPrefix = "/admin"

	// NextPathQueryParam preserves the intended destination across the
	// sign-out redirect so sign-in can resume navigation.
	NextPathQueryParam = "nextPath"

	// StatusCodeParam carries the HTTP-style status on error redirects
	StatusCodeParam = "statusCode"
)

// Decision is the guard's answer for one navigation attempt
type Decision struct {
	// Redirect is nil when navigation proceeds to the requested route
	Redirect *routing.Location
}

// Proceed reports whether navigation continues to the requested route
func (d Decision) Proceed() bool {
	return d.Redirect == nil
}

func proceed() Decision {
	return Decision{}
}

func redirectTo(name string, params, query map[string]string) Decision {
	return Decision{Redirect: &routing.Location{Name: name, Params: params, Query: query}}
}

func redirectError(status int) Decision {
	return redirectTo(routing.ErrorRouteName, map[string]string{StatusCodeParam: strconv.Itoa(status)}, nil)
}

// SessionReader is the slice of the session manager the guard needs
type SessionReader interface {
	IsTokenAlive() bool
	RefreshToken() string
	RefreshAccessToken(ctx context.Context) bool
}

// RoleGranter requests a scoped role grant
type RoleGranter interface {
	Grant(ctx context.Context, scope identity.GrantScope, refreshToken, workspaceID string) (*identity.RoleInfo, error)
}

// ReferenceReloader reloads all reference caches after a scope change
type ReferenceReloader interface {
	LoadAll(ctx context.Context, opts reference.Options)
}

// RecentRecorder receives visited-resource records after navigation commits
type RecentRecorder interface {
	Record(ctx context.Context, item recent.Item)
}

// Options wires a Guard's collaborators
type Options struct {
	Registry   *routing.Registry
	Session    SessionReader
	Granter    RoleGranter
	References ReferenceReloader
	Recents    RecentRecorder
	State      *State
	Logger     *observability.Logger
	Metrics    *observability.Metrics

	// SyncReload makes the post-grant reference reload block the
	// navigation decision. Production keeps it off; tests that assert
	// on cache contents turn it on.
	SyncReload bool
	// ReloadTimeout bounds the detached post-grant reload
	ReloadTimeout time.Duration
}

// Guard evaluates every navigation against the session's granted role
type Guard struct {
	registry      *routing.Registry
	session       SessionReader
	granter       RoleGranter
	references    ReferenceReloader
	recents       RecentRecorder
	state         *State
	logger        *observability.Logger
	metrics       *observability.Metrics
	syncReload    bool
	reloadTimeout time.Duration
}

// New creates a navigation guard
func New(opts Options) *Guard {
	reloadTimeout := opts.ReloadTimeout
	if reloadTimeout == 0 {
		reloadTimeout = 30 * time.Second
	}
	return &Guard{
		registry:      opts.Registry,
		session:       opts.Session,
		granter:       opts.Granter,
		references:    opts.References,
		recents:       opts.Recents,
		state:         opts.State,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		syncReload:    opts.SyncReload,
		reloadTimeout: reloadTimeout,
	}
}

// BeforeNavigate decides one route transition from `from` to `to`.
//
// The role grant, when required, completes before the access level is
// computed; the reference reload it triggers does not block the
// decision. Grant failures fail open (role info cleared, navigation
// continues), access comparison fails closed.
func (g *Guard) BeforeNavigate(ctx context.Context, to, from routing.Descriptor) Decision {
	// The banner from a previous denial never outlives the next attempt.
	defer g.state.ClearAuthzError()

	decision := g.decide(ctx, to, from)
	if decision.Proceed() {
		g.metrics.NavigationsTotal.WithLabelValues("proceed").Inc()
	} else {
		g.metrics.NavigationsTotal.WithLabelValues("redirect").Inc()
	}
	return decision
}

func (g *Guard) decide(ctx context.Context, to, from routing.Descriptor) Decision {
	if g.grantRequired(to, from) {
		g.grant(ctx, to, from)
	}

	roleInfo := g.state.RoleInfo()
	tokenAlive := g.session.IsTokenAlive()
	pageAccess := access.PageAccess(nil)
	if roleInfo != nil {
		pageAccess = access.ParsePageAccess(roleInfo.PageAccess)
	}

	userLevel := access.UserLevel(to.Meta.MenuID, to.Meta.SubMenuID, roleInfo.IsDomainAdmin(), pageAccess, tokenAlive)
	routeLevel := to.Meta.AccessLevel

	if userLevel >= access.Authenticated {
		// The admin-mode conversion is provisional: the checks below can
		// still override it, so a forced password reset wins even when
		// the target resolves to an admin route.
		provisional, provisionalReason := g.adminRedirect(to, from, roleInfo, pageAccess, tokenAlive)

		if g.state.NeedPwdReset() &&
			to.Name != routing.ResetPasswordRouteName && to.Name != routing.SignOutRouteName {
			g.redirected("password_reset")
			return redirectTo(routing.ResetPasswordRouteName, nil, nil)
		}
		if to.Meta.IsSignInPage {
			g.redirected("sign_in_page")
			return redirectTo(routing.HomeDashboardRouteName, nil, nil)
		}
		if userLevel < routeLevel {
			g.state.ShowAuthzError()
			g.redirected("forbidden")
			return redirectError(403)
		}
		if provisional != nil {
			g.redirected(provisionalReason)
			return *provisional
		}
		return proceed()
	}

	if routeLevel >= access.Authenticated {
		if g.session.RefreshAccessToken(ctx) {
			g.metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
			return proceed()
		}
		g.metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		g.redirected("sign_out")
		return redirectTo(routing.SignOutRouteName, nil, map[string]string{NextPathQueryParam: to.FullPath})
	}

	return proceed()
}

// grantRequired implements the re-grant skip logic: navigation that
// continues an admin context or stays in the same workspace keeps the
// current grant.
func (g *Guard) grantRequired(to, from routing.Descriptor) bool {
	if g.registry.IsAdminRoute(to.Name) && strings.HasPrefix(from.FullPath, adminPathPrefix) {
		return false
	}
	toWorkspace := to.Param(routing.WorkspaceIDParam)
	if toWorkspace != "" && toWorkspace == from.Param(routing.WorkspaceIDParam) {
		return false
	}
	// A dead access token takes the silent-refresh path instead;
	// granting against a stale session would mint the wrong scope.
	return g.session.RefreshToken() != "" && g.session.IsTokenAlive() && to.Name != routing.ErrorRouteName
}

func (g *Guard) grant(ctx context.Context, to, from routing.Descriptor) {
	scope := identity.ScopeUser
	workspaceID := ""
	switch {
	case g.registry.IsAdminRoute(to.Name) || strings.HasPrefix(from.FullPath, adminPathPrefix):
		scope = identity.ScopeDomain
	case to.Param(routing.WorkspaceIDParam) != "":
		scope = identity.ScopeWorkspace
		workspaceID = to.Param(routing.WorkspaceIDParam)
	}

	roleInfo, err := g.granter.Grant(ctx, scope, g.session.RefreshToken(), workspaceID)
	if err != nil {
		// Fail open: navigation continues without a cached role and the
		// access comparison below denies anything privileged.
		g.logger.WithError(err).WithField("scope", string(scope)).Error("Role grant failed")
		g.state.ResetRoleInfo()
		return
	}
	g.state.SetRoleInfo(roleInfo)
	// A USER-scope grant carries no role and exposes no new resources;
	// only a real role change warrants refetching the reference maps.
	if roleInfo != nil {
		g.reloadReferences(ctx)
	}
}

// reloadReferences refreshes every reference cache for the new scope.
// Detached from the navigation decision unless SyncReload is set.
func (g *Guard) reloadReferences(ctx context.Context) {
	if g.references == nil {
		return
	}
	if g.syncReload {
		g.references.LoadAll(ctx, reference.Options{Force: true})
		return
	}
	async.SafeGoNoError(g.logger, g.reloadTimeout, "reference-reload", func(ctx context.Context) {
		g.references.LoadAll(ctx, reference.Options{Force: true})
	})
}

// adminRedirect converts a workspace route into its admin-mode variant
// when the shell is already in admin mode. The result is provisional: a
// nil decision means the target stays as requested, and either way the
// password-reset, sign-in, and access checks still run and may override.
func (g *Guard) adminRedirect(to, from routing.Descriptor, roleInfo *identity.RoleInfo, pageAccess access.PageAccess, tokenAlive bool) (*Decision, string) {
	if !strings.HasPrefix(from.FullPath, adminPathPrefix) {
		return nil, ""
	}
	if g.registry.IsAdminRoute(to.Name) || to.Name == routing.ErrorRouteName {
		return nil, ""
	}

	adminName, ok := g.registry.AdminEquivalent(to.Name)
	if !ok {
		d := redirectError(404)
		return &d, "admin_not_found"
	}
	adminRoute, _ := g.registry.Resolve(adminName)

	adminUserLevel := access.UserLevel(adminRoute.Meta.MenuID, adminRoute.Meta.SubMenuID, roleInfo.IsDomainAdmin(), pageAccess, tokenAlive)
	if adminRoute.Meta.AccessLevel == access.AdminPermission && adminUserLevel == access.AdminPermission {
		d := redirectTo(adminName, to.Params, to.Query)
		return &d, "admin_mode"
	}
	d := redirectError(404)
	return &d, "admin_not_found"
}

// AfterNavigate records the visited resource once navigation commits.
// Domain admins browse across workspaces, their visits are not tracked.
func (g *Guard) AfterNavigate(ctx context.Context, to routing.Descriptor) {
	if g.recents == nil || to.Meta.Recent == nil {
		return
	}
	if g.state.RoleInfo().IsDomainAdmin() {
		return
	}
	itemID := to.Param(to.Meta.Recent.IDParam)
	if itemID == "" {
		return
	}
	g.recents.Record(ctx, recent.Item{
		ItemType:    to.Meta.Recent.ItemType,
		ItemID:      itemID,
		WorkspaceID: to.Param(routing.WorkspaceIDParam),
	})
}

func (g *Guard) redirected(reason string) {
	g.metrics.RedirectsTotal.WithLabelValues(reason).Inc()
}
