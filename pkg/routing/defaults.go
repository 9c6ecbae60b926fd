package routing

import "github.com/cloudsteer/console-core/pkg/access"

// DefaultRoutes returns the console route table.
//
// Workspace routes nest under /workspace/{workspaceId}; their admin-mode
// variants carry the admin. name prefix and live under /admin. Auth and
// error routes sit outside both modes.
func DefaultRoutes() []Route {
	return []Route{
		{
			Name: HomeDashboardRouteName,
			Path: "/",
			Meta: Meta{AccessLevel: access.Authenticated},
		},
		{
			Name: SignInRouteName,
			Path: "/sign-in",
			Meta: Meta{AccessLevel: access.ExcludeAuth, IsSignInPage: true},
		},
		{
			Name: SignOutRouteName,
			Path: "/sign-out",
			Meta: Meta{AccessLevel: access.ExcludeAuth},
		},
		{
			Name: ResetPasswordRouteName,
			Path: "/reset-password",
			Meta: Meta{AccessLevel: access.Authenticated},
		},
		{
			Name: ErrorRouteName,
			Path: "/error",
			Meta: Meta{AccessLevel: access.ExcludeAuth},
		},

		// Dashboards
		{
			Name: "dashboards.all",
			Path: "/workspace/{workspaceId}/dashboards",
			Meta: Meta{AccessLevel: access.WorkspacePermission, MenuID: "dashboards"},
		},
		{
			Name: "dashboards.detail",
			Path: "/workspace/{workspaceId}/dashboards/{dashboardId}",
			Meta: Meta{
				AccessLevel: access.WorkspacePermission,
				MenuID:      "dashboards",
				Recent:      &RecentMeta{ItemType: "dashboard", IDParam: "dashboardId"},
			},
		},
		{
			Name: "admin.dashboards.all",
			Path: "/admin/dashboards",
			Meta: Meta{AccessLevel: access.AdminPermission, MenuID: "dashboards"},
		},
		{
			Name: "admin.dashboards.detail",
			Path: "/admin/dashboards/{dashboardId}",
			Meta: Meta{AccessLevel: access.AdminPermission, MenuID: "dashboards"},
		},

		// Asset inventory
		{
			Name: "asset-inventory.cloud-service",
			Path: "/workspace/{workspaceId}/asset-inventory/cloud-service",
			Meta: Meta{
				AccessLevel: access.WorkspacePermission,
				MenuID:      "asset-inventory",
				SubMenuID:   "cloud-service",
			},
		},
		{
			Name: "asset-inventory.cloud-service.detail",
			Path: "/workspace/{workspaceId}/asset-inventory/cloud-service/{cloudServiceId}",
			Meta: Meta{
				AccessLevel: access.WorkspacePermission,
				MenuID:      "asset-inventory",
				SubMenuID:   "cloud-service",
				Recent:      &RecentMeta{ItemType: "cloudService", IDParam: "cloudServiceId"},
			},
		},
		{
			Name: "asset-inventory.collector",
			Path: "/workspace/{workspaceId}/asset-inventory/collector",
			Meta: Meta{
				AccessLevel: access.WorkspacePermission,
				MenuID:      "asset-inventory",
				SubMenuID:   "collector",
			},
		},
		{
			Name: "admin.asset-inventory.collector",
			Path: "/admin/asset-inventory/collector",
			Meta: Meta{AccessLevel: access.AdminPermission, MenuID: "asset-inventory", SubMenuID: "collector"},
		},

		// Cost explorer
		{
			Name: "cost-explorer.cost-analysis",
			Path: "/workspace/{workspaceId}/cost-explorer/cost-analysis/{costQuerySetId}",
			Meta: Meta{
				AccessLevel: access.WorkspacePermission,
				MenuID:      "cost-explorer",
				SubMenuID:   "cost-analysis",
				Recent:      &RecentMeta{ItemType: "costAnalysis", IDParam: "costQuerySetId"},
			},
		},

		// Alert manager
		{
			Name: "alert-manager.alerts",
			Path: "/workspace/{workspaceId}/alert-manager/alerts",
			Meta: Meta{
				AccessLevel: access.WorkspacePermission,
				MenuID:      "alert-manager",
				SubMenuID:   "alerts",
			},
		},

		// IAM
		{
			Name: "iam.user",
			Path: "/workspace/{workspaceId}/iam/user",
			Meta: Meta{AccessLevel: access.WorkspacePermission, MenuID: "iam", SubMenuID: "user"},
		},
		{
			Name: "admin.iam.user",
			Path: "/admin/iam/user",
			Meta: Meta{AccessLevel: access.AdminPermission, MenuID: "iam", SubMenuID: "user"},
		},
		{
			Name: "admin.iam.role",
			Path: "/admin/iam/role",
			Meta: Meta{AccessLevel: access.AdminPermission, MenuID: "iam", SubMenuID: "role"},
		},
	}
}
