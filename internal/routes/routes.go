// Package routes declares the role-scoped page trees of the web application
// and the authorization gate that fronts them. API authorization lives in the
// middleware package; this gate covers navigations to page paths, redirecting
// rather than rejecting.
package routes

import (
	"roadsense/api/internal/models"
)

type Route struct {
	Path      string
	Protected bool
	// Roles is the allowed-role set for a protected route. Empty means any
	// authenticated role.
	Roles []models.UserRole
}

func PublicRoutes() []Route {
	return []Route{
		{Path: "/"},
		{Path: "/about"},
		{Path: "/contact"},
		{Path: "/map"},
	}
}

func AuthRoutes() []Route {
	return []Route{
		{Path: "/login"},
		{Path: "/register/citizen"},
		{Path: "/register/official"},
		{Path: "/admin/login"},
		{Path: "/unauthorized"},
	}
}

func CitizenRoutes() []Route {
	citizen := []models.UserRole{models.UserRoleCitizen}
	return []Route{
		{Path: "/citizen/dashboard", Protected: true, Roles: citizen},
		{Path: "/citizen/report-issue", Protected: true, Roles: citizen},
		{Path: "/citizen/reports", Protected: true, Roles: citizen},
		{Path: "/citizen/reports/:id", Protected: true, Roles: citizen},
		{Path: "/citizen/map", Protected: true, Roles: citizen},
		{Path: "/citizen/notifications", Protected: true, Roles: citizen},
		{Path: "/citizen/profile", Protected: true, Roles: citizen},
		{Path: "/citizen/help", Protected: true, Roles: citizen},
	}
}

func OfficialRoutes() []Route {
	official := []models.UserRole{models.UserRoleOfficial}
	return []Route{
		{Path: "/official/dashboard", Protected: true, Roles: official},
		{Path: "/official/reports", Protected: true, Roles: official},
		{Path: "/official/reports/:id", Protected: true, Roles: official},
		{Path: "/official/teams", Protected: true, Roles: official},
		{Path: "/official/analytics", Protected: true, Roles: official},
		{Path: "/official/zones", Protected: true, Roles: official},
		{Path: "/official/notifications", Protected: true, Roles: official},
		{Path: "/official/profile", Protected: true, Roles: official},
	}
}

func AdminRoutes() []Route {
	admin := []models.UserRole{models.UserRoleAdmin}
	return []Route{
		{Path: "/admin", Protected: true, Roles: admin},
		{Path: "/admin/dashboard", Protected: true, Roles: admin},
		{Path: "/admin/users", Protected: true, Roles: admin},
		{Path: "/admin/users/:userId", Protected: true, Roles: admin},
		{Path: "/admin/officials/verify", Protected: true, Roles: admin},
		{Path: "/admin/reports", Protected: true, Roles: admin},
	}
}

// All merges the per-domain tables. Composition is plain concatenation;
// declaration order decides conflicts.
func All() []Route {
	var all []Route
	all = append(all, PublicRoutes()...)
	all = append(all, AuthRoutes()...)
	all = append(all, CitizenRoutes()...)
	all = append(all, OfficialRoutes()...)
	all = append(all, AdminRoutes()...)
	return all
}

// DefaultDashboard maps a role to its landing page. The switch is exhaustive
// over the role enum so a new role fails to compile here rather than silently
// falling through to the login page.
func DefaultDashboard(role models.UserRole) string {
	switch role {
	case models.UserRoleCitizen:
		return "/citizen/dashboard"
	case models.UserRoleOfficial:
		return "/official/dashboard"
	case models.UserRoleAdmin:
		return "/admin/dashboard"
	}
	return "/login"
}
