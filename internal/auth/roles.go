package auth

import "fmt"

// Role is what a logged-in user chose to act as for the session. A user
// picks one after login; until then the session carries no role.
type Role string

const (
	// RoleSiteManager monitors assigned sites and updates their status.
	RoleSiteManager Role = "site_manager"
	// RoleGlobalManager oversees every site, edits them and manages
	// their resources.
	RoleGlobalManager Role = "global_manager"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSiteManager, RoleGlobalManager:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanManageSites reports whether the role may create or edit sites and
// their resources, reservations included.
func (r Role) CanManageSites() bool { return r == RoleGlobalManager }

// CanSetStatus reports whether the role may change a site's status.
func (r Role) CanSetStatus() bool { return r == RoleSiteManager || r == RoleGlobalManager }
