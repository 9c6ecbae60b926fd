package access

import (
	"fmt"
	"strings"
)

// permKind tags the three permission shapes
type permKind int

const (
	permAll permKind = iota
	permMenuWildcard
	permMenuItem
)

// Permission is one parsed page-access entry:
// all pages ("*"), a whole menu ("<menu>.*"), or one sub-menu ("<menu>.<sub>").
type Permission struct {
	kind      permKind
	menuID    string
	subMenuID string
}

// ParsePermission parses a single wire-format page-access entry
func ParsePermission(s string) (Permission, error) {
	if s == "*" {
		return Permission{kind: permAll}, nil
	}

	menuID, rest, found := strings.Cut(s, ".")
	if !found || menuID == "" || rest == "" {
		return Permission{}, fmt.Errorf("malformed page access entry %q", s)
	}
	if rest == "*" {
		return Permission{kind: permMenuWildcard, menuID: menuID}, nil
	}
	return Permission{kind: permMenuItem, menuID: menuID, subMenuID: rest}, nil
}

// Satisfies reports whether this permission covers the given menu item.
// An empty subMenuID asks for menu-level access.
func (p Permission) Satisfies(menuID, subMenuID string) bool {
	switch p.kind {
	case permAll:
		return true
	case permMenuWildcard:
		return p.menuID == menuID
	case permMenuItem:
		if p.menuID != menuID {
			return false
		}
		return subMenuID == "" || p.subMenuID == subMenuID
	default:
		return false
	}
}

// PageAccess is a parsed permission set
type PageAccess []Permission

// ParsePageAccess parses the wire-format entries, skipping malformed ones.
// The grant endpoint owns entry validity; a bad entry must not take down
// every other permission the role carries.
func ParsePageAccess(entries []string) PageAccess {
	parsed := make(PageAccess, 0, len(entries))
	for _, e := range entries {
		p, err := ParsePermission(e)
		if err != nil {
			continue
		}
		parsed = append(parsed, p)
	}
	return parsed
}

// HasWildcard reports whether the set carries full page access
func (pa PageAccess) HasWildcard() bool {
	for _, p := range pa {
		if p.kind == permAll {
			return true
		}
	}
	return false
}

// Satisfies reports whether any permission in the set covers the menu item
func (pa PageAccess) Satisfies(menuID, subMenuID string) bool {
	for _, p := range pa {
		if p.Satisfies(menuID, subMenuID) {
			return true
		}
	}
	return false
}
