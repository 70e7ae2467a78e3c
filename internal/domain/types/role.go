package types

import (
	"fmt"
	"strings"
)

// Role es un rol plano del sistema. El conjunto es cerrado: cualquier nombre
// fuera de esta enumeración se rechaza al parsear.
type Role uint8

const (
	// RoleUser corresponde a ROLE_USER.
	RoleUser Role = 1 << iota
	// RoleAdmin corresponde a ROLE_ADMIN.
	RoleAdmin
)

// allRoles en orden estable (usado para serializar).
var allRoles = []Role{RoleUser, RoleAdmin}

// String devuelve el nombre persistido del rol (ROLE_*).
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "ROLE_USER"
	case RoleAdmin:
		return "ROLE_ADMIN"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ErrUnknownRole indica un nombre de rol fuera de la enumeración.
type ErrUnknownRole struct{ Name string }

func (e ErrUnknownRole) Error() string { return "unknown role: " + e.Name }

// ParseRole convierte un nombre persistido en Role. Acepta tanto "ROLE_ADMIN"
// como "admin" (sin prefijo), sin distinguir mayúsculas.
func ParseRole(name string) (Role, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "ROLE_") {
		n = "ROLE_" + n
	}
	for _, r := range allRoles {
		if r.String() == n {
			return r, nil
		}
	}
	return 0, ErrUnknownRole{Name: name}
}

// RoleSet es un conjunto de roles. No hay jerarquía: RoleAdmin no implica RoleUser.
type RoleSet uint8

// NewRoleSet construye un conjunto con los roles dados.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= RoleSet(r)
	}
	return s
}

// ParseRoleSet convierte nombres persistidos en un RoleSet.
func ParseRoleSet(names []string) (RoleSet, error) {
	var s RoleSet
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return 0, err
		}
		s |= RoleSet(r)
	}
	return s, nil
}

// Has indica si el conjunto contiene el rol.
func (s RoleSet) Has(r Role) bool { return s&RoleSet(r) != 0 }

// Intersects indica si ambos conjuntos comparten al menos un rol.
func (s RoleSet) Intersects(o RoleSet) bool { return s&o != 0 }

// Empty indica si el conjunto está vacío.
func (s RoleSet) Empty() bool { return s == 0 }

// Roles devuelve los roles del conjunto en orden estable.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(allRoles))
	for _, r := range allRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Names devuelve los nombres persistidos (ROLE_*) en orden estable.
func (s RoleSet) Names() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}

func (s RoleSet) String() string { return "[" + strings.Join(s.Names(), " ") + "]" }
