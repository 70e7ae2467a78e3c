package authn

import "github.com/dropDatabas3/ezdine/internal/domain/types"

// Authorize permite el acceso si la sesión tiene al menos uno de los roles
// requeridos. Un conjunto vacío no exige nada. Los roles son planos: admin
// no implica user.
func Authorize(s *VerifiedSession, required types.RoleSet) error {
	if required.Empty() {
		return nil
	}
	if s == nil {
		return ErrMissingCredential
	}
	if s.Roles.Intersects(required) {
		return nil
	}
	return ErrInsufficientRole
}
