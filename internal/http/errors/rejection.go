package errors

import "github.com/dropDatabas3/ezdine/internal/authn"

// FromRejection mapea un rechazo del gate a su AppError:
//
//	MissingCredential  403 TOKEN_MISSING
//	InvalidSignature   401 TOKEN_INVALID
//	UnknownPrincipal   401 TOKEN_INVALID
//	SupersededSession  403 SESSION_SUPERSEDED
//	ExpiredSession     403 SESSION_EXPIRED
//	InsufficientRole   403 INSUFFICIENT_ROLE
//
// ok es false si err no es un *authn.Rejection.
func FromRejection(err error) (appErr *AppError, ok bool) {
	kind, ok := authn.KindOf(err)
	if !ok {
		return nil, false
	}
	switch kind {
	case authn.MissingCredential:
		appErr = ErrTokenMissing
	case authn.InvalidSignature, authn.UnknownPrincipal:
		appErr = ErrTokenInvalid
	case authn.SupersededSession:
		appErr = ErrSessionSuperseded
	case authn.ExpiredSession:
		appErr = ErrSessionExpired
	case authn.InsufficientRole:
		appErr = ErrInsufficientRole
	default:
		return nil, false
	}
	return appErr.WithCause(err), true
}
