package authn

import "errors"

// Kind clasifica por qué se rechazó un request.
type Kind uint8

const (
	MissingCredential Kind = iota + 1
	InvalidSignature
	UnknownPrincipal
	SupersededSession
	ExpiredSession
	InsufficientRole
)

func (k Kind) String() string {
	switch k {
	case MissingCredential:
		return "missing_credential"
	case InvalidSignature:
		return "invalid_signature"
	case UnknownPrincipal:
		return "unknown_principal"
	case SupersededSession:
		return "superseded_session"
	case ExpiredSession:
		return "expired_session"
	case InsufficientRole:
		return "insufficient_role"
	}
	return "unknown"
}

// Rejection es el error que devuelven Gate y Authorize.
// errors.Is compara por Kind, así que sirven los sentinels de abajo.
type Rejection struct {
	Kind Kind
	Err  error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return "authn: " + r.Kind.String() + ": " + r.Err.Error()
	}
	return "authn: " + r.Kind.String()
}

func (r *Rejection) Unwrap() error { return r.Err }

func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Kind == r.Kind
}

var (
	ErrMissingCredential = &Rejection{Kind: MissingCredential}
	ErrInvalidSignature  = &Rejection{Kind: InvalidSignature}
	ErrUnknownPrincipal  = &Rejection{Kind: UnknownPrincipal}
	ErrSupersededSession = &Rejection{Kind: SupersededSession}
	ErrExpiredSession    = &Rejection{Kind: ExpiredSession}
	ErrInsufficientRole  = &Rejection{Kind: InsufficientRole}
)

func reject(k Kind, cause error) error {
	return &Rejection{Kind: k, Err: cause}
}

// KindOf extrae el Kind de err si es (o envuelve) un *Rejection.
func KindOf(err error) (Kind, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Kind, true
	}
	return 0, false
}
