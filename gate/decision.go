package gate

// Decision is the result of one authorization evaluation.
type Decision uint8

const (
	// Pending means the session has not finished loading.
	Pending Decision = iota
	// Allow means the destination may be opened.
	Allow
	// DenyRedirectLogin means nobody is signed in.
	DenyRedirectLogin
	// DenyRedirectHome means the signed-in role is insufficient.
	DenyRedirectHome
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case DenyRedirectLogin:
		return "deny_redirect_login"
	case DenyRedirectHome:
		return "deny_redirect_home"
	default:
		return "unknown"
	}
}

// Denied reports whether d is one of the deny decisions.
func (d Decision) Denied() bool {
	return d == DenyRedirectLogin || d == DenyRedirectHome
}
