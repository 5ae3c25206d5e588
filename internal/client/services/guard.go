package services

// View names a screen of the client.
type View string

const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
)

// Authenticator is the one question the guard asks.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard protects views that require a live session.
type Guard struct {
	auth      Authenticator
	protected map[View]bool
}

// NewGuard protects the given views.
func NewGuard(auth Authenticator, protected ...View) *Guard {
	g := &Guard{auth: auth, protected: make(map[View]bool, len(protected))}
	for _, v := range protected {
		g.protected[v] = true
	}
	return g
}

// CanActivate reports whether a protected view may be shown right now.
func (g *Guard) CanActivate() bool {
	return g.auth.IsAuthenticated()
}

// Resolve returns the view to show when v is requested: v itself, or the
// login view when v is protected and the session is not authenticated.
func (g *Guard) Resolve(v View) View {
	if g.protected[v] && !g.CanActivate() {
		return ViewLogin
	}
	return v
}
