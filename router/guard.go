package router

import "library-client/token"

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Allow    bool
	Redirect Name
}

// Guard decides whether a session holding a role may enter a route.
type Guard struct{}

// Check applies the rules in order and returns the first that matches:
//
//  1. the destination declares no role: allow
//  2. the required role is the current role: allow
//  3. the session is a user: go to UserCatalog
//  4. the session is a librarian: go to LibrarianDashboard
//  5. the destination needs a librarian: go to LibrarianLogin
//  6. the destination needs a user: go to UserLogin
func (Guard) Check(required, current token.Role) Decision {
	switch {
	case required == token.RoleNone:
		return Decision{Allow: true}
	case required == current:
		return Decision{Allow: true}
	case current == token.RoleUser:
		return Decision{Redirect: UserCatalog}
	case current == token.RoleLibrarian:
		return Decision{Redirect: LibrarianDashboard}
	case required == token.RoleLibrarian:
		return Decision{Redirect: LibrarianLogin}
	default:
		return Decision{Redirect: UserLogin}
	}
}
