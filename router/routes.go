package router

import "library-client/token"

// Name identifies a view.
type Name string

const (
	UserLogin      Name = "UserLogin"
	LibrarianLogin Name = "LibrarianLogin"

	UserCatalog     Name = "UserCatalog"
	UserRequest     Name = "UserRequest"
	UserMyEbooks    Name = "UserMyEbooks"
	UserEbookDetail Name = "UserEbookDetail"
	UserStats       Name = "UserStats"

	LibrarianDashboard      Name = "LibrarianDashboard"
	LibrarianEbookDashboard Name = "LibrarianEbookDashboard"
	LibrarianRequest        Name = "LibrarianRequest"
	LibrarianStats          Name = "LibrarianStats"
	LibrarianSectionCreate  Name = "LibrarianSectionCreate"
	LibrarianSectionDetail  Name = "LibrarianSectionDetail"
	LibrarianSectionUpdate  Name = "LibrarianSectionUpdate"
	LibrarianEbookCreate    Name = "LibrarianEbookCreate"
	LibrarianEbookUpdate    Name = "LibrarianEbookUpdate"
	LibrarianEbookDetail    Name = "LibrarianEbookDetail"
)

// Route is one entry of the route table. A route with a Redirect has no view
// of its own.
type Route struct {
	Name     Name
	Pattern  string
	Role     token.Role
	Redirect string
}

// table is matched in order; fixed segments are listed before the
// parameterized routes they would otherwise be shadowed by.
var table = []Route{
	{Pattern: "/", Redirect: "/user-login"},
	{Name: UserLogin, Pattern: "/user-login"},
	{Name: LibrarianLogin, Pattern: "/librarian-login"},

	{Pattern: "/user", Role: token.RoleUser, Redirect: "/user/catalog"},
	{Name: UserCatalog, Pattern: "/user/catalog", Role: token.RoleUser},
	{Name: UserRequest, Pattern: "/user/request/:ebookId", Role: token.RoleUser},
	{Name: UserMyEbooks, Pattern: "/user/my-ebooks", Role: token.RoleUser},
	{Name: UserEbookDetail, Pattern: "/user/section/:sectionId/ebook/:ebookId", Role: token.RoleUser},
	{Name: UserStats, Pattern: "/user/stats", Role: token.RoleUser},

	{Pattern: "/librarian", Role: token.RoleLibrarian, Redirect: "/librarian/dashboard"},
	{Name: LibrarianDashboard, Pattern: "/librarian/dashboard", Role: token.RoleLibrarian},
	{Name: LibrarianEbookDashboard, Pattern: "/librarian/ebook-dashboard", Role: token.RoleLibrarian},
	{Name: LibrarianRequest, Pattern: "/librarian/request", Role: token.RoleLibrarian},
	{Name: LibrarianStats, Pattern: "/librarian/stats", Role: token.RoleLibrarian},
	{Name: LibrarianSectionCreate, Pattern: "/librarian/section/create", Role: token.RoleLibrarian},
	{Name: LibrarianSectionDetail, Pattern: "/librarian/section/:sectionId", Role: token.RoleLibrarian},
	{Name: LibrarianSectionUpdate, Pattern: "/librarian/section/update/:sectionId", Role: token.RoleLibrarian},
	{Name: LibrarianEbookCreate, Pattern: "/librarian/section/:sectionId/ebook/create", Role: token.RoleLibrarian},
	{Name: LibrarianEbookUpdate, Pattern: "/librarian/section/:sectionId/ebook/update/:ebookId", Role: token.RoleLibrarian},
	{Name: LibrarianEbookDetail, Pattern: "/librarian/section/:sectionId/ebook/:ebookId", Role: token.RoleLibrarian},
}

// Routes returns the named routes in table order.
func Routes() []Route {
	var named []Route
	for _, r := range table {
		if r.Name != "" {
			named = append(named, r)
		}
	}
	return named
}

func lookup(name Name) (Route, bool) {
	for _, r := range table {
		if r.Name == name && name != "" {
			return r, true
		}
	}
	return Route{}, false
}
