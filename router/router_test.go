package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-client/token"
)

type role token.Role

func (r role) Role() token.Role { return token.Role(r) }

var (
	guest     = role(token.RoleNone)
	user      = role(token.RoleUser)
	librarian = role(token.RoleLibrarian)
)

func TestGuard_Check(t *testing.T) {
	tests := []struct {
		name              string
		required, current token.Role
		want              Decision
	}{
		{"public route for guest", token.RoleNone, token.RoleNone, Decision{Allow: true}},
		{"public route for user", token.RoleNone, token.RoleUser, Decision{Allow: true}},
		{"public route for librarian", token.RoleNone, token.RoleLibrarian, Decision{Allow: true}},
		{"user route for user", token.RoleUser, token.RoleUser, Decision{Allow: true}},
		{"librarian route for librarian", token.RoleLibrarian, token.RoleLibrarian, Decision{Allow: true}},
		{"librarian route for user", token.RoleLibrarian, token.RoleUser, Decision{Redirect: UserCatalog}},
		{"user route for librarian", token.RoleUser, token.RoleLibrarian, Decision{Redirect: LibrarianDashboard}},
		{"librarian route for guest", token.RoleLibrarian, token.RoleNone, Decision{Redirect: LibrarianLogin}},
		{"user route for guest", token.RoleUser, token.RoleNone, Decision{Redirect: UserLogin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guard{}.Check(tt.required, tt.current))
		})
	}
}

func TestRouter_Resolve(t *testing.T) {
	r := New(guest)
	tests := []struct {
		path   string
		name   Name
		params Params
	}{
		{"/user-login", UserLogin, Params{}},
		{"/user/catalog/", UserCatalog, Params{}},
		{"/user/request/12?from=catalog", UserRequest, Params{"ebookId": "12"}},
		{"/user/section/3/ebook/9", UserEbookDetail, Params{"sectionId": "3", "ebookId": "9"}},
		{"/librarian/section/create", LibrarianSectionCreate, Params{}},
		{"/librarian/section/4", LibrarianSectionDetail, Params{"sectionId": "4"}},
		{"/librarian/section/update/4", LibrarianSectionUpdate, Params{"sectionId": "4"}},
		{"/librarian/section/4/ebook/create", LibrarianEbookCreate, Params{"sectionId": "4"}},
		{"/librarian/section/4/ebook/update/8", LibrarianEbookUpdate, Params{"sectionId": "4", "ebookId": "8"}},
		{"/librarian/section/4/ebook/8", LibrarianEbookDetail, Params{"sectionId": "4", "ebookId": "8"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.name, m.Route.Name)
			assert.Equal(t, tt.params, m.Params)
		})
	}

	_, err := r.Resolve("/nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Resolve("/user/section/3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRouter_Navigate(t *testing.T) {
	tests := []struct {
		name    string
		session RoleSource
		path    string
		want    Name
	}{
		{"root goes to user login", guest, "/", UserLogin},
		{"guest to librarian route", guest, "/librarian/dashboard", LibrarianLogin},
		{"guest to user route", guest, "/user/my-ebooks", UserLogin},
		{"guest to user subtree root", guest, "/user", UserLogin},
		{"user to librarian route", user, "/librarian/stats", UserCatalog},
		{"user to user subtree root", user, "/user", UserCatalog},
		{"user to own route", user, "/user/stats", UserStats},
		{"user to login page", user, "/librarian-login", LibrarianLogin},
		{"librarian to user route", librarian, "/user/catalog", LibrarianDashboard},
		{"librarian to subtree root", librarian, "/librarian", LibrarianDashboard},
		{"librarian to section detail", librarian, "/librarian/section/2", LibrarianSectionDetail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := New(tt.session).Navigate(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dest.Route.Name)
		})
	}

	t.Run("records hops", func(t *testing.T) {
		dest, err := New(guest).Navigate("/")
		require.NoError(t, err)
		assert.Equal(t, []string{"/"}, dest.Hops)
		assert.Equal(t, "/user-login", dest.Path)
	})

	t.Run("unknown path", func(t *testing.T) {
		_, err := New(user).Navigate("/admin")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPathFor(t *testing.T) {
	path, err := PathFor(LibrarianEbookUpdate, Params{"sectionId": "4", "ebookId": "8"})
	require.NoError(t, err)
	assert.Equal(t, "/librarian/section/4/ebook/update/8", path)

	path, err = PathFor(UserCatalog, nil)
	require.NoError(t, err)
	assert.Equal(t, "/user/catalog", path)

	_, err = PathFor(UserRequest, Params{})
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = PathFor("Nope", nil)
	assert.ErrorIs(t, err, ErrUnknownRoute)

	for _, route := range Routes() {
		params := Params{"sectionId": "1", "ebookId": "2"}
		path, err := PathFor(route.Name, params)
		require.NoError(t, err)
		m, err := New(guest).Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, route.Name, m.Route.Name, path)
	}
}

func TestRouter_Go(t *testing.T) {
	dest, err := New(guest).Go(UserEbookDetail, Params{"sectionId": "1", "ebookId": "2"})
	require.NoError(t, err)
	assert.Equal(t, UserLogin, dest.Route.Name)
	assert.Equal(t, []string{"/user/section/1/ebook/2"}, dest.Hops)
}
