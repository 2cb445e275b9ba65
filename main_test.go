package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-client/library"
	"library-client/token"
	"library-client/token/tokentest"
)

func fakeLibrary(t *testing.T) *httptest.Server {
	t.Helper()
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	login := func(id token.Identity) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var creds library.Credentials
			json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "secret" {
				reply(w, http.StatusUnauthorized, library.MessageResponse{Message: "Invalid username or password"})
				return
			}
			reply(w, http.StatusOK, library.AuthResponse{Message: "Login successful", Token: tokentest.Issue(id)})
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login-user", login(token.Identity{ID: 7, Username: "ada", Role: token.RoleUser}))
	mux.HandleFunc("POST /login-librarian", login(token.Identity{ID: 1, Username: "root", Role: token.RoleLibrarian}))
	mux.HandleFunc("GET /sections", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []library.Section{{ID: 2, Name: "Fiction", Description: "Made up"}})
	})
	mux.HandleFunc("GET /ebooks/requests", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			reply(w, http.StatusUnauthorized, library.MessageResponse{Message: "Missing Authorization Header"})
			return
		}
		reply(w, http.StatusOK, []library.EbookWithStatus{
			{Ebook: library.Ebook{ID: 5, SectionID: 2, Name: "Dune", Author: "Frank Herbert", Content: "Arrakis"}, Status: library.StatusGranted},
			{Ebook: library.Ebook{ID: 6, SectionID: 2, Name: "Emma", Author: "Jane Austen", Content: "Highbury"}},
		})
	})
	mux.HandleFunc("GET /stats/librarian", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, library.LibrarianStats{TotalEbooks: 2, TotalSections: 1})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type cli struct {
	t       *testing.T
	cfgFile string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return newCLIFor(t, fakeLibrary(t))
}

func newCLIFor(t *testing.T, server *httptest.Server) *cli {
	t.Helper()
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "libraryctl.yaml")
	body := fmt.Sprintf("api:\n  base_url: %s\nstorage:\n  path: %s\nlogging:\n  level: error\noutput:\n  colors: false\n",
		server.URL, filepath.Join(dir, "session.db"))
	require.NoError(t, os.WriteFile(cfgFile, []byte(body), 0o600))
	return &cli{t: t, cfgFile: cfgFile}
}

func (c *cli) run(input string, args ...string) (code int, stdout, stderr string) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--config", c.cfgFile}, args...)
	code = run(args, strings.NewReader(input), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	c := newCLI(t)

	code, out, _ := c.run("ada\nsecret\n", "login")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Signed in as ada (user)")

	code, out, _ = c.run("", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ada (user, id 7)")

	code, out, _ = c.run("", "whoami", "-o", "json")
	require.Equal(t, 0, code)
	var id token.Identity
	require.NoError(t, json.Unmarshal([]byte(out), &id))
	assert.Equal(t, token.RoleUser, id.Role)

	code, _, _ = c.run("", "logout")
	require.Equal(t, 0, code)

	code, _, stderr := c.run("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not signed in")
}

func TestCLI_FailedLoginNotifiesOnce(t *testing.T) {
	c := newCLI(t)

	code, _, stderr := c.run("secret-not\n", "login", "--librarian", "-u", "root")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Something went wrong: Invalid username or password")
	assert.NotContains(t, stderr, "Error:")

	code, _, stderr = c.run("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not signed in")
}

func TestCLI_RejectedViewNotifiesOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login-user", func(w http.ResponseWriter, r *http.Request) {
		tok := tokentest.Issue(token.Identity{ID: 7, Username: "ada", Role: token.RoleUser})
		json.NewEncoder(w).Encode(library.AuthResponse{Message: "Login successful", Token: tok})
	})
	mux.HandleFunc("GET /sections", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(library.MessageResponse{Message: "nope"})
	})
	mux.HandleFunc("GET /ebooks/requests", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	c := newCLIFor(t, server)

	code, _, _ := c.run("secret\n", "login", "-u", "ada")
	require.Equal(t, 0, code)

	code, _, stderr := c.run("", "open", "/user/catalog")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Something went wrong: nope")
	assert.Equal(t, 1, strings.Count(stderr, "Something went wrong"), stderr)
	assert.NotContains(t, stderr, "Error:")
}

func TestCLI_OpenFollowsGuard(t *testing.T) {
	c := newCLI(t)
	code, _, _ := c.run("secret\n", "login", "-u", "ada")
	require.Equal(t, 0, code)

	code, out, _ := c.run("", "open", "/librarian/dashboard")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "→ /user/catalog")
	assert.Contains(t, out, "Fiction")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "granted")

	code, out, _ = c.run("", "open", "/user/my-ebooks", "-o", "yaml")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "name: Dune")
	assert.NotContains(t, out, "Emma")
}

func TestCLI_GuestOpenPromptsLogin(t *testing.T) {
	c := newCLI(t)

	code, out, _ := c.run("root\nsecret\n", "open", "/librarian/stats")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "→ /librarian-login")
	assert.Contains(t, out, "Librarian login")
	assert.Contains(t, out, "Signed in as root (librarian)")
	assert.Contains(t, out, "Dashboard")
}

func TestCLI_SectionsJSON(t *testing.T) {
	c := newCLI(t)
	code, out, _ := c.run("", "sections", "list", "-o", "json")
	require.Equal(t, 0, code)

	var sections []library.Section
	require.NoError(t, json.Unmarshal([]byte(out), &sections))
	require.Len(t, sections, 1)
	assert.Equal(t, "Fiction", sections[0].Name)
}

func TestCLI_InvalidOutputFormat(t *testing.T) {
	c := newCLI(t)
	code, _, stderr := c.run("", "sections", "list", "-o", "csv")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid output format")
}

func TestCLI_Shell(t *testing.T) {
	c := newCLI(t)
	input := strings.Join([]string{
		"ada", "secret", // guest lands on the user login view
		"whoami",
		"read", "5", "q", // id asked for when omitted
		"dashboard",
		"frobnicate",
		"logout",
		"exit",
	}, "\n") + "\n"

	code, out, stderr := c.run(input, "shell")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Welcome to the library portal!")
	assert.Contains(t, out, "User login")
	assert.Contains(t, out, "ada (user, id 7)")
	assert.Contains(t, out, "Reader: ada | Page 1 of 1")
	assert.Contains(t, out, "Finished reading 'Dune'")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "Goodbye!")
	assert.Contains(t, stderr, `Unknown command "frobnicate"`)
}

func TestSplitCommand(t *testing.T) {
	tests := []struct{ input, cmd, arg string }{
		{"", "", ""},
		{"  catalog ", "catalog", ""},
		{"My Ebooks", "my ebooks", ""},
		{"new ebook 3", "new ebook", "3"},
		{"open /user/stats", "open", "/user/stats"},
		{"login librarian", "login", "librarian"},
		{"LOGIN Librarian", "login", "Librarian"},
		{"New Section", "new section", ""},
		{"open /User/Stats", "open", "/User/Stats"},
	}
	for _, tt := range tests {
		cmd, arg := splitCommand(tt.input)
		assert.Equal(t, tt.cmd, cmd, tt.input)
		assert.Equal(t, tt.arg, arg, tt.input)
	}
}
