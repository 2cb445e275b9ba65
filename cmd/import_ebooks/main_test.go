package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-client/library"
	"library-client/token"
	"library-client/token/tokentest"
)

func TestNameFromFile(t *testing.T) {
	assert.Equal(t, "Animal Farm", nameFromFile("animal_farm.txt"))
	assert.Equal(t, "1984", nameFromFile("1984.txt"))
	assert.Equal(t, "Three Little Pigs", nameFromFile("three-little_pigs.txt"))
	assert.Equal(t, "Éclair", nameFromFile("éclair.txt"))
	assert.Equal(t, "Über Die Brücke", nameFromFile("über_die_brücke.txt"))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Dune", 10, "Dune"},
		{"Crime and Punishment", 10, "Crime a..."},
		{"Привет, мир", 8, "Приве..."},
		{"日本語の本", 2, "日本"},
	}
	for _, tt := range tests {
		got := truncateString(tt.in, tt.max)
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, utf8.ValidString(got), tt.in)
	}
}

func TestImport(t *testing.T) {
	var (
		mu      sync.Mutex
		created []library.Ebook
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sections/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(library.Section{ID: 3, Name: "Classics", Description: "Old"})
	})
	mux.HandleFunc("POST /ebooks", func(w http.ResponseWriter, r *http.Request) {
		var e library.Ebook
		json.NewDecoder(r.Body).Decode(&e)
		mu.Lock()
		created = append(created, e)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(library.MessageResponse{Message: "Ebook created successfully!"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "session.db")
	db, err := library.NewDatabase(dbPath, "")
	require.NoError(t, err)
	require.NoError(t, db.SaveToken(tokentest.Issue(token.Identity{ID: 1, Username: "root", Role: token.RoleLibrarian})))
	require.NoError(t, db.Close())

	cfgFile := filepath.Join(dir, "libraryctl.yaml")
	cfg := fmt.Sprintf("api:\n  base_url: %s\nstorage:\n  path: %s\noutput:\n  colors: false\n", server.URL, dbPath)
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0o600))

	texts := filepath.Join(dir, "texts")
	require.NoError(t, os.Mkdir(texts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(texts, "animal_farm.txt"), []byte("All animals are equal."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(texts, "art_of_war.txt"), []byte("Know your enemy."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(texts, "notes.md"), []byte("skip me"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(texts, metadataFile),
		[]byte("art_of_war.txt:\n  name: The Art of War\n  author: Sun Tzu\n"), 0o644))

	var out, errOut bytes.Buffer
	cmd := newImportCmd(&out, &errOut)
	cmd.SetArgs([]string{"--config", cfgFile, "--dir", texts, "--section", "3"})
	require.NoError(t, cmd.Execute(), errOut.String())

	require.Len(t, created, 2)
	assert.Equal(t, "Animal Farm", created[0].Name)
	assert.Equal(t, "Unknown", created[0].Author)
	assert.Equal(t, "The Art of War", created[1].Name)
	assert.Equal(t, "Sun Tzu", created[1].Author)
	assert.Equal(t, int64(3), created[1].SectionID)
	assert.Equal(t, "Know your enemy.", created[1].Content)
	assert.Contains(t, out.String(), "Successfully imported: 2 ebooks")
}

func TestImportNeedsLibrarian(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "libraryctl.yaml")
	cfg := fmt.Sprintf("storage:\n  path: %s\n", filepath.Join(dir, "session.db"))
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0o600))

	var out, errOut bytes.Buffer
	cmd := newImportCmd(&out, &errOut)
	cmd.SetArgs([]string{"--config", cfgFile, "--dir", dir, "--section", "3"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "librarian session")
}
