package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-client/api"
	"library-client/config"
	"library-client/library"
	"library-client/logging"
	"library-client/router"
	"library-client/token"
	"library-client/token/tokentest"
)

var ada = token.Identity{ID: 7, Username: "ada", Role: token.RoleUser}

// backend is a minimal stand-in for the library API.
type backend struct {
	mu       sync.Mutex
	requests []library.EbookRequest
	feedback []library.Feedback
	ebooks   []library.Ebook
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("POST /login-user", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, library.AuthResponse{Message: "Login successful", Token: tokentest.Issue(ada)})
	})
	mux.HandleFunc("POST /ebook_requests", func(w http.ResponseWriter, r *http.Request) {
		var req library.EbookRequest
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.requests = append(b.requests, req)
		b.mu.Unlock()
		reply(w, http.StatusCreated, library.MessageResponse{Message: "Ebook request created successfully!"})
	})
	mux.HandleFunc("POST /feedback", func(w http.ResponseWriter, r *http.Request) {
		var fb library.Feedback
		json.NewDecoder(r.Body).Decode(&fb)
		b.mu.Lock()
		b.feedback = append(b.feedback, fb)
		b.mu.Unlock()
		reply(w, http.StatusCreated, library.MessageResponse{Message: "Feedback created successfully!"})
	})
	mux.HandleFunc("POST /ebooks", func(w http.ResponseWriter, r *http.Request) {
		var e library.Ebook
		json.NewDecoder(r.Body).Decode(&e)
		b.mu.Lock()
		b.ebooks = append(b.ebooks, e)
		b.mu.Unlock()
		reply(w, http.StatusCreated, library.MessageResponse{Message: "Ebook created successfully!"})
	})
	mux.HandleFunc("GET /ebooks/requests", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []library.EbookWithStatus{
			{Ebook: library.Ebook{ID: 1, Name: "Dune", Content: "Arrakis."}, Status: library.StatusGranted},
			{Ebook: library.Ebook{ID: 2, Name: "Emma", Content: "Highbury."}, Status: library.StatusRequested},
			{Ebook: library.Ebook{ID: 3, Name: "Blank"}, Status: library.StatusGranted},
			{Ebook: library.Ebook{ID: 4, Name: "Persuasion", Content: "Kellynch."}},
		})
	})
	mux.HandleFunc("PUT /ebook_requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, library.MessageResponse{Message: "Ebook request updated successfully!"})
	})
	return mux
}

func newConfig(t *testing.T, baseURL, dbPath string) *config.Config {
	t.Helper()
	return &config.Config{
		API:     config.APIConfig{BaseURL: baseURL},
		Storage: config.StorageConfig{Path: dbPath},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
		Output:  config.OutputConfig{Format: "table"},
	}
}

func newManager(t *testing.T, b *backend) *Manager {
	t.Helper()
	server := httptest.NewServer(b.handler())
	t.Cleanup(server.Close)
	cfg := newConfig(t, server.URL, filepath.Join(t.TempDir(), "session.db"))
	mgr, err := NewManager(context.Background(), cfg, logging.Discard(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	mgr.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	return mgr
}

func TestManager_SessionSurvivesRestart(t *testing.T) {
	server := httptest.NewServer((&backend{}).handler())
	defer server.Close()
	cfg := newConfig(t, server.URL, filepath.Join(t.TempDir(), "session.db"))
	ctx := context.Background()

	first, err := NewManager(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	require.NoError(t, first.Session().LoginUser(ctx, "ada", "secret"))
	want, err := first.Whoami()
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewManager(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Whoami()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, second.Session().IsUser())
	assert.Equal(t, "Bearer "+second.Session().Token(), second.API().Authorization())

	dest, err := second.Navigate("/")
	require.NoError(t, err)
	assert.Equal(t, router.UserLogin, dest.Route.Name)
	dest, err = second.Navigate("/librarian/dashboard")
	require.NoError(t, err)
	assert.Equal(t, router.UserCatalog, dest.Route.Name)
}

func TestManager_SealedSessionSurvivesRestart(t *testing.T) {
	server := httptest.NewServer((&backend{}).handler())
	defer server.Close()
	cfg := newConfig(t, server.URL, filepath.Join(t.TempDir(), "session.db"))
	cfg.Storage.Passphrase = "hunter2"
	ctx := context.Background()

	first, err := NewManager(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	require.NoError(t, first.Session().LoginUser(ctx, "ada", "secret"))
	require.NoError(t, first.Close())

	second, err := NewManager(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer second.Close()
	assert.True(t, second.Session().IsUser())

	// Without the passphrase the session cannot be read; the manager starts as guest.
	cfg.Storage.Passphrase = ""
	third, err := NewManager(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer third.Close()
	assert.True(t, third.Session().IsGuest())
}

func TestManager_GuestHelpers(t *testing.T) {
	mgr := newManager(t, &backend{})
	ctx := context.Background()

	_, err := mgr.Whoami()
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = mgr.RequestEbook(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = mgr.SubmitFeedback(ctx, 1, "good")
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = mgr.ReadableEbook(ctx, 1)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestManager_RequestEbook(t *testing.T) {
	b := &backend{}
	mgr := newManager(t, b)
	ctx := context.Background()
	require.NoError(t, mgr.Session().LoginUser(ctx, "ada", "secret"))

	_, err := mgr.RequestEbook(ctx, 5, 0)
	require.NoError(t, err)
	_, err = mgr.RequestEbook(ctx, 6, 14)
	require.NoError(t, err)

	require.Len(t, b.requests, 2)
	assert.Equal(t, library.EbookRequest{UserID: 7, EbookID: 5, ReturnDate: "2026-10-25"}, b.requests[0])
	assert.Equal(t, "2026-11-01", b.requests[1].ReturnDate)
}

func TestManager_SubmitFeedback(t *testing.T) {
	b := &backend{}
	mgr := newManager(t, b)
	ctx := context.Background()
	require.NoError(t, mgr.Session().LoginUser(ctx, "ada", "secret"))

	msg, err := mgr.SubmitFeedback(ctx, 5, "  loved it ")
	require.NoError(t, err)
	assert.Equal(t, "Feedback created successfully!", msg.Message)
	require.Len(t, b.feedback, 1)
	assert.Equal(t, library.Feedback{UserID: 7, EbookID: 5, Feedback: "loved it", FeedbackDate: "2026-10-18"}, b.feedback[0])

	_, err = mgr.SubmitFeedback(ctx, 5, "   ")
	assert.True(t, api.IsKind(err, api.ErrorKindInvalidInput))
}

func TestManager_ReadableEbook(t *testing.T) {
	mgr := newManager(t, &backend{})
	ctx := context.Background()
	require.NoError(t, mgr.Session().LoginUser(ctx, "ada", "secret"))

	ebook, err := mgr.ReadableEbook(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", ebook.Name)

	_, err = mgr.ReadableEbook(ctx, 2)
	assert.ErrorIs(t, err, ErrNotGranted)
	_, err = mgr.ReadableEbook(ctx, 3)
	assert.ErrorIs(t, err, ErrNoContent)
	_, err = mgr.ReadableEbook(ctx, 4)
	assert.ErrorContains(t, err, "not requested")
	_, err = mgr.ReadableEbook(ctx, 99)
	assert.ErrorIs(t, err, ErrNotGranted)
}

func TestManager_SetRequestStatus(t *testing.T) {
	mgr := newManager(t, &backend{})
	ctx := context.Background()

	_, err := mgr.SetRequestStatus(ctx, 3, library.StatusGranted)
	require.NoError(t, err)

	_, err = mgr.SetRequestStatus(ctx, 3, "lost")
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestManager_AddEbookFromFile(t *testing.T) {
	b := &backend{}
	mgr := newManager(t, b)
	tmp := filepath.Join(t.TempDir(), "the-hobbit.txt")
	require.NoError(t, os.WriteFile(tmp, []byte("In a hole in the ground"), 0o644))

	_, err := mgr.AddEbookFromFile(context.Background(), 2, "", "Tolkien", tmp)
	require.NoError(t, err)
	require.Len(t, b.ebooks, 1)
	assert.Equal(t, library.Ebook{
		SectionID:  2,
		Name:       "the-hobbit",
		Author:     "Tolkien",
		Content:    "In a hole in the ground",
		DateIssued: "2026-10-18",
	}, b.ebooks[0])

	_, err = mgr.AddEbookFromFile(context.Background(), 2, "x", "y", "")
	assert.Error(t, err)
	_, err = mgr.AddEbookFromFile(context.Background(), 2, "x", "y", filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
