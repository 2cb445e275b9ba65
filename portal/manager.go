// Package portal wires configuration, storage, the API client, the session and
// the router into the one object the CLI talks to.
package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"library-client/api"
	"library-client/config"
	"library-client/library"
	"library-client/router"
	"library-client/session"
	"library-client/token"
)

// DefaultLoanDays is the borrow period used when none is given.
const DefaultLoanDays = 7

// dateLayout is the ISO date the backend parses with date.fromisoformat.
const dateLayout = "2006-01-02"

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrNotGranted  = errors.New("ebook is not granted to you")
	ErrNoContent   = errors.New("ebook has no content to read")
	ErrBadStatus   = errors.New("unknown request status")
)

// Manager is a thin façade over the client components, keeping CLI code simple.
type Manager struct {
	logger  *slog.Logger
	db      *library.Database
	client  *api.Client
	session *session.Store
	router  *router.Router
	now     func() time.Time
}

// NewManager opens the session database, builds the API client and restores
// the persisted session. An unreadable session is logged and the manager
// starts as guest.
func NewManager(ctx context.Context, cfg *config.Config, logger *slog.Logger, onError func(*api.Error)) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := library.NewDatabase(cfg.Storage.Path, cfg.Storage.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	client, err := api.New(cfg.API.BaseURL, api.Options{
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Logger:     logger,
		OnError:    onError,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	store := session.New(client, db, token.NewCodec(logger), logger)
	if err := store.Init(ctx); err != nil {
		logger.Warn("continuing as guest", "error", err)
	}
	return &Manager{
		logger:  logger,
		db:      db,
		client:  client,
		session: store,
		router:  router.New(store),
		now:     time.Now,
	}, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error { return m.db.Close() }

func (m *Manager) API() *api.Client        { return m.client }
func (m *Manager) Session() *session.Store { return m.session }
func (m *Manager) Logger() *slog.Logger    { return m.logger }

// Navigate resolves a view path for the current session.
func (m *Manager) Navigate(path string) (router.Destination, error) {
	return m.router.Navigate(path)
}

// Whoami returns the signed-in identity.
func (m *Manager) Whoami() (token.Identity, error) {
	id, ok := m.session.Identity()
	if !ok {
		return token.Identity{}, ErrNotSignedIn
	}
	return id, nil
}

// ------------------ User helpers ------------------

// RequestEbook asks to borrow an ebook for the given number of days.
func (m *Manager) RequestEbook(ctx context.Context, ebookID int64, days int) (library.MessageResponse, error) {
	id, err := m.Whoami()
	if err != nil {
		return library.MessageResponse{}, err
	}
	if days <= 0 {
		days = DefaultLoanDays
	}
	return m.client.CreateEbookRequest(ctx, library.EbookRequest{
		UserID:     id.ID,
		EbookID:    ebookID,
		ReturnDate: m.now().AddDate(0, 0, days).Format(dateLayout),
	})
}

// SubmitFeedback records the signed-in user's feedback dated today.
func (m *Manager) SubmitFeedback(ctx context.Context, ebookID int64, text string) (library.MessageResponse, error) {
	id, err := m.Whoami()
	if err != nil {
		return library.MessageResponse{}, err
	}
	return m.client.CreateFeedback(ctx, library.Feedback{
		UserID:       id.ID,
		EbookID:      ebookID,
		Feedback:     strings.TrimSpace(text),
		FeedbackDate: m.now().Format(dateLayout),
	})
}

// ReadableEbook returns an ebook the user may read: its latest request must
// be granted and it must have content.
func (m *Manager) ReadableEbook(ctx context.Context, ebookID int64) (library.Ebook, error) {
	if _, err := m.Whoami(); err != nil {
		return library.Ebook{}, err
	}
	ebooks, err := m.client.GetEbooksRequestedByUser(ctx)
	if err != nil {
		return library.Ebook{}, err
	}
	for _, e := range ebooks {
		if e.ID != ebookID {
			continue
		}
		if e.Status != library.StatusGranted {
			return library.Ebook{}, fmt.Errorf("%w (status: %s)", ErrNotGranted, statusLabel(e.Status))
		}
		if strings.TrimSpace(e.Content) == "" {
			return library.Ebook{}, ErrNoContent
		}
		return e.Ebook, nil
	}
	return library.Ebook{}, fmt.Errorf("ebook %d: %w", ebookID, ErrNotGranted)
}

// ------------------ Librarian helpers ------------------

// SetRequestStatus moves a request to granted, returned or expired.
func (m *Manager) SetRequestStatus(ctx context.Context, requestID int64, status string) (library.MessageResponse, error) {
	switch status {
	case library.StatusRequested, library.StatusGranted, library.StatusReturned, library.StatusExpired:
	default:
		return library.MessageResponse{}, fmt.Errorf("%w: %q", ErrBadStatus, status)
	}
	return m.client.UpdateEbookRequest(ctx, requestID, library.EbookRequest{Status: status})
}

// AddEbookFromFile reads the file at path (relative paths resolve from cwd)
// and creates an ebook with its text in the given section. An empty name
// defaults to the file's base name.
func (m *Manager) AddEbookFromFile(ctx context.Context, sectionID int64, name, author, path string) (library.MessageResponse, error) {
	if strings.TrimSpace(path) == "" {
		return library.MessageResponse{}, fmt.Errorf("file path cannot be empty")
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return library.MessageResponse{}, err
	}
	defer f.Close()
	var sb strings.Builder
	if _, err := io.Copy(&sb, f); err != nil {
		return library.MessageResponse{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m.client.CreateEbook(ctx, library.Ebook{
		SectionID:  sectionID,
		Name:       name,
		Author:     author,
		Content:    sb.String(),
		DateIssued: m.now().Format(dateLayout),
	})
}

func statusLabel(status string) string {
	if status == "" {
		return "not requested"
	}
	return status
}
