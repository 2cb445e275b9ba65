package library

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingFields is returned by Validate when required fields are empty.
var ErrMissingFields = errors.New("missing required fields")

// Request statuses used by the backend's ebook_requests table.
const (
	StatusRequested = "requested"
	StatusGranted   = "granted"
	StatusReturned  = "returned"
	StatusExpired   = "expired"
)

// Credentials are the body of the register and login endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	return require(map[string]bool{
		"username": strings.TrimSpace(c.Username) != "",
		"password": c.Password != "",
	})
}

// User is an account as the backend lists it.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthResponse is returned by register and both login endpoints.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// MessageResponse is the body of write endpoints and of error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// Section groups ebooks in the catalog. A zero ID means not yet created.
type Section struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func (s Section) Validate() error {
	return require(map[string]bool{
		"name":        strings.TrimSpace(s.Name) != "",
		"description": strings.TrimSpace(s.Description) != "",
	})
}

// Ebook is a catalog entry. Content holds the full text.
type Ebook struct {
	ID         int64  `json:"id,omitempty"`
	SectionID  int64  `json:"section_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	DateIssued string `json:"date_issued"`
}

func (e Ebook) Validate() error {
	return require(map[string]bool{
		"section_id":  e.SectionID != 0,
		"name":        strings.TrimSpace(e.Name) != "",
		"content":     strings.TrimSpace(e.Content) != "",
		"author":      strings.TrimSpace(e.Author) != "",
		"date_issued": strings.TrimSpace(e.DateIssued) != "",
	})
}

// EbookWithStatus annotates an ebook with the caller's latest request status.
// Status is empty when the caller never requested the ebook.
type EbookWithStatus struct {
	Ebook
	Status string `json:"status,omitempty"`
}

// EbookRequest is a borrow request. RequestDate and Status are assigned by the backend.
type EbookRequest struct {
	ID          int64  `json:"id,omitempty"`
	UserID      int64  `json:"user_id"`
	EbookID     int64  `json:"ebook_id"`
	RequestDate string `json:"request_date,omitempty"`
	ReturnDate  string `json:"return_date"`
	Status      string `json:"status,omitempty"`
}

// Validate checks the fields needed to create a request.
func (r EbookRequest) Validate() error {
	return require(map[string]bool{
		"user_id":     r.UserID != 0,
		"ebook_id":    r.EbookID != 0,
		"return_date": strings.TrimSpace(r.ReturnDate) != "",
	})
}

// ValidateUpdate checks the fields needed to update a request.
func (r EbookRequest) ValidateUpdate() error {
	return require(map[string]bool{
		"status": strings.TrimSpace(r.Status) != "",
	})
}

// Feedback is a user's comment on an ebook.
type Feedback struct {
	ID           int64  `json:"id,omitempty"`
	UserID       int64  `json:"user_id"`
	EbookID      int64  `json:"ebook_id"`
	Feedback     string `json:"feedback"`
	FeedbackDate string `json:"feedback_date"`
}

func (f Feedback) Validate() error {
	return require(map[string]bool{
		"user_id":       f.UserID != 0,
		"ebook_id":      f.EbookID != 0,
		"feedback":      strings.TrimSpace(f.Feedback) != "",
		"feedback_date": strings.TrimSpace(f.FeedbackDate) != "",
	})
}

func (f Feedback) ValidateUpdate() error {
	return require(map[string]bool{
		"feedback": strings.TrimSpace(f.Feedback) != "",
	})
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

type EbookActivity struct {
	Name         string `json:"name"`
	RequestCount int    `json:"request_count"`
}

type TopBorrowedEbook struct {
	Name        string `json:"name"`
	BorrowCount int    `json:"borrow_count"`
}

type UserActivity struct {
	Username        string `json:"username"`
	TotalRequests   int    `json:"total_requests"`
	GrantedRequests int    `json:"granted_requests"`
}

type FeedbackOverview struct {
	Name             string `json:"name"`
	FeedbackCount    int    `json:"feedback_count"`
	LastFeedbackDate string `json:"last_feedback_date"`
}

type EbooksBySection struct {
	SectionName string `json:"section_name"`
	EbookCount  int    `json:"ebook_count"`
}

// LibrarianStats is the body of /stats/librarian.
type LibrarianStats struct {
	TotalEbooks       int                `json:"total_ebooks"`
	TotalSections     int                `json:"total_sections"`
	EbookActivity     []EbookActivity    `json:"ebook_activity"`
	TopBorrowedEbooks []TopBorrowedEbook `json:"top_borrowed_ebooks"`
	ActiveRequests    []EbookRequest     `json:"active_requests"`
	OverdueRequests   []EbookRequest     `json:"overdue_requests"`
	UserActivity      []UserActivity     `json:"user_activity"`
	FeedbackOverview  []FeedbackOverview `json:"feedback_overview"`
	EbooksBySection   []EbooksBySection  `json:"ebooks_by_section"`
}

type BorrowingHistory struct {
	Name        string `json:"name"`
	RequestDate string `json:"request_date"`
	ReturnDate  string `json:"return_date"`
}

type OverdueBook struct {
	Name       string `json:"name"`
	ReturnDate string `json:"return_date"`
}

type FeedbackGiven struct {
	Name         string `json:"name"`
	Feedback     string `json:"feedback"`
	FeedbackDate string `json:"feedback_date"`
}

type TopRequestedEbook struct {
	Name         string `json:"name"`
	RequestCount int    `json:"request_count"`
}

type RecentlyAddedEbook struct {
	Name       string `json:"name"`
	Author     string `json:"author"`
	DateIssued string `json:"date_issued"`
}

// UserStats is the body of /stats/user.
type UserStats struct {
	BorrowingHistory    []BorrowingHistory   `json:"borrowing_history"`
	ActiveRequests      []BorrowingHistory   `json:"active_requests"`
	OverdueBooks        []OverdueBook        `json:"overdue_books"`
	FeedbackGiven       []FeedbackGiven      `json:"feedback_given"`
	TopRequestedEbooks  []TopRequestedEbook  `json:"top_requested_ebooks"`
	RecentlyAddedEbooks []RecentlyAddedEbook `json:"recently_added_ebooks"`
}

// require reports every field whose presence check failed, in a stable order.
func require(present map[string]bool) error {
	var missing []string
	for field, ok := range present {
		if !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
}
