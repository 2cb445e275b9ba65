package main

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"library-client/library"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func truncateString(s string, maxLength int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLength-3]) + "..."
}

func (a *app) renderSections(sections []library.Section) error {
	if len(sections) == 0 {
		a.printer.Info("No sections yet.")
		return nil
	}
	t := a.table("ID", "Name", "Description", "Created")
	for _, s := range sections {
		t.AddRow(itoa(s.ID), s.Name, truncateString(s.Description, 50), s.CreatedAt)
	}
	return t.Render()
}

func (a *app) renderEbooks(ebooks []library.Ebook, sectionNames map[int64]string) error {
	if len(ebooks) == 0 {
		a.printer.Info("No ebooks found.")
		return nil
	}
	t := a.table("ID", "Name", "Author", "Section", "Issued")
	for _, e := range ebooks {
		section := sectionNames[e.SectionID]
		if section == "" {
			section = itoa(e.SectionID)
		}
		t.AddRow(itoa(e.ID), truncateString(e.Name, 40), truncateString(e.Author, 25), section, e.DateIssued)
	}
	return t.Render()
}

func (a *app) renderEbooksWithStatus(ebooks []library.EbookWithStatus) error {
	if len(ebooks) == 0 {
		a.printer.Info("No ebooks found.")
		return nil
	}
	t := a.table("ID", "Name", "Author", "Status")
	for _, e := range ebooks {
		t.AddRow(itoa(e.ID), truncateString(e.Name, 40), truncateString(e.Author, 25), a.printer.StatusBadge(e.Status))
	}
	return t.Render()
}

func (a *app) renderRequests(reqs []library.EbookRequest, ebookNames, userNames map[int64]string) error {
	if len(reqs) == 0 {
		a.printer.Info("No requests.")
		return nil
	}
	t := a.table("ID", "User", "Ebook", "Requested", "Return by", "Status")
	for _, r := range reqs {
		user := userNames[r.UserID]
		if user == "" {
			user = itoa(r.UserID)
		}
		ebook := ebookNames[r.EbookID]
		if ebook == "" {
			ebook = itoa(r.EbookID)
		}
		t.AddRow(itoa(r.ID), user, truncateString(ebook, 40), r.RequestDate, r.ReturnDate, a.printer.StatusBadge(r.Status))
	}
	return t.Render()
}

func (a *app) renderFeedback(list []library.Feedback) error {
	if len(list) == 0 {
		a.printer.Info("No feedback yet.")
		return nil
	}
	t := a.table("ID", "User", "Ebook", "Date", "Feedback")
	for _, f := range list {
		t.AddRow(itoa(f.ID), itoa(f.UserID), itoa(f.EbookID), f.FeedbackDate, truncateString(f.Feedback, 60))
	}
	return t.Render()
}

func (a *app) renderEbook(e library.Ebook, status string) {
	a.printer.Header(e.Name)
	a.printer.Print("Author:  %s", e.Author)
	a.printer.Print("Issued:  %s", e.DateIssued)
	a.printer.Print("Section: %d", e.SectionID)
	if status != "" {
		a.printer.Print("Status:  %s", a.printer.StatusBadge(status))
	}
	if e.Content != "" {
		a.printer.Print("\n%s", a.printer.Dim(truncateString(e.Content, 200)))
	}
}

func (a *app) renderLibrarianStats(s library.LibrarianStats) error {
	a.printer.Header("Library")
	a.printer.Print("Ebooks: %d | Sections: %d | Active requests: %d | Overdue: %d",
		s.TotalEbooks, s.TotalSections, len(s.ActiveRequests), len(s.OverdueRequests))

	a.printer.Header("Ebooks by section")
	t := a.table("Section", "Ebooks")
	for _, row := range s.EbooksBySection {
		t.AddRow(row.SectionName, strconv.Itoa(row.EbookCount))
	}
	if err := t.Render(); err != nil {
		return err
	}

	a.printer.Header("Top borrowed")
	t = a.table("Ebook", "Borrowed")
	for _, row := range s.TopBorrowedEbooks {
		t.AddRow(row.Name, strconv.Itoa(row.BorrowCount))
	}
	if err := t.Render(); err != nil {
		return err
	}

	a.printer.Header("User activity")
	t = a.table("User", "Requests", "Granted")
	for _, row := range s.UserActivity {
		t.AddRow(row.Username, strconv.Itoa(row.TotalRequests), strconv.Itoa(row.GrantedRequests))
	}
	if err := t.Render(); err != nil {
		return err
	}

	a.printer.Header("Feedback")
	t = a.table("Ebook", "Count", "Latest")
	for _, row := range s.FeedbackOverview {
		t.AddRow(row.Name, strconv.Itoa(row.FeedbackCount), row.LastFeedbackDate)
	}
	return t.Render()
}

func (a *app) renderUserStats(s library.UserStats) error {
	a.printer.Header("Borrowing history")
	t := a.table("Ebook", "Requested", "Return by")
	for _, row := range s.BorrowingHistory {
		t.AddRow(row.Name, row.RequestDate, row.ReturnDate)
	}
	if err := t.Render(); err != nil {
		return err
	}

	a.printer.Header("Active requests")
	t = a.table("Ebook", "Requested", "Return by")
	for _, row := range s.ActiveRequests {
		t.AddRow(row.Name, row.RequestDate, row.ReturnDate)
	}
	if err := t.Render(); err != nil {
		return err
	}

	if len(s.OverdueBooks) > 0 {
		a.printer.Header("Overdue")
		t = a.table("Ebook", "Was due")
		for _, row := range s.OverdueBooks {
			t.AddRow(row.Name, row.ReturnDate)
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	a.printer.Header("Your feedback")
	t = a.table("Ebook", "Date", "Feedback")
	for _, row := range s.FeedbackGiven {
		t.AddRow(row.Name, row.FeedbackDate, truncateString(row.Feedback, 60))
	}
	if err := t.Render(); err != nil {
		return err
	}

	a.printer.Header("Most requested")
	t = a.table("Ebook", "Requests")
	for _, row := range s.TopRequestedEbooks {
		t.AddRow(row.Name, strconv.Itoa(row.RequestCount))
	}
	if err := t.Render(); err != nil {
		return err
	}

	a.printer.Header("Recently added")
	t = a.table("Ebook", "Author", "Issued")
	for _, row := range s.RecentlyAddedEbooks {
		t.AddRow(row.Name, row.Author, row.DateIssued)
	}
	return t.Render()
}
