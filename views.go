package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"library-client/library"
	"library-client/portal"
	"library-client/router"
)

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Open a view, e.g. /user/catalog or /librarian/section/2",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.open(cmd.Context(), args[0])
			return err
		},
	}
}

// open navigates to path for the current session and renders where it lands.
func (a *app) open(ctx context.Context, path string) (router.Destination, error) {
	dest, err := a.mgr.Navigate(path)
	if err != nil {
		return router.Destination{}, err
	}
	if len(dest.Hops) > 0 {
		a.printer.Print("%s", a.printer.Dim("→ "+dest.Path))
	}
	a.mgr.Logger().Debug("view", "route", dest.Route.Name, "path", dest.Path, "hops", dest.Hops)
	return dest, a.render(ctx, dest)
}

func (a *app) render(ctx context.Context, dest router.Destination) error {
	switch dest.Route.Name {
	case router.UserLogin:
		return a.loginView(ctx, false)
	case router.LibrarianLogin:
		return a.loginView(ctx, true)
	case router.UserCatalog:
		return a.catalogView(ctx)
	case router.UserRequest:
		return a.withID(dest, "ebookId", func(id int64) error { return a.requestView(ctx, id) })
	case router.UserMyEbooks:
		return a.myEbooksView(ctx)
	case router.UserEbookDetail:
		return a.withID(dest, "ebookId", func(id int64) error { return a.userEbookView(ctx, id) })
	case router.UserStats:
		stats, err := a.mgr.API().GetUserStats(ctx)
		if err != nil {
			return err
		}
		return a.emit(stats, func() error { return a.renderUserStats(stats) })
	case router.LibrarianDashboard:
		return a.dashboardView(ctx)
	case router.LibrarianEbookDashboard:
		return a.ebookDashboardView(ctx)
	case router.LibrarianRequest:
		return a.requestsView(ctx)
	case router.LibrarianStats:
		stats, err := a.mgr.API().GetLibrarianStats(ctx)
		if err != nil {
			return err
		}
		return a.emit(stats, func() error { return a.renderLibrarianStats(stats) })
	case router.LibrarianSectionCreate:
		return a.sectionFormView(ctx, 0)
	case router.LibrarianSectionDetail:
		return a.withID(dest, "sectionId", func(id int64) error { return a.sectionView(ctx, id) })
	case router.LibrarianSectionUpdate:
		return a.withID(dest, "sectionId", func(id int64) error { return a.sectionFormView(ctx, id) })
	case router.LibrarianEbookCreate:
		return a.withID(dest, "sectionId", func(id int64) error { return a.ebookFormView(ctx, id, 0) })
	case router.LibrarianEbookUpdate:
		return a.withID(dest, "sectionId", func(sectionID int64) error {
			return a.withID(dest, "ebookId", func(id int64) error { return a.ebookFormView(ctx, sectionID, id) })
		})
	case router.LibrarianEbookDetail:
		return a.withID(dest, "ebookId", func(id int64) error { return a.librarianEbookView(ctx, id) })
	default:
		return fmt.Errorf("no view for route %s", dest.Route.Name)
	}
}

func (a *app) withID(dest router.Destination, param string, fn func(int64) error) error {
	id, err := parseID(dest.Params[param])
	if err != nil {
		return fmt.Errorf("%s: %w", param, err)
	}
	return fn(id)
}

// loginView signs in and then opens the session's home view.
func (a *app) loginView(ctx context.Context, librarian bool) error {
	portalName := "User"
	if librarian {
		portalName = "Librarian"
	}
	a.printer.Header(portalName + " login")
	if err := a.login(ctx, librarian, ""); err != nil {
		return err
	}
	_, err := a.open(ctx, a.home())
	return err
}

type catalog struct {
	Sections []library.Section         `json:"sections"`
	Ebooks   []library.EbookWithStatus `json:"ebooks"`
}

func (a *app) catalogView(ctx context.Context) error {
	var c catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c.Sections, err = a.mgr.API().GetSections(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		c.Ebooks, err = a.mgr.API().GetEbooksRequestedByUser(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return a.emit(c, func() error {
		bySection := map[int64][]library.EbookWithStatus{}
		for _, e := range c.Ebooks {
			bySection[e.SectionID] = append(bySection[e.SectionID], e)
		}
		if len(c.Sections) == 0 {
			a.printer.Info("The catalog is empty.")
			return nil
		}
		for _, s := range c.Sections {
			a.printer.Header(fmt.Sprintf("%s (section %d)", s.Name, s.ID))
			if s.Description != "" {
				a.printer.Print("%s", a.printer.Dim(s.Description))
			}
			if err := a.renderEbooksWithStatus(bySection[s.ID]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *app) myEbooksView(ctx context.Context) error {
	ebooks, err := a.mgr.API().GetEbooksRequestedByUser(ctx)
	if err != nil {
		return err
	}
	var mine []library.EbookWithStatus
	for _, e := range ebooks {
		if e.Status != "" {
			mine = append(mine, e)
		}
	}
	return a.emit(mine, func() error {
		if len(mine) == 0 {
			a.printer.Info("You have not requested any ebooks yet.")
			return nil
		}
		return a.renderEbooksWithStatus(mine)
	})
}

func (a *app) requestView(ctx context.Context, ebookID int64) error {
	ebook, err := a.mgr.API().GetEbook(ctx, ebookID)
	if err != nil {
		return err
	}
	a.printer.Header("Request " + ebook.Name)
	answer, err := a.prompt.lineOr("Loan length in days", strconv.Itoa(portal.DefaultLoanDays))
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(answer)
	if err != nil || days <= 0 {
		return fmt.Errorf("invalid number of days: %q", answer)
	}
	return a.report(a.mgr.RequestEbook(ctx, ebookID, days))
}

func (a *app) userEbookView(ctx context.Context, ebookID int64) error {
	var (
		ebook  library.Ebook
		status string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ebook, err = a.mgr.API().GetEbook(gctx, ebookID)
		return err
	})
	g.Go(func() error {
		ebooks, err := a.mgr.API().GetEbooksRequestedByUser(gctx)
		for _, e := range ebooks {
			if e.ID == ebookID {
				status = e.Status
			}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if a.printer.Format().Structured() {
		return a.emit(library.EbookWithStatus{Ebook: ebook, Status: status}, nil)
	}
	shown := status
	if shown == "" {
		shown = "available"
	}
	a.renderEbook(ebook, shown)
	if status != library.StatusGranted {
		return nil
	}
	answer, err := a.prompt.line("\nRead now? [y/N] ")
	if errors.Is(err, errInputClosed) || !strings.EqualFold(answer, "y") {
		return nil
	}
	return a.read(ctx, ebookID)
}

// read opens the pager on a granted ebook.
func (a *app) read(ctx context.Context, ebookID int64) error {
	ebook, err := a.mgr.ReadableEbook(ctx, ebookID)
	if err != nil {
		return err
	}
	id, _ := a.mgr.Whoami()
	return readEbook(a.prompt, a.out, ebook, id.Username)
}

func (a *app) dashboardView(ctx context.Context) error {
	var (
		sections []library.Section
		stats    library.LibrarianStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sections, err = a.mgr.API().GetSections(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = a.mgr.API().GetLibrarianStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return a.emit(sections, func() error {
		a.printer.Header("Dashboard")
		a.printer.Print("Ebooks: %d | Sections: %d | Active requests: %d | Overdue: %d",
			stats.TotalEbooks, stats.TotalSections, len(stats.ActiveRequests), len(stats.OverdueRequests))
		a.printer.Header("Sections")
		return a.renderSections(sections)
	})
}

func (a *app) ebookDashboardView(ctx context.Context) error {
	var (
		ebooks   []library.Ebook
		sections []library.Section
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ebooks, err = a.mgr.API().GetEbooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sections, err = a.mgr.API().GetSections(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	names := make(map[int64]string, len(sections))
	for _, s := range sections {
		names[s.ID] = s.Name
	}
	return a.emit(ebooks, func() error {
		a.printer.Header("Ebooks")
		return a.renderEbooks(ebooks, names)
	})
}

func (a *app) requestsView(ctx context.Context) error {
	var (
		reqs   []library.EbookRequest
		ebooks []library.Ebook
		users  []library.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reqs, err = a.mgr.API().GetEbookRequests(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ebooks, err = a.mgr.API().GetEbooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = a.mgr.API().GetUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	ebookNames := make(map[int64]string, len(ebooks))
	for _, e := range ebooks {
		ebookNames[e.ID] = e.Name
	}
	userNames := make(map[int64]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Username
	}
	return a.emit(reqs, func() error {
		a.printer.Header("Requests")
		return a.renderRequests(reqs, ebookNames, userNames)
	})
}

func (a *app) sectionView(ctx context.Context, sectionID int64) error {
	var (
		section library.Section
		ebooks  []library.Ebook
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		section, err = a.mgr.API().GetSection(gctx, sectionID)
		return err
	})
	g.Go(func() error {
		var err error
		ebooks, err = a.mgr.API().GetEbooksBySection(gctx, sectionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return a.emit(ebooks, func() error {
		a.printer.Header(section.Name)
		a.printer.Print("%s", a.printer.Dim(section.Description))
		return a.renderEbooks(ebooks, map[int64]string{section.ID: section.Name})
	})
}

// sectionFormView creates a section, or updates sectionID when non-zero.
func (a *app) sectionFormView(ctx context.Context, sectionID int64) error {
	var current library.Section
	if sectionID != 0 {
		var err error
		if current, err = a.mgr.API().GetSection(ctx, sectionID); err != nil {
			return err
		}
		a.printer.Header("Update section")
	} else {
		a.printer.Header("New section")
	}

	var (
		next library.Section
		err  error
	)
	if next.Name, err = a.prompt.lineOr("Name", current.Name); err != nil {
		return err
	}
	if next.Description, err = a.prompt.lineOr("Description", current.Description); err != nil {
		return err
	}
	if sectionID != 0 {
		return a.report(a.mgr.API().UpdateSection(ctx, sectionID, next))
	}
	return a.report(a.mgr.API().CreateSection(ctx, next))
}

// ebookFormView creates an ebook in sectionID, or updates ebookID when non-zero.
func (a *app) ebookFormView(ctx context.Context, sectionID, ebookID int64) error {
	current := library.Ebook{SectionID: sectionID, DateIssued: time.Now().Format("2006-01-02")}
	if ebookID != 0 {
		var err error
		if current, err = a.mgr.API().GetEbook(ctx, ebookID); err != nil {
			return err
		}
		a.printer.Header("Update ebook")
	} else {
		a.printer.Header("New ebook")
	}

	next := library.Ebook{SectionID: sectionID, Content: current.Content}
	var err error
	if next.Name, err = a.prompt.lineOr("Name", current.Name); err != nil {
		return err
	}
	if next.Author, err = a.prompt.lineOr("Author", current.Author); err != nil {
		return err
	}
	if next.DateIssued, err = a.prompt.lineOr("Issued", current.DateIssued); err != nil {
		return err
	}
	path, err := a.prompt.line("Path to text file (optional): ")
	if err != nil {
		return err
	}

	switch {
	case path != "":
		if next.Content, err = readTextFile(path); err != nil {
			return err
		}
	case ebookID == 0:
		if next.Content, err = a.prompt.line("Content (one line; use a text file for longer texts): "); err != nil {
			return err
		}
	}
	if ebookID != 0 {
		return a.report(a.mgr.API().UpdateEbook(ctx, ebookID, next))
	}
	return a.report(a.mgr.API().CreateEbook(ctx, next))
}

func (a *app) librarianEbookView(ctx context.Context, ebookID int64) error {
	var (
		ebook    library.Ebook
		feedback []library.Feedback
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ebook, err = a.mgr.API().GetEbook(gctx, ebookID)
		return err
	})
	g.Go(func() error {
		all, err := a.mgr.API().GetFeedback(gctx)
		for _, f := range all {
			if f.EbookID == ebookID {
				feedback = append(feedback, f)
			}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return a.emit(ebook, func() error {
		a.renderEbook(ebook, "")
		a.printer.Header("Feedback")
		return a.renderFeedback(feedback)
	})
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
