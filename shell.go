package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"library-client/api"
	"library-client/router"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.shell(cmd.Context())
		},
	}
}

const shellHelp = `Available commands:
  Session:   login, login librarian, register, logout, whoami
  Views:     open <path>, home, catalog, my ebooks, stats
  User:      request <ebookId>, read <ebookId>, feedback <ebookId>
  Librarian: dashboard, ebooks, requests, section <id>, new section,
             new ebook <sectionId>, grant|return|expire <requestId>
  System:    help, exit`

// shell runs the interactive loop until exit or end of input.
func (a *app) shell(ctx context.Context) error {
	a.printer.Print("Welcome to the library portal!")
	a.printer.Print("%s", shellHelp)
	if _, err := a.open(ctx, a.home()); err != nil {
		a.shellError(err)
	}

	for {
		input, err := a.prompt.line(fmt.Sprintf("\n%s> ", a.mgr.Session().State()))
		if err != nil {
			return nil
		}
		cmd, arg := splitCommand(input)
		if cmd == "exit" || cmd == "quit" {
			a.printer.Print("Goodbye!")
			return nil
		}
		if err := a.dispatch(ctx, cmd, arg); err != nil {
			a.shellError(err)
		}
	}
}

func (a *app) dispatch(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "":
		return nil
	case "help":
		a.printer.Print("%s", shellHelp)
		return nil
	case "login":
		return a.login(ctx, strings.EqualFold(arg, "librarian"), "")
	case "register":
		username, password, err := a.credentials("")
		if err != nil {
			return err
		}
		return a.mgr.Session().RegisterUser(ctx, username, password)
	case "logout":
		a.mgr.Session().Logout()
		a.printer.Success("Signed out")
		return nil
	case "whoami":
		id, err := a.mgr.Whoami()
		if err != nil {
			return err
		}
		a.printer.Print("%s (%s, id %d)", id.Username, id.Role, id.ID)
		return nil
	case "open", "go":
		_, err := a.open(ctx, arg)
		return err
	case "home":
		_, err := a.open(ctx, a.home())
		return err
	case "catalog":
		return a.openRoute(ctx, router.UserCatalog, nil)
	case "my ebooks":
		return a.openRoute(ctx, router.UserMyEbooks, nil)
	case "stats":
		if a.mgr.Session().IsLibrarian() {
			return a.openRoute(ctx, router.LibrarianStats, nil)
		}
		return a.openRoute(ctx, router.UserStats, nil)
	case "request":
		return a.openRoute(ctx, router.UserRequest, router.Params{"ebookId": arg})
	case "read":
		id, err := a.argID(arg, "Ebook id: ")
		if err != nil {
			return err
		}
		if !a.mgr.Session().IsUser() {
			return a.openRoute(ctx, router.UserMyEbooks, nil)
		}
		return a.read(ctx, id)
	case "feedback":
		id, err := a.argID(arg, "Ebook id: ")
		if err != nil {
			return err
		}
		text, err := a.prompt.line("Your feedback: ")
		if err != nil {
			return err
		}
		return a.report(a.mgr.SubmitFeedback(ctx, id, text))
	case "dashboard":
		return a.openRoute(ctx, router.LibrarianDashboard, nil)
	case "ebooks":
		return a.openRoute(ctx, router.LibrarianEbookDashboard, nil)
	case "requests":
		return a.openRoute(ctx, router.LibrarianRequest, nil)
	case "section":
		return a.openRoute(ctx, router.LibrarianSectionDetail, router.Params{"sectionId": arg})
	case "new section":
		return a.openRoute(ctx, router.LibrarianSectionCreate, nil)
	case "new ebook":
		return a.openRoute(ctx, router.LibrarianEbookCreate, router.Params{"sectionId": arg})
	case "grant", "return", "expire":
		id, err := a.argID(arg, "Request id: ")
		if err != nil {
			return err
		}
		status := map[string]string{"grant": "granted", "return": "returned", "expire": "expired"}[cmd]
		return a.report(a.mgr.SetRequestStatus(ctx, id, status))
	default:
		a.printer.Warning("Unknown command %q. Type 'help' for the list.", cmd)
		return nil
	}
}

// argID parses arg, or asks for the id when arg is empty.
func (a *app) argID(arg, label string) (int64, error) {
	if arg == "" {
		return a.prompt.id(label)
	}
	return parseID(arg)
}

func (a *app) openRoute(ctx context.Context, name router.Name, params router.Params) error {
	path, err := router.PathFor(name, params)
	if err != nil {
		return err
	}
	_, err = a.open(ctx, path)
	return err
}

// shellError reports err unless the API error notification already did.
func (a *app) shellError(err error) {
	if errors.Is(err, errInputClosed) {
		return
	}
	if kind := api.KindOf(err); kind != "" && kind != api.ErrorKindInvalidInput {
		return
	}
	a.printer.Error("%v", err)
}

// splitCommand separates a known multi-word command from its argument. Only
// the command words are lowercased.
func splitCommand(input string) (string, string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) >= 2 {
		switch two := strings.ToLower(fields[0] + " " + fields[1]); two {
		case "my ebooks", "new section", "new ebook":
			return two, strings.Join(fields[2:], " ")
		}
	}
	return strings.ToLower(fields[0]), strings.Join(fields[1:], " ")
}
