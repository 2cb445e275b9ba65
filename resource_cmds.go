package main

import (
	"strings"

	"github.com/spf13/cobra"

	"library-client/library"
)

func newSectionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "sections", Short: "Manage catalog sections"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := a.mgr.API().GetSections(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(sections, func() error { return a.renderSections(sections) })
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			section, err := a.mgr.API().GetSection(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.emit(section, func() error { return a.renderSections([]library.Section{section}) })
		},
	}

	var section library.Section
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a section (librarian)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(a.mgr.API().CreateSection(cmd.Context(), section))
		},
	}
	create.Flags().StringVar(&section.Name, "name", "", "section name")
	create.Flags().StringVar(&section.Description, "description", "", "section description")

	var update library.Section
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a section (librarian)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.API().UpdateSection(cmd.Context(), id, update))
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "section name")
	updateCmd.Flags().StringVar(&update.Description, "description", "", "section description")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a section (librarian)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.API().DeleteSection(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, show, create, updateCmd, del)
	return cmd
}

func newEbooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "ebooks", Short: "Browse and manage ebooks"}

	var sectionID int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List ebooks, optionally of one section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ebooks []library.Ebook
				err    error
			)
			if sectionID > 0 {
				ebooks, err = a.mgr.API().GetEbooksBySection(cmd.Context(), sectionID)
			} else {
				ebooks, err = a.mgr.API().GetEbooks(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.emit(ebooks, func() error { return a.renderEbooks(ebooks, nil) })
		},
	}
	list.Flags().Int64Var(&sectionID, "section", 0, "section id")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an ebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ebook, err := a.mgr.API().GetEbook(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.emit(ebook, func() error {
				a.renderEbook(ebook, "")
				return nil
			})
		},
	}

	var (
		ebook library.Ebook
		file  string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an ebook (librarian)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return a.report(a.mgr.AddEbookFromFile(cmd.Context(), ebook.SectionID, ebook.Name, ebook.Author, file))
			}
			return a.report(a.mgr.API().CreateEbook(cmd.Context(), ebook))
		},
	}
	ebookFlags(create, &ebook)
	create.Flags().StringVar(&file, "file", "", "read content from a text file")

	var update library.Ebook
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an ebook (librarian)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.API().UpdateEbook(cmd.Context(), id, update))
		},
	}
	ebookFlags(updateCmd, &update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an ebook (librarian)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.API().DeleteEbook(cmd.Context(), id))
		},
	}

	requested := &cobra.Command{
		Use:   "requested",
		Short: "List ebooks with your latest request status (user)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ebooks, err := a.mgr.API().GetEbooksRequestedByUser(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(ebooks, func() error { return a.renderEbooksWithStatus(ebooks) })
		},
	}

	feedback := &cobra.Command{
		Use:   "feedback <userId>",
		Short: "List ebooks a user left feedback on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ebooks, err := a.mgr.API().GetEbooksFeedbackByUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.emit(ebooks, func() error { return a.renderEbooks(ebooks, nil) })
		},
	}

	cmd.AddCommand(list, show, create, updateCmd, del, requested, feedback)
	return cmd
}

func ebookFlags(cmd *cobra.Command, e *library.Ebook) {
	cmd.Flags().Int64Var(&e.SectionID, "section", 0, "section id")
	cmd.Flags().StringVar(&e.Name, "name", "", "ebook name")
	cmd.Flags().StringVar(&e.Author, "author", "", "author")
	cmd.Flags().StringVar(&e.Content, "content", "", "full text")
	cmd.Flags().StringVar(&e.DateIssued, "issued", "", "issue date (YYYY-MM-DD)")
}

func newRequestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "requests", Short: "Borrow requests"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every request (librarian)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := a.mgr.API().GetEbookRequests(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(reqs, func() error { return a.renderRequests(reqs, nil, nil) })
		},
	}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List your requests (user)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := a.mgr.API().GetEbookRequestsByUser(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(reqs, func() error { return a.renderRequests(reqs, nil, nil) })
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := a.mgr.API().GetEbookRequest(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.emit(req, func() error { return a.renderRequests([]library.EbookRequest{req}, nil, nil) })
		},
	}

	var days int
	create := &cobra.Command{
		Use:   "create <ebookId>",
		Short: "Request to borrow an ebook (user)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.RequestEbook(cmd.Context(), id, days))
		},
	}
	create.Flags().IntVar(&days, "days", 0, "loan length in days (default 7)")

	status := &cobra.Command{
		Use:   "status <id> <requested|granted|returned|expired>",
		Short: "Change a request's status (librarian)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.SetRequestStatus(cmd.Context(), id, strings.ToLower(args[1])))
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.API().DeleteEbookRequest(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, mine, show, create, status, del)
	return cmd
}

func newFeedbackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "feedback", Short: "Ebook feedback"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.mgr.API().GetFeedback(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(list, func() error { return a.renderFeedback(list) })
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one feedback entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fb, err := a.mgr.API().GetFeedbackByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.emit(fb, func() error { return a.renderFeedback([]library.Feedback{fb}) })
		},
	}

	create := &cobra.Command{
		Use:   "create <ebookId> <text>",
		Short: "Leave feedback on an ebook (user)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.SubmitFeedback(cmd.Context(), id, strings.Join(args[1:], " ")))
		},
	}

	update := &cobra.Command{
		Use:   "update <id> <text>",
		Short: "Replace a feedback entry's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fb := library.Feedback{Feedback: strings.Join(args[1:], " ")}
			return a.report(a.mgr.API().UpdateFeedback(cmd.Context(), id, fb))
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a feedback entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.report(a.mgr.API().DeleteFeedback(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, show, create, update, del)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for the signed-in role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.mgr.Session().IsLibrarian() {
				stats, err := a.mgr.API().GetLibrarianStats(cmd.Context())
				if err != nil {
					return err
				}
				return a.emit(stats, func() error { return a.renderLibrarianStats(stats) })
			}
			stats, err := a.mgr.API().GetUserStats(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(stats, func() error { return a.renderUserStats(stats) })
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.mgr.API().GetUsers(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(users, func() error {
				t := a.table("ID", "Username", "Role")
				for _, u := range users {
					t.AddRow(itoa(u.ID), u.Username, u.Role)
				}
				return t.Render()
			})
		},
	}
}

// report prints the backend's confirmation of a write.
func (a *app) report(resp library.MessageResponse, err error) error {
	if err != nil {
		return err
	}
	return a.emit(resp, func() error {
		a.printer.Success("%s", resp.Message)
		return nil
	})
}
