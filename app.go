package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"library-client/api"
	"library-client/config"
	"library-client/logging"
	"library-client/output"
	"library-client/portal"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfgFile string
	verbose bool
	format  string

	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	prompt  *prompter
	mgr     *portal.Manager
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "libraryctl",
		Short: "Terminal client for the library management API",
		Long: `libraryctl signs you in to the library backend and lets users browse the
catalog, borrow and read ebooks and leave feedback, and librarians manage
sections, ebooks and borrow requests.

Example usage:
  libraryctl login                  # Sign in as a user
  libraryctl login --librarian      # Sign in as a librarian
  libraryctl open /user/catalog     # Open a view
  libraryctl shell                  # Interactive session
  libraryctl ebooks list -o json    # Raw API access`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .libraryctl.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVarP(&a.format, "output", "o", "", "output format: table, json, or yaml")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newOpenCmd(a),
		newShellCmd(a),
		newSectionsCmd(a),
		newEbooksCmd(a),
		newRequestsCmd(a),
		newFeedbackCmd(a),
		newStatsCmd(a),
		newUsersCmd(a),
	)
	return root
}

// setup loads configuration, builds the logger and printer, and opens the
// session.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.New(level, cfg.Logging.Format, a.errOut)

	format := output.Format(cfg.Output.Format)
	if a.format != "" {
		if format, err = output.ParseFormat(a.format); err != nil {
			return err
		}
	}
	a.printer = output.NewPrinterWithWriters(a.out, a.errOut, cfg.Output.Colors, format)
	a.prompt = newPrompter(a.in, a.out)

	mgr, err := portal.NewManager(ctx, cfg, a.logger, a.notify)
	if err != nil {
		return err
	}
	a.mgr = mgr

	a.logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"storage", cfg.Storage.Path,
		"session", mgr.Session().State(),
	)
	return nil
}

func (a *app) close() error {
	if a.mgr == nil {
		return nil
	}
	err := a.mgr.Close()
	a.mgr = nil
	return err
}

// notify is the API client's error interceptor.
func (a *app) notify(e *api.Error) {
	if e.Message != "" {
		a.printer.Error("Something went wrong: %s", e.Message)
		return
	}
	a.printer.Error("Something went wrong")
}

// emit writes v as json or yaml when a structured format is selected, and
// calls table otherwise.
func (a *app) emit(v any, table func() error) error {
	if f := a.printer.Format(); f.Structured() {
		return output.Encode(a.out, f, v)
	}
	return table()
}

func (a *app) table(headers ...string) *output.Table {
	return output.NewTable(a.out, headers)
}
