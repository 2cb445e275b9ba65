// Command import_ebooks uploads a directory of .txt files into one section
// using the librarian session stored by `libraryctl login --librarian`.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"library-client/config"
	"library-client/logging"
	"library-client/output"
	"library-client/portal"
)

// metadataFile optionally maps file names to ebook names and authors.
const metadataFile = "metadata.yaml"

type ebookMeta struct {
	Name   string `yaml:"name"`
	Author string `yaml:"author"`
}

func main() {
	if err := newImportCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newImportCmd(out, errOut io.Writer) *cobra.Command {
	var (
		cfgFile   string
		dir       string
		sectionID int64
	)
	cmd := &cobra.Command{
		Use:           "import_ebooks",
		Short:         "Import a directory of .txt files as ebooks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			printer := output.NewPrinterWithWriters(out, errOut, cfg.Output.Colors, output.FormatTable)
			logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, errOut)
			mgr, err := portal.NewManager(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer mgr.Close()
			return importDir(cmd.Context(), mgr, printer, dir, sectionID)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is .libraryctl.yaml)")
	cmd.Flags().StringVar(&dir, "dir", "texts", "directory holding the .txt files")
	cmd.Flags().Int64Var(&sectionID, "section", 0, "target section id")
	_ = cmd.MarkFlagRequired("section")
	return cmd
}

func importDir(ctx context.Context, mgr *portal.Manager, printer *output.Printer, dir string, sectionID int64) error {
	if !mgr.Session().IsLibrarian() {
		return errors.New("importing needs a librarian session; run `libraryctl login --librarian` first")
	}
	if _, err := mgr.API().GetSection(ctx, sectionID); err != nil {
		return fmt.Errorf("section %d: %w", sectionID, err)
	}

	meta, err := loadMetadata(dir)
	if err != nil {
		return err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading ebooks directory: %w", err)
	}
	var names []string
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".txt") {
			continue
		}
		names = append(names, file.Name())
	}
	sort.Strings(names)

	printer.Info("Importing ebooks from %s into section %d...", dir, sectionID)
	successCount, errorCount := 0, 0
	t := output.NewTable(printer.Out(), []string{"File", "Name", "Author", "Result"})
	for _, filename := range names {
		m, ok := meta[filename]
		if !ok {
			m = ebookMeta{Name: nameFromFile(filename), Author: "Unknown"}
		}
		resp, err := mgr.AddEbookFromFile(ctx, sectionID, m.Name, m.Author, filepath.Join(dir, filename))
		if err != nil {
			t.AddRow(filename, truncateString(m.Name, 40), truncateString(m.Author, 25), "ERROR - "+err.Error())
			errorCount++
			continue
		}
		t.AddRow(filename, truncateString(m.Name, 40), truncateString(m.Author, 25), resp.Message)
		successCount++
	}
	if t.Len() > 0 {
		if err := t.Render(); err != nil {
			return err
		}
	}

	printer.Print("\nImport complete!")
	printer.Success("Successfully imported: %d ebooks", successCount)
	if errorCount > 0 {
		return fmt.Errorf("%d ebooks failed to import", errorCount)
	}
	return nil
}

func loadMetadata(dir string) (map[string]ebookMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]ebookMeta{}, nil
	}
	if err != nil {
		return nil, err
	}
	meta := map[string]ebookMeta{}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", metadataFile, err)
	}
	return meta, nil
}

// nameFromFile turns "animal_farm.txt" into "Animal Farm".
func nameFromFile(filename string) string {
	words := strings.FieldsFunc(strings.TrimSuffix(filename, filepath.Ext(filename)), func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
