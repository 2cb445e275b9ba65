package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"library-client/library"
)

const (
	pageSize = 1500
	rule     = "═══════════════════════════════════════════════════════════════════════════════"
)

// paginate splits content into pages of at most size bytes without cutting
// a UTF-8 sequence in half.
func paginate(content string, size int) []string {
	var pages []string
	for len(content) > 0 {
		end := size
		if end >= len(content) {
			pages = append(pages, content)
			break
		}
		for end > 0 && !utf8.RuneStart(content[end]) {
			end--
		}
		if end == 0 {
			_, end = utf8.DecodeRuneInString(content)
		}
		pages = append(pages, content[:end])
		content = content[end:]
	}
	return pages
}

// readEbook provides a paginated reading experience.
func readEbook(p *prompter, out io.Writer, ebook library.Ebook, readerName string) error {
	pages := paginate(ebook.Content, pageSize)
	if len(pages) == 0 {
		return fmt.Errorf("ebook has no content to display")
	}

	cls := func() {
		if p.terminal {
			fmt.Fprint(out, "\033[2J\033[H") // Clear screen and move cursor to top
		}
	}
	pause := func() {
		fmt.Fprintln(out, "Press Enter to continue...")
		p.line("")
		cls()
	}

	currentPage := 0
	cls()
	for {
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "📖 %s by %s\n", ebook.Name, ebook.Author)
		fmt.Fprintf(out, "Reader: %s | Page %d of %d\n", readerName, currentPage+1, len(pages))
		fmt.Fprintf(out, "%s\n\n", rule)

		fmt.Fprintln(out, pages[currentPage])

		fmt.Fprintf(out, "\n%s\n", rule)
		fmt.Fprintln(out, "Navigation: [n]ext | [p]revious | [g]oto page | [q]uit")
		if currentPage > 0 {
			fmt.Fprint(out, "← Previous")
		}
		if currentPage < len(pages)-1 {
			if currentPage > 0 {
				fmt.Fprint(out, " | ")
			}
			fmt.Fprint(out, "Next →")
		}

		input, err := p.line("\n> ")
		if err != nil {
			return nil
		}
		input = strings.ToLower(input)
		cls()

		switch input {
		case "n", "next":
			if currentPage < len(pages)-1 {
				currentPage++
			} else {
				fmt.Fprintln(out, "📖 You're already on the last page!")
				pause()
			}
		case "p", "prev", "previous":
			if currentPage > 0 {
				currentPage--
			} else {
				fmt.Fprintln(out, "📖 You're already on the first page!")
				pause()
			}
		case "g", "goto":
			answer, err := p.line(fmt.Sprintf("Enter page number (1-%d): ", len(pages)))
			if err != nil {
				return nil
			}
			var page int
			if n, err := fmt.Sscanf(answer, "%d", &page); err == nil && n == 1 {
				currentPage = min(max(page-1, 0), len(pages)-1)
			} else {
				fmt.Fprintln(out, "Invalid page number!")
				pause()
			}
			cls()
		case "q", "quit", "exit":
			fmt.Fprintf(out, "📖 Finished reading '%s'.\n", ebook.Name)
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(out, "Unknown command: %s\n", input)
			fmt.Fprintln(out, "Use: [n]ext, [p]revious, [g]oto, or [q]uit")
			pause()
		}
	}
}
