package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// errInputClosed is returned when input ends in the middle of a prompt.
var errInputClosed = errors.New("input closed")

// maxAnswer bounds one answer line, large enough for pasted ebook content.
const maxAnswer = 8 << 20

// prompter reads answers line by line. Passwords are masked when input is
// the terminal.
type prompter struct {
	sc       *bufio.Scanner
	out      io.Writer
	terminal bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	terminal := false
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		terminal = term.IsTerminal(int(syscall.Stdin))
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxAnswer)
	return &prompter{sc: sc, out: out, terminal: terminal}
}

// line prints label and returns the trimmed answer.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

// lineOr returns current when the answer is empty.
func (p *prompter) lineOr(label, current string) (string, error) {
	answer, err := p.line(fmt.Sprintf("%s [%s]: ", label, current))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// id reads a positive integer.
func (p *prompter) id(label string) (int64, error) {
	answer, err := p.line(label)
	if err != nil {
		return 0, err
	}
	return parseID(answer)
}

// password reads a password, masked on a terminal.
func (p *prompter) password(label string) (string, error) {
	if !p.terminal {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.out) // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", s)
	}
	return id, nil
}
