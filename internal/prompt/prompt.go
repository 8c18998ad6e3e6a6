// Package prompt resolves where a command reads its input from.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Stdin is the argument that selects standard input explicitly.
const Stdin = "-"

var (
	ErrEmptyInput = errors.New("empty input")
	ErrAborted    = errors.New("input aborted")
)

// Input reads text for a command. The zero value is not usable; build one
// with New. Fields are exported so tests can replace the terminal pieces.
type Input struct {
	Stdin io.Reader

	// Interactive reports whether Stdin is a terminal a user can type into.
	Interactive func() bool
	// Ask shows an interactive prompt titled title.
	Ask func(title string) (string, error)
	// ReadClipboard returns the clipboard contents.
	ReadClipboard func() (string, error)
}

func New(stdin io.Reader) *Input {
	return &Input{
		Stdin:         stdin,
		Interactive:   func() bool { return isTerminal(stdin) },
		Ask:           ask,
		ReadClipboard: clipboard.ReadAll,
	}
}

// Read returns the text selected by arg: a file path, "-" for standard
// input, or empty to fall back to the clipboard (when fromClipboard is
// set), piped standard input, or an interactive prompt. An explicit arg
// wins over fromClipboard.
func (in *Input) Read(arg string, fromClipboard bool, title string) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case arg != "" && arg != Stdin:
		var data []byte
		data, err = os.ReadFile(arg)
		text = string(data)
	case arg == Stdin:
		text, err = in.readStdin()
	case fromClipboard:
		text, err = in.ReadClipboard()
		if err != nil {
			err = fmt.Errorf("read clipboard: %w", err)
		}
	case !in.Interactive():
		text, err = in.readStdin()
	default:
		text, err = in.Ask(title)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

func (in *Input) readStdin() (string, error) {
	data, err := io.ReadAll(in.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func ask(title string) (string, error) {
	var text string
	err := huh.NewText().
		Title(title).
		CharLimit(0).
		Value(&text).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return ErrEmptyInput
			}
			return nil
		}).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", ErrAborted
	}
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return text, nil
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
