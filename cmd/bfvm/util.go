package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
)

var red = color.New(color.FgRed).SprintFunc()

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, red(strings.TrimSuffix(formatError(err), "\n")))
}

// formatError renders every structured error contained in err with its
// source snippet and context. Other errors print as-is.
func formatError(err error) string {
	structured := errz.AsStructured(err)
	if len(structured) == 0 {
		return err.Error()
	}
	var sb strings.Builder
	for i, se := range structured {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(se.FriendlyErrorMessage())
	}
	return sb.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from viper and adjusts the environment accordingly.
func (a *app) processGlobalFlags() {
	if a.v.GetBool("no-color") || !isTerminal(a.stdout) {
		color.NoColor = true
	}
}

var outputFormatsCompletion = []string{"json", "text"}

// outputFormat returns the lowercased --output value, or an error when it
// names an unknown format.
func (a *app) outputFormat() (string, error) {
	format := a.v.GetString("output")
	switch lower := strings.ToLower(format); lower {
	case "", "json", "text":
		return lower, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func (a *app) writeJSON(value any) error {
	var data []byte
	var err error
	if color.NoColor {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = prettyjson.Marshal(value)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}

func (a *app) openInput() (io.Reader, func(), error) {
	path := a.v.GetString("input")
	if path == "" {
		return a.stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// getCode determines what source to use: --code or a file path argument.
func (a *app) getCode(args []string) (string, error) {
	codeSet := a.v.GetString("code") != ""
	pathSupplied := len(args) > 0
	if codeSet && pathSupplied {
		return "", errors.New("multiple input sources specified")
	}
	if pathSupplied {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if !codeSet {
		return "", errors.New("no input provided")
	}
	return a.v.GetString("code"), nil
}
