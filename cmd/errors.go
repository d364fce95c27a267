package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	// Color functions with auto-detection for terminal support.
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg   = color.New(color.FgRed).SprintFunc()
)

// FormatError formats err as a single "Error: <message>" line for the terminal.
// Colors are used when available.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats err without colors.
func FormatErrorPlain(err error) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err error, useColors bool) string {
	var sb strings.Builder

	// Wrapped errors may carry newlines from underlying libraries.
	msg := strings.Join(strings.Fields(err.Error()), " ")

	if useColors {
		sb.WriteString(errorLabel("Error"))
		sb.WriteString(": ")
		sb.WriteString(errorMsg(msg))
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(msg)
	}
	sb.WriteString("\n")

	return sb.String()
}

// printError writes the formatted error to w, in color only when w is a terminal.
// Best-effort: there is no recovery action if the write fails.
func printError(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := FormatErrorPlain(err)
	if isTerminal(w) {
		msg = FormatError(err)
	}
	_, _ = fmt.Fprint(w, msg)
}

// isTerminal reports whether w is a terminal. color.NoColor only looks at stdout,
// which is usually redirected while stderr is not, or the other way around.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
