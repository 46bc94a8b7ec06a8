package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"shelfscan/internal/preflight"
)

// Preflight results print as aligned "Label: [STATUS] detail" lines, coloured
// only when writing to a terminal.

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

type statusStyle struct {
	label string
	color string
}

var statusStyles = map[statusKind]statusStyle{
	statusInfo:  {label: "INFO", color: "\x1b[34m"},
	statusOK:    {label: "OK", color: "\x1b[32m"},
	statusWarn:  {label: "WARN", color: "\x1b[33m"},
	statusError: {label: "ERROR", color: "\x1b[31m"},
}

const (
	ansiReset        = "\x1b[0m"
	statusLabelWidth = 22
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

// checkKind maps a preflight result onto a status. Catalogs that are turned
// off are informational and a missing optional key is a warning.
func checkKind(result preflight.Result) statusKind {
	switch {
	case !result.Passed:
		return statusError
	case strings.HasPrefix(result.Detail, "skipped"):
		return statusWarn
	case result.Detail == "disabled":
		return statusInfo
	default:
		return statusOK
	}
}

func writeCheckResults(out io.Writer, results []preflight.Result) {
	colorize := shouldColorize(out)
	for _, result := range results {
		fmt.Fprintln(out, renderStatusLine(result.Name, checkKind(result), result.Detail, colorize))
	}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
