// Package notify prints operator-facing status lines. Diagnostic
// detail goes to slog; these are the messages a user is meant to
// read.
package notify

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Info prints a neutral progress message.
func Info(format string, args ...any) {
	infoColor.Fprintf(
		os.Stderr, "• "+format+"\n", args...,
	)
}

// Success prints a completion message.
func Success(format string, args ...any) {
	successColor.Fprintf(
		os.Stderr, "✓ "+format+"\n", args...,
	)
}

// Warning prints a non-fatal problem.
func Warning(format string, args ...any) {
	warnColor.Fprintf(
		os.Stderr, "! "+format+"\n", args...,
	)
}

// Error prints a fatal problem. The caller decides whether to
// exit.
func Error(format string, args ...any) {
	errorColor.Fprintf(
		os.Stderr, "✗ "+format+"\n", args...,
	)
}

// Line prints plain output to stdout, e.g. a created MR URL meant
// for shell capture.
func Line(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
