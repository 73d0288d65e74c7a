// Package notify defines the channel through which the storefront core
// reports outcomes to the user. The core never renders anything itself; it
// hands a message and a severity to whatever Notifier the front end wired in.
package notify

import (
	"fmt"
	"io"
	"log/slog"
)

// Severity classifies a notification the way the storefront UI presents it.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notifier receives user-visible outcome reports.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a plain function to the Notifier interface.
type Func func(message string, severity Severity)

func (f Func) Notify(message string, severity Severity) {
	f(message, severity)
}

// NewSlog returns a Notifier that reports through the given structured
// logger. Used by non-interactive commands where there is no toast surface.
func NewSlog(logger *slog.Logger) Notifier {
	return Func(func(message string, severity Severity) {
		switch severity {
		case Warning:
			logger.Warn(message)
		case Error:
			logger.Error(message)
		default:
			logger.Info(message)
		}
	})
}

// NewWriter returns a Notifier that prints "severity: message" lines to w.
func NewWriter(w io.Writer) Notifier {
	return Func(func(message string, severity Severity) {
		fmt.Fprintf(w, "%s: %s\n", severity, message)
	})
}
