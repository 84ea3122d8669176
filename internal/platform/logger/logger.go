// Package logger constructs the process logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns the structured logger used across the service. JSON output so
// log pipelines can index fields without parsing.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
