package logger

import (
	"log/slog"
	"os"
)

// New creates the JSON logger shared by the webhook pipeline and the retry
// worker. Every record carries a service attribute so provider delivery logs
// stay filterable once aggregated.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("service", "paygate"))
}
