package app

import (
	"io"
	"log/slog"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/config"
	"github.com/go-chi/httplog/v3"
)

// NewLogger builds the ECS-formatted JSON logger shared by the API, the
// scheduler and the CLI.
func NewLogger(cfg *config.Config, component string, out io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	isLocal := cfg.App.Env == "development"
	logFormat := httplog.SchemaECS.Concise(isLocal)
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrm-payroll"),
		slog.String("component", component),
		slog.String("env", cfg.App.Env),
	)
}
