package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// gooseLogger routes goose's printf output to slog.
type gooseLogger struct {
	log *slog.Logger
}

var _ goose.Logger = gooseLogger{}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}
