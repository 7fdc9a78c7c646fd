package logger

import (
	"context"
	"io"
	"os"
	"time"

	appCtx "github.com/baechuer/alchies-rsvp/internal/pkg/context"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

var Logger zerolog.Logger

// Init configures the global logger on stdout for the named component.
func Init(component string) {
	InitWithWriter(os.Stdout, component)
}

// InitWithWriter reads LOG_LEVEL (default info) and LOG_FORMAT
// ("json" or "console", default console).
func InitWithWriter(w io.Writer, component string) {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if os.Getenv("LOG_FORMAT") != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lc := zerolog.New(out).With().Timestamp()
	if component != "" {
		lc = lc.Str("component", component)
	}
	Logger = lc.Logger().Level(level)
	zlog.Logger = Logger
}

// Ctx returns the global logger tagged with the request id, the
// authenticated user and the active trace, when present on ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	reqID := appCtx.GetRequestID(ctx)
	uid := appCtx.GetUserID(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if reqID == "" && uid == "" && !sc.IsValid() {
		return &zlog.Logger
	}

	lc := zlog.Logger.With()
	if reqID != "" {
		lc = lc.Str("request_id", reqID)
	}
	if uid != "" {
		lc = lc.Str("user_id", uid)
	}
	if sc.IsValid() {
		lc = lc.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
	}
	l := lc.Logger()
	return &l
}
