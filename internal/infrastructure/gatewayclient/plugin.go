package gatewayclient

import (
	"net/http"
	"sync"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/logger"
)

// requestLogger is a heimdall plugin that writes one line per gateway call.
type requestLogger struct {
	started sync.Map // *http.Request -> time.Time
}

func (p *requestLogger) OnRequestStart(req *http.Request) {
	p.started.Store(req, time.Now())
}

func (p *requestLogger) OnRequestEnd(req *http.Request, resp *http.Response) {
	logger.Ctx(req.Context()).Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("latency", p.elapsed(req)).
		Msg("gateway request")
}

func (p *requestLogger) OnError(req *http.Request, err error) {
	logger.Ctx(req.Context()).Warn().
		Err(err).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("latency", p.elapsed(req)).
		Msg("gateway request failed")
}

func (p *requestLogger) elapsed(req *http.Request) time.Duration {
	v, ok := p.started.LoadAndDelete(req)
	if !ok {
		return 0
	}
	return time.Since(v.(time.Time))
}
