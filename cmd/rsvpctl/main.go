// Command rsvpctl drives the event store against a running gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/alchies-rsvp/internal/application/eventstore"
	"github.com/baechuer/alchies-rsvp/internal/infrastructure/gatewayclient"
	"github.com/baechuer/alchies-rsvp/internal/logger"
	pkgctx "github.com/baechuer/alchies-rsvp/internal/pkg/context"
)

const usage = `usage: rsvpctl [global flags] <command> [flags] [args]

commands:
  list [-archived] [-by-month]
  show ID
  create -title T -date YYYY-MM-DD -time HH:MM -location L [-description D] [-organizer ID]
  rsvp [-comment C] ID USER_ID STATUS
  rate ID USER_ID N|null
  archive ID
  unarchive ID
  delete [-soft] ID
  upload ID FILE
  expense -amount N -desc D -paid-by USER_ID -category C ID
  total ID AMOUNT

global flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type cli struct {
	store  *eventstore.Store
	client *gatewayclient.Client
	out    io.Writer
	asJSON bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rsvpctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	gateway := fs.String("gateway", envOr("RSVP_GATEWAY_URL", "http://localhost:8888"), "gateway base URL")
	token := fs.String("token", os.Getenv("RSVP_TOKEN"), "bearer token for mutating calls")
	origin := fs.String("origin", envOr("PUBLIC_ORIGIN", eventstore.DefaultOrigin), "origin used for shareable links")
	timeout := fs.Duration("timeout", 15*time.Second, "per-request timeout")
	asJSON := fs.Bool("json", false, "print events as JSON")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	logger.InitWithWriter(stderr, "rsvpctl")

	client := gatewayclient.New(*gateway,
		gatewayclient.WithTimeout(*timeout),
		gatewayclient.WithBearerToken(*token),
	)
	c := &cli{
		store:  eventstore.New(client, nil, *origin),
		client: client,
		out:    stdout,
		asJSON: *asJSON,
	}

	ctx = pkgctx.WithRequestID(ctx, uuid.NewString())
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	handlers := map[string]func(context.Context, []string) error{
		"list":      c.list,
		"show":      c.show,
		"create":    c.create,
		"rsvp":      c.rsvp,
		"rate":      c.rate,
		"archive":   c.archive(true),
		"unarchive": c.archive(false),
		"delete":    c.delete,
		"upload":    c.upload,
		"expense":   c.expense,
		"total":     c.total,
	}
	h, ok := handlers[cmd]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}

	if err := h(ctx, rest); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
