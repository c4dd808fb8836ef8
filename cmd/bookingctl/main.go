// Command bookingctl drives the booking API from a terminal: it prints an
// artist's or venue's timeline, responds to opportunities, watches a hold
// count down, and mints development tokens.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/robertarktes/show-booking/internal/observability"
)

const usage = `usage: bookingctl <command> [flags]

commands:
  timeline                     print an artist or venue timeline
  accept|decline|cancel ID     respond to an opportunity
  delete ID                    withdraw an opportunity you proposed
  hold watch                   count down the active hold on a document
  token                        mint a signed API token

environment:
  BOOKING_API_URL   API base url (default http://localhost:8080)
  BOOKING_TOKEN     bearer token sent with every request
  JWT_SECRET        signing secret used by the token command
`

func main() {
	_ = godotenv.Load()
	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Getenv); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.WithError(err).Error("bookingctl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, getenv func(string) string) error {
	if len(args) == 0 {
		return errUsage
	}
	env := environment{getenv: getenv}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "timeline":
		return timelineCmd(ctx, env, rest, out)
	case "accept", "decline", "cancel":
		return respondCmd(ctx, env, cmd, rest, out)
	case "delete":
		return deleteCmd(ctx, env, rest, out)
	case "hold":
		if len(rest) == 0 || rest[0] != "watch" {
			return errUsage
		}
		return holdWatchCmd(ctx, env, rest[1:], out)
	case "token":
		return tokenCmd(env, rest, out)
	}
	return errUsage
}
