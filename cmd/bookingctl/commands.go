package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/client"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/itinerary"
	"github.com/robertarktes/show-booking/internal/timeline"
)

var errUsage = errors.New("usage")

type environment struct {
	getenv func(string) string
}

func (e environment) client() *client.Client {
	base := e.getenv("BOOKING_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return client.New(base, e.getenv("BOOKING_TOKEN"))
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

type perspectiveFlags struct {
	artist string
	venue  string
}

func (p *perspectiveFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.artist, "artist", "", "artist id")
	fs.StringVar(&p.venue, "venue", "", "venue id")
}

func (p perspectiveFlags) context() (itinerary.Context, error) {
	if (p.artist == "") == (p.venue == "") {
		return itinerary.Context{}, errors.Wrap(domain.ErrInvalidInput, "exactly one of -artist or -venue is required")
	}
	kind, raw := domain.EntityArtist, p.artist
	if p.venue != "" {
		kind, raw = domain.EntityVenue, p.venue
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return itinerary.Context{}, errors.Wrapf(domain.ErrInvalidInput, "bad %s id %q", strings.ToLower(string(kind)), raw)
	}
	return itinerary.Context{Kind: kind, ID: id}, nil
}

func timelineCmd(ctx context.Context, env environment, args []string, out io.Writer) error {
	fs := newFlagSet("timeline", out)
	var p perspectiveFlags
	p.register(fs)
	statuses := fs.String("status", "", "comma separated statuses to keep")
	expired := fs.Bool("expired", false, "include expired and past entries")
	legacy := fs.Bool("legacy", false, "merge shows, show requests, bids and offers")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	c, err := p.context()
	if err != nil {
		return err
	}

	params := client.TimelineParams{
		Perspective:    timeline.Perspective{Kind: c.Kind, ID: c.ID},
		IncludeExpired: *expired,
		Legacy:         *legacy,
	}
	for _, s := range strings.Split(*statuses, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		st, err := domain.ParseStatus(s)
		if err != nil {
			return err
		}
		params.Statuses = append(params.Statuses, st)
	}

	view, err := env.client().Timeline(ctx, params)
	if err != nil {
		return err
	}
	printView(out, view)
	return nil
}

func printView(out io.Writer, view timeline.View) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, g := range view.Groups {
		fmt.Fprintf(w, "%s\n", g.Key)
		for _, e := range g.Entries {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", e.Date, e.Status, e.Type, e.Data.Title, e.ID())
		}
	}
	w.Flush()
	st := view.Stats
	fmt.Fprintf(out, "\n%d entries, confirmed value %s, guarantees %s\n",
		st.Total, st.ConfirmedValue.StringFixed(2), st.GuaranteeTotal.StringFixed(2))
}

var respondStatus = map[string]domain.OpportunityStatus{
	"accept":  domain.StatusConfirmed,
	"decline": domain.StatusDeclined,
	"cancel":  domain.StatusCancelled,
}

func respondCmd(ctx context.Context, env environment, name string, args []string, out io.Writer) error {
	fs := newFlagSet(name, out)
	var p perspectiveFlags
	p.register(fs)
	reason := fs.String("reason", "", "reason kept with a decline or cancel")
	ctrl, id, err := controllerFor(ctx, env, fs, &p, args)
	if err != nil {
		return err
	}
	if err := ctrl.Respond(ctx, id, respondStatus[name], *reason); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", id, respondStatus[name])
	return nil
}

func deleteCmd(ctx context.Context, env environment, args []string, out io.Writer) error {
	fs := newFlagSet("delete", out)
	var p perspectiveFlags
	p.register(fs)
	ctrl, id, err := controllerFor(ctx, env, fs, &p, args)
	if err != nil {
		return err
	}
	if err := ctrl.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s deleted, %d entries left\n", id, len(ctrl.Visible()))
	return nil
}

// controllerFor parses the flags and the trailing opportunity id and loads
// the itinerary the mutation runs against.
func controllerFor(ctx context.Context, env environment, fs *flag.FlagSet, p *perspectiveFlags, args []string) (*itinerary.Controller, uuid.UUID, error) {
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return nil, uuid.Nil, errUsage
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return nil, uuid.Nil, errors.Wrapf(domain.ErrInvalidInput, "bad opportunity id %q", fs.Arg(0))
	}
	c, err := p.context()
	if err != nil {
		return nil, uuid.Nil, err
	}
	ctrl := itinerary.NewController(client.ItineraryBackend{Client: env.client()}, c)
	if err := ctrl.Refresh(ctx); err != nil {
		return nil, uuid.Nil, err
	}
	return ctrl, id, nil
}

func holdWatchCmd(ctx context.Context, env environment, args []string, out io.Writer) error {
	fs := newFlagSet("hold watch", out)
	show := fs.String("show", "", "show id")
	request := fs.String("request", "", "show request id")
	interval := fs.Duration("interval", time.Second, "tick interval")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if (*show == "") == (*request == "") {
		return errors.Wrap(domain.ErrInvalidInput, "exactly one of -show or -request is required")
	}
	param, raw := "showId", *show
	if *request != "" {
		param, raw = "showRequestId", *request
	}
	docID, err := uuid.Parse(raw)
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidInput, "bad document id %q", raw)
	}

	holds, err := env.client().Holds(ctx, param, docID, domain.HoldActive)
	if err != nil {
		return err
	}
	if len(holds) == 0 || holds[0].ExpiresAt == nil {
		fmt.Fprintln(out, "no active hold")
		return nil
	}
	h := holds[0]

	cd := domain.NewCountdown(*h.ExpiresAt, func() {
		fmt.Fprintf(out, "hold %s expired\n", h.ID)
	})
	cd.OnTick = func(remaining time.Duration, u domain.Urgency) {
		if remaining > 0 {
			fmt.Fprintf(out, "hold %s: %s left (%s)\n", h.ID, remaining.Truncate(time.Second), u)
		}
	}
	cd.Run(ctx, *interval, nil)
	return nil
}

func tokenCmd(env environment, args []string, out io.Writer) error {
	fs := newFlagSet("token", out)
	user := fs.String("user", "", "user id placed in sub")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := fs.String("secret", env.getenv("JWT_SECRET"), "HS256 signing secret")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *secret == "" {
		return errors.Wrap(domain.ErrInvalidInput, "a signing secret is required")
	}
	id, err := uuid.Parse(*user)
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidInput, "bad user id %q", *user)
	}
	token, err := client.NewToken([]byte(*secret), id, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
