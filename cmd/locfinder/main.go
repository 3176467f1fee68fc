// Command locfinder searches for nearby members from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/apiclient"
	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/resultset"
)

// SearchFunc runs one proximity search.
type SearchFunc func(ctx context.Context, o *options) (apiclient.SearchResult, error)

type Dependencies struct {
	Search SearchFunc
	Getenv func(string) string
	Stdout io.Writer
}

func DefaultDependencies() Dependencies {
	return Dependencies{
		Search: func(ctx context.Context, o *options) (apiclient.SearchResult, error) {
			c := apiclient.NewClient(
				apiclient.WithBaseURL(o.ServerURL),
				apiclient.WithSubject(o.SubjectHeader, o.Subject),
			)
			return c.Search(ctx, o.Location, o.Radius, o.Unit)
		},
		Getenv: os.Getenv,
		Stdout: os.Stdout,
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := run(ctx, os.Args[1:], DefaultDependencies()); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Operation cancelled")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
	cancel()
}

func run(ctx context.Context, args []string, deps Dependencies) error {
	opts, err := parseFlags(args, deps.Getenv)
	if err != nil {
		return err
	}
	if opts.ShowHelp {
		_, err := fmt.Fprint(deps.Stdout, usage)
		return err
	}

	session := resultset.NewSession(resultset.New(opts.PageSize))
	ticket := session.Begin()
	res, err := deps.Search(ctx, opts)
	if err != nil {
		session.Fail(ticket)
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%s", apiErr.Message)
		}
		return err
	}
	view, _ := session.Deliver(ticket, res.Users)

	if opts.Name != "" {
		if view, err = session.Apply(resultset.NameFilterChanged{Text: opts.Name}); err != nil {
			return err
		}
	}
	if opts.ProfileType != "" {
		if view, err = session.Apply(resultset.ProfileTypeFilterChanged{Type: opts.ProfileType}); err != nil {
			return err
		}
	}
	if opts.Page > 1 {
		next, err := session.Apply(resultset.PageChanged{Page: opts.Page})
		if errors.Is(err, resultset.ErrPageOutOfRange) {
			return fmt.Errorf("page %d is out of range (%d pages)", opts.Page, view.TotalPages)
		}
		if err != nil {
			return err
		}
		view = next
	}

	unit := res.Unit
	if unit == "" {
		unit = domain.UnitKilometers
	}
	fmt.Fprintf(deps.Stdout, "Members within %g %s of %s (%.4f, %.4f)\n", opts.Radius, unit, opts.Location, res.Center.Lat, res.Center.Lng)
	return render(deps.Stdout, view, unit, session.ProfileTypes())
}
