package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/client"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/geomap"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/urfave/cli/v2"
)

var apiFlag = &cli.StringFlag{
	Name:    "api",
	Value:   "http://localhost:8080",
	Usage:   "API base URL",
	EnvVars: []string{"BARKANDMEOW_API"},
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print a bcrypt hash for seeding users.password_hash.",
		ArgsUsage: "<password>",
		Action: func(c *cli.Context) error {
			pw := c.Args().First()
			if pw == "" {
				return fmt.Errorf("password argument is required")
			}
			hash, err := service.HashPassword(pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, hash)
			return nil
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List events as a table.",
		Flags: []cli.Flag{
			apiFlag,
			&cli.StringFlag{Name: "filter", Value: "upcoming", Usage: "all, upcoming or past"},
			&cli.TimestampFlag{Name: "from", Layout: "2006-01-02", Usage: "earliest date (YYYY-MM-DD)"},
			&cli.TimestampFlag{Name: "to", Layout: "2006-01-02", Usage: "latest date, inclusive (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			f, err := listing.ParseEventFilter(c.String("filter"))
			if err != nil {
				return err
			}
			from := c.Timestamp("from")
			to := c.Timestamp("to")
			if to != nil {
				end := to.Add(24*time.Hour - time.Nanosecond)
				to = &end
			}
			api, err := client.New(c.String("api"))
			if err != nil {
				return err
			}
			events, err := api.ListEvents(c.Context, f, from, to)
			if err != nil {
				return err
			}
			visible := listing.InDateRange(listing.FilterEvents(events, f, time.Now()), from, to)
			return renderEvents(c.App.Writer, visible)
		},
	}
}

func renderEvents(w io.Writer, events []dom.Event) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tLOCATION\tATTENDEES\tMAP")
	for _, e := range events {
		onMap := "-"
		if e.Point() != nil {
			onMap = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			e.ID, e.Date.Local().Format("2006-01-02 15:04"), e.Title, e.Location, e.AttendeesCount, onMap)
	}
	if len(events) == 0 {
		fmt.Fprintln(tw, "(no events)")
	}
	return tw.Flush()
}

func placesCommand() *cli.Command {
	return &cli.Command{
		Name:  "places",
		Usage: "List places and summarize their map view.",
		Flags: []cli.Flag{
			apiFlag,
			&cli.StringFlag{Name: "category", Usage: "pet-friendly, shop or vet"},
			&cli.StringFlag{Name: "q", Usage: "text search"},
			&cli.StringFlag{Name: "lat", Usage: "your latitude"},
			&cli.StringFlag{Name: "lng", Usage: "your longitude"},
		},
		Action: func(c *cli.Context) error {
			var cat *dom.Category
			if raw := c.String("category"); raw != "" {
				parsed, err := dom.ParseCategory(raw)
				if err != nil {
					return err
				}
				cat = &parsed
			}
			user, err := flagCoordinates(c.String("lat"), c.String("lng"))
			if err != nil {
				return err
			}
			api, err := client.New(c.String("api"))
			if err != nil {
				return err
			}
			places, err := api.ListPlaces(c.Context, client.PlaceParams{Category: cat, Text: c.String("q"), From: user})
			if err != nil {
				return err
			}
			sort := listing.SortByTitle
			if user != nil {
				sort = listing.SortByDistance
			}
			visible := listing.FilterPlaces(places, listing.PlaceQuery{Category: cat, Text: c.String("q"), OnlyActive: true, Sort: sort})

			view, err := geomap.NewReconciler(geomap.DefaultOptions()).Reconcile(geomap.Items(visible), user)
			if err != nil {
				return err
			}
			return renderPlaces(c.App.Writer, visible, view)
		},
	}
}

func flagCoordinates(latRaw, lngRaw string) (*dom.Coordinates, error) {
	lat, err := optionalFloat(latRaw)
	if err != nil {
		return nil, err
	}
	lng, err := optionalFloat(lngRaw)
	if err != nil {
		return nil, err
	}
	return dom.CoordinatesFrom(lat, lng)
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid coordinate %q", raw)
	}
	return &v, nil
}

func renderPlaces(w io.Writer, places []dom.Place, view geomap.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tADDRESS\tDISTANCE\tMARKER")
	for _, p := range places {
		dist := "-"
		if p.Distance != nil {
			dist = fmt.Sprintf("%.1f km", *p.Distance)
		}
		marker := "-"
		if i, ok := view.Index[p.MarkerID()]; ok {
			marker = "#" + strconv.Itoa(i+1) + " " + view.Markers[i].Style.Icon
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Category, p.Title, p.Address, dist, marker)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	vp := view.Viewport
	_, err := fmt.Fprintf(w, "\n%d markers, viewport %s at %.4f,%.4f zoom %d\n",
		len(view.Markers), vp.Mode, vp.Center.Latitude, vp.Center.Longitude, vp.Zoom)
	return err
}

func attendCommand() *cli.Command {
	return &cli.Command{
		Name:      "attend",
		Usage:     "Toggle your attendance for an event.",
		ArgsUsage: "<event-id>",
		Flags: []cli.Flag{
			apiFlag,
			&cli.StringFlag{Name: "user", Required: true, EnvVars: []string{"BARKANDMEOW_USER"}},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"BARKANDMEOW_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("event id is required")
			}
			api, err := client.New(c.String("api"))
			if err != nil {
				return err
			}
			return toggleAttendance(c.Context, api, c.String("user"), c.String("password"), id, c.App.Writer)
		},
	}
}

func toggleAttendance(ctx context.Context, api *client.Client, user, password string, eventID int64, w io.Writer) error {
	session, err := api.Login(ctx, user, password)
	if err != nil {
		return err
	}
	e, err := api.GetEvent(ctx, session, eventID)
	if err != nil {
		return err
	}
	state := client.NotAttending
	if e.Attending != nil && *e.Attending {
		state = client.Attending
	}
	notify := client.NotifierFunc(func(msg string) { fmt.Fprintln(os.Stderr, msg) })
	toggle := client.NewAttendanceToggle(api, session, eventID, state, e.AttendeesCount, notify)
	if err := toggle.Toggle(ctx); err != nil {
		return err
	}
	state, count := toggle.State()
	_, err = fmt.Fprintf(w, "%s: %s (%d attending)\n", e.Title, state, count)
	return err
}
