package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/baechuer/alchies-rsvp/internal/roster"
)

var errUsage = errors.New("bad arguments, see rsvpctl -h")

func subFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := subFlags("list")
	archived := fs.Bool("archived", false, "show memories instead of upcoming events")
	byMonth := fs.Bool("by-month", false, "group memories by month")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := c.store.FetchAll(ctx); err != nil {
		return err
	}

	if *byMonth {
		for _, g := range c.store.MemoriesByMonth() {
			fmt.Fprintln(c.out, g.Month)
			if err := c.printEvents(g.Events); err != nil {
				return err
			}
		}
		return nil
	}
	if *archived {
		return c.printEvents(c.store.Memories())
	}
	return c.printEvents(c.store.Active())
}

func (c *cli) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	e, err := c.client.GetByID(ctx, args[0])
	if err != nil {
		return err
	}
	return c.printJSON(e)
}

func (c *cli) create(ctx context.Context, args []string) error {
	fs := subFlags("create")
	var d domain.Draft
	fs.StringVar(&d.Title, "title", "", "")
	fs.StringVar(&d.Date, "date", "", "")
	fs.StringVar(&d.Time, "time", "", "")
	fs.StringVar(&d.Location, "location", "", "")
	fs.StringVar(&d.Description, "description", "", "")
	fs.StringVar(&d.ImageURL, "image-url", "", "")
	organizer := fs.String("organizer", "", "roster user id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *organizer != "" {
		u, ok := roster.Lookup(*organizer)
		if !ok {
			return fmt.Errorf("unknown organizer %q", *organizer)
		}
		d.Organizer = u
	}
	d.Status = domain.StatusActive

	if err := domain.ValidateDraft(d); err != nil {
		return err
	}
	e, err := c.store.Create(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created %s\n%s\n", e.ID, e.ShareableLink)
	return nil
}

func (c *cli) rsvp(ctx context.Context, args []string) error {
	fs := subFlags("rsvp")
	comment := fs.String("comment", "", "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 3 {
		return errUsage
	}
	eventID, userID := fs.Arg(0), fs.Arg(1)
	status := domain.RSVPStatus(fs.Arg(2))
	if !status.Valid() {
		return fmt.Errorf("status must be attending, not-attending or undecided")
	}

	name := userID
	if u, ok := roster.Lookup(userID); ok {
		name = u.Name
	}
	e, err := c.store.UpdateRSVP(ctx, eventID, domain.RSVP{
		UserID:  userID,
		Name:    name,
		Status:  status,
		Comment: *comment,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %d rsvps\n", e.ID, len(e.RSVPs))
	return nil
}

func (c *cli) rate(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	var rating *float64
	if args[2] != "null" {
		v, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("rating: %w", err)
		}
		rating = &v
	}
	if _, err := c.store.UpdateRating(ctx, args[0], args[1], rating); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "rating saved")
	return nil
}

// archive loads the collection first since the store only flips events it holds.
func (c *cli) archive(archived bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			return errUsage
		}
		id := args[0]
		if err := c.store.FetchAll(ctx); err != nil {
			return err
		}
		if _, ok := c.store.Get(id); !ok {
			return domain.ErrNotFound("Event not found")
		}

		if archived {
			c.store.Archive(ctx, id)
		} else {
			c.store.Unarchive(ctx, id)
		}
		c.store.Wait()

		if st, ok := c.store.Snapshot().Sync[id]; ok && st.Err != "" {
			return fmt.Errorf("sync failed: %s", st.Err)
		}
		fmt.Fprintln(c.out, "ok")
		return nil
	}
}

func (c *cli) delete(ctx context.Context, args []string) error {
	fs := subFlags("delete")
	soft := fs.Bool("soft", false, "archive on the server instead of deleting")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	id := fs.Arg(0)

	if *soft {
		if err := c.client.Archive(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Event archived successfully")
		return nil
	}
	if err := c.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Event permanently deleted")
	return nil
}

func (c *cli) upload(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	e, err := c.store.UploadEventImage(ctx, args[0], data)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, e.ImageURL)
	return nil
}

func (c *cli) expense(ctx context.Context, args []string) error {
	fs := subFlags("expense")
	var exp domain.Expense
	fs.Float64Var(&exp.Amount, "amount", 0, "")
	fs.StringVar(&exp.Description, "desc", "", "")
	fs.StringVar(&exp.PaidBy, "paid-by", "", "")
	category := fs.String("category", string(domain.CategoryOther), "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	exp.Category = domain.ExpenseCategory(*category)

	if err := domain.ValidateExpense(exp); err != nil {
		return err
	}
	e, err := c.store.AddExpense(ctx, fs.Arg(0), exp)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %d expenses\n", e.ID, len(e.Expenses))
	return nil
}

func (c *cli) total(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount < 0 {
		return fmt.Errorf("amount must be a non-negative number")
	}
	if _, err := c.store.SetTotalExpense(ctx, args[0], amount); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "total saved")
	return nil
}

func (c *cli) printEvents(events []domain.Event) error {
	if c.asJSON {
		if events == nil {
			events = []domain.Event{}
		}
		return c.printJSON(events)
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTART\tEND\tTITLE\tLOCATION\tGOING")
	for _, e := range events {
		going := 0
		for _, r := range e.RSVPs {
			if r.Status == domain.RSVPAttending {
				going++
			}
		}
		start, end := e.TimeRange()
		if end == "" {
			end = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n", e.ID, e.Date, start, end, e.Title, strings.TrimSpace(e.Location), going)
	}
	return tw.Flush()
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
