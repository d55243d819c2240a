package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/api"
	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
	"github.com/smokyabdulrahman/salah-times/internal/provider"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days starting today (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > 366 {
			return fmt.Errorf("invalid number of days: %q (must be between 1 and 366)", args[0])
		}
		days = n
	}

	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		city := a.engine(nil).City(ctx)
		start := nowFunc().In(a.zone)
		list, src, err := fetchDays(ctx, a, city, start, days)
		if err != nil {
			return err
		}

		lang := a.lang(ctx)
		w := cmd.OutOrStdout()
		if FlagJSON {
			return printListJSON(w, city, lang, src, list, a.layout())
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times, %d Days", days)))
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", city.Display(lang))
		fmt.Fprintln(w)

		headers := []string{"Date"}
		for _, s := range prayer.AllSlots {
			headers = append(headers, s.Name(lang))
		}
		tbl := display.NewTable(headers)

		today := start.Format(prayer.DateLayout)
		for i, t := range list {
			row := []string{dateLabel(t, a.zone)}
			for _, s := range prayer.AllSlots {
				row = append(row, prayer.FormatClock(t.Minute(s), a.layout()))
			}
			tbl.AddRow(row)
			if t.Date == today {
				tbl.SetHighlightRow(i)
			}
		}

		fmt.Fprint(w, tbl.Render())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n\n", display.Gray("source: "+src))
		return nil
	})
}

func dateLabel(t prayer.Times, loc *time.Location) string {
	d, err := t.Day(loc)
	if err != nil {
		return t.Date
	}
	return d.Format("Mon 02 Jan")
}

// fetchDays returns the schedules of `days` consecutive days from start.
// Whole months come from the Al Adhan calendar endpoint; when it is not
// configured or fails, stored days are used and the rest calculated locally.
func fetchDays(ctx context.Context, a *app, city cities.City, start time.Time, days int) ([]prayer.Times, string, error) {
	if !a.offline() && a.usesAladhan() {
		list, err := fetchCalendarDays(ctx, a, city, start, days)
		if err == nil {
			return list, "aladhan", nil
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		logger.Warn("calendar fetch failed, calculating locally", "city", city.Name, "err", err)
	}

	// Days already in the database keep their fetched times.
	var off provider.Offline
	out := make([]prayer.Times, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		rec, err := a.db.LoadDate(ctx, city.Name, day.Format(prayer.DateLayout))
		if err != nil {
			logger.Warn("reading stored day failed", "city", city.Name, "err", err)
		}
		if rec != nil {
			out = append(out, rec.Times)
			continue
		}
		t, err := off.Fetch(ctx, city, day)
		if err != nil {
			return nil, "", err
		}
		out = append(out, *t)
	}
	return out, off.Name(), nil
}

func (a *app) usesAladhan() bool {
	for _, n := range a.cfg.ProviderNames() {
		if n == "aladhan" {
			return true
		}
	}
	return false
}

// fetchCalendarDays fetches every month the range touches once and picks
// the requested days out of them.
func fetchCalendarDays(ctx context.Context, a *app, city cities.City, start time.Time, days int) ([]prayer.Times, error) {
	al := provider.NewAladhan(a.client)
	al.Method = a.cfg.MethodOrDefault(api.MethodMorocco)

	type yearMonth struct {
		year  int
		month time.Month
	}
	byDate := map[string]prayer.Times{}
	fetched := map[yearMonth]bool{}

	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		ym := yearMonth{d.Year(), d.Month()}
		if fetched[ym] {
			continue
		}
		month, err := al.FetchMonth(ctx, city, ym.year, ym.month, a.zone)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch calendar for %d-%02d: %w", ym.year, ym.month, err)
		}
		for _, t := range month {
			byDate[t.Date] = t
		}
		fetched[ym] = true
	}

	out := make([]prayer.Times, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(prayer.DateLayout)
		t, ok := byDate[key]
		if !ok {
			return nil, fmt.Errorf("calendar has no entry for %s", key)
		}
		out = append(out, t)
	}
	return out, nil
}

type listJSONOutput struct {
	City   string        `json:"city"`
	Source string        `json:"source"`
	Days   []listJSONDay `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(w io.Writer, city cities.City, lang, src string, list []prayer.Times, layout string) error {
	out := listJSONOutput{City: city.Display(lang), Source: src}
	for _, t := range list {
		timings := map[string]string{}
		for _, s := range prayer.AllSlots {
			timings[s.Key()] = prayer.FormatClock(t.Minute(s), layout)
		}
		out.Days = append(out.Days, listJSONDay{Date: t.Date, Timings: timings})
	}
	return writeJSON(w, out)
}
