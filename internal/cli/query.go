package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nPrayer names are accepted in English, French or Arabic: fajr, chourouk, dohr, العصر, maghreb, isha...",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// parseDays reads --days: a positive integer, "week" or "month".
func parseDays(s string) (int, error) {
	switch s {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 366 {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", s)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	slot, err := prayer.ParseSlot(args[0])
	if err != nil {
		return err
	}
	days, err := parseDays(flagQueryDays)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		lang := a.lang(ctx)
		w := cmd.OutOrStdout()

		if days == 1 {
			eng, _, err := loadToday(ctx, a)
			if err != nil {
				return err
			}
			t := eng.Times()
			timeStr := prayer.FormatClock(t.Minute(slot), a.layout())
			if FlagJSON {
				return writeJSON(w, queryJSONDay{Prayer: slot.Key(), Date: t.Date, Time: timeStr})
			}
			fmt.Fprintf(w, "%s %s\n", slot.Name(lang), timeStr)
			return nil
		}

		city := a.engine(nil).City(ctx)
		start := nowFunc().In(a.zone)
		list, src, err := fetchDays(ctx, a, city, start, days)
		if err != nil {
			return err
		}

		if FlagJSON {
			out := queryJSONMulti{City: city.Display(lang), Prayer: slot.Key(), Source: src}
			for _, t := range list {
				out.Days = append(out.Days, queryJSONDay{Date: t.Date, Time: prayer.FormatClock(t.Minute(slot), a.layout())})
			}
			return writeJSON(w, out)
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("%s Times, %d Days", slot.Name(lang), days)))
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", city.Display(lang))
		fmt.Fprintln(w)

		tbl := display.NewTable([]string{"Date", slot.Name(lang)})
		today := start.Format(prayer.DateLayout)
		for i, t := range list {
			tbl.AddRow([]string{dateLabel(t, a.zone), prayer.FormatClock(t.Minute(slot), a.layout())})
			if t.Date == today {
				tbl.SetHighlightRow(i)
			}
		}
		fmt.Fprint(w, tbl.Render())
		fmt.Fprintln(w)
		return nil
	})
}

type queryJSONDay struct {
	Prayer string `json:"prayer,omitempty"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

type queryJSONMulti struct {
	City   string         `json:"city"`
	Prayer string         `json:"prayer"`
	Source string         `json:"source"`
	Days   []queryJSONDay `json:"days"`
}
