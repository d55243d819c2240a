package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

var flagHistoryLimit int

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the prayer times stored in the database",
		Long:  "List the days stored for the current city, newest first, with where each came from.\nThe daemon keeps 30 days.",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 14, "Maximum number of days")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if flagHistoryLimit < 1 {
		return fmt.Errorf("invalid --limit %d: must be positive", flagHistoryLimit)
	}
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		city := a.engine(nil).City(ctx)
		recs, err := a.db.History(ctx, city.Name, flagHistoryLimit)
		if err != nil {
			return err
		}

		lang := a.lang(ctx)
		w := cmd.OutOrStdout()
		if FlagJSON {
			out := historyJSON{City: city.Display(lang), Days: []historyJSONDay{}}
			for _, r := range recs {
				day := historyJSONDay{Date: r.Date(), Source: r.Source, Timings: map[string]string{}}
				if !r.FetchedAt.IsZero() {
					day.FetchedAt = r.FetchedAt.In(a.zone).Format("2006-01-02T15:04:05Z07:00")
				}
				for _, s := range prayer.AllSlots {
					day.Timings[s.Key()] = prayer.FormatClock(r.Times.Minute(s), a.layout())
				}
				out.Days = append(out.Days, day)
			}
			return writeJSON(w, out)
		}

		if len(recs) == 0 {
			fmt.Fprintf(w, "No stored prayer times for %s.\n", city.Display(lang))
			return nil
		}

		headers := []string{"Date"}
		for _, s := range prayer.AllSlots {
			headers = append(headers, s.Name(lang))
		}
		headers = append(headers, "Source")
		tbl := display.NewTable(headers)
		for _, r := range recs {
			row := []string{dateLabel(r.Times, a.zone)}
			for _, s := range prayer.AllSlots {
				row = append(row, prayer.FormatClock(r.Times.Minute(s), a.layout()))
			}
			row = append(row, r.Source)
			tbl.AddRow(row)
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s  %s\n\n", display.Bold("Stored prayer times"), city.Display(lang))
		fmt.Fprint(w, tbl.Render())
		fmt.Fprintln(w)
		return nil
	})
}

type historyJSON struct {
	City string           `json:"city"`
	Days []historyJSONDay `json:"days"`
}

type historyJSONDay struct {
	Date      string            `json:"date"`
	Timings   map[string]string `json:"timings"`
	Source    string            `json:"source,omitempty"`
	FetchedAt string            `json:"fetched_at,omitempty"`
}
