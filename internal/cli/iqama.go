package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

func newIqamaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iqama",
		Short: "Show iqama delays and the running iqama countdown",
		Args:  cobra.NoArgs,
		RunE:  runIqamaShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <prayer> <minutes>",
		Short: "Set the minutes between adhan and iqama for one prayer",
		Long:  "Set the iqama delay of a prayer. Names are accepted in English, French or Arabic.\n\nExample:\n  salah-times iqama set maghrib 7",
		Args:  cobra.ExactArgs(2),
		RunE:  runIqamaSet,
	})
	return cmd
}

func runIqamaShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		eng, _, err := loadToday(ctx, a)
		if err != nil {
			return err
		}
		st := eng.Evaluate(eng.Now())
		cfg := eng.IqamaConfig()
		lang := a.lang(ctx)

		if FlagJSON {
			out := iqamaJSON{Delays: map[string]int{}}
			for _, s := range prayer.Prayers {
				out.Delays[s.Key()] = cfg.Delay(s)
			}
			if iq, ok := st.IqamaCountdown(); ok {
				out.Active = st.Iqama.Slot.Key()
				out.Countdown = iq
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}

		tbl := display.NewTable([]string{"Prayer", "Adhan", "Delay", "Iqama"})
		for i, s := range prayer.Prayers {
			adhan := eng.Times().Minute(s)
			tbl.AddRow([]string{
				s.Name(lang),
				prayer.FormatClock(adhan, a.layout()),
				fmt.Sprintf("%d min", cfg.Delay(s)),
				prayer.FormatClock(adhan+cfg.Delay(s), a.layout()),
			})
			if st.Iqama != nil && st.Iqama.Slot == s {
				tbl.SetHighlightRow(i)
			}
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w)
		fmt.Fprint(w, tbl.Render())
		fmt.Fprintln(w)
		if iq, ok := st.IqamaCountdown(); ok {
			fmt.Fprintf(w, "  %s\n\n", display.Yellow(fmt.Sprintf("Iqama %s in %s", st.Iqama.Slot.Name(lang), iq)))
		}
		return nil
	})
}

type iqamaJSON struct {
	Delays    map[string]int `json:"delays"`
	Active    string         `json:"active,omitempty"`
	Countdown string         `json:"countdown,omitempty"`
}

func runIqamaSet(cmd *cobra.Command, args []string) error {
	slot, err := prayer.ParseSlot(args[0])
	if err != nil {
		return err
	}
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid minutes %q: must be an integer", args[1])
	}

	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		if err := a.settings.SetIqamaDelay(ctx, slot, minutes); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Iqama for %s set to %d minutes after adhan.\n", slot.Name(a.lang(ctx)), minutes)
		return nil
	})
}
