package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Print the next prayer on one line, for status bars such as tmux.\n\n" +
			"Formats: time-remaining, countdown, next-prayer-time, name-and-time, name-and-remaining,\n" +
			"short-name-and-time, short-name-and-remaining, full, or a Go template over\n" +
			"{{.Name}} {{.ShortName}} {{.Time}} {{.Remaining}} {{.Countdown}} {{.Current}} {{.Iqama}}.",
		Args: cobra.NoArgs,
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "", "Display format (default: config format, else full)")
	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		eng, _, err := loadToday(ctx, a)
		if err != nil {
			return err
		}
		st := eng.Evaluate(eng.Now())

		format := flagFormat
		if format == "" {
			format = a.cfg.Format
		}
		if format == "" {
			format = prayer.FormatFull
		}

		if FlagJSON {
			return writeJSON(cmd.OutOrStdout(), nextJSON(st, a.layout(), a.lang(ctx)))
		}
		fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(st, format, a.layout(), a.lang(ctx)))
		return nil
	})
}

func nextJSON(st prayer.State, layout, lang string) *todayJSONNext {
	if !st.HasData {
		return nil
	}
	out := &todayJSONNext{
		Prayer:    st.Next.Name(lang),
		Time:      prayer.FormatClock(st.NextMinute, layout),
		Remaining: prayer.FormatRemaining(st.SecondsToNext),
		Tomorrow:  st.NextIsTomorrow,
	}
	if iq, ok := st.IqamaCountdown(); ok {
		out.Iqama = iq
	}
	return out
}
