package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/alarm"
	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
	"github.com/smokyabdulrahman/salah-times/internal/settings"
)

var flagAlarmDay string

func newAlarmsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alarms",
		Aliases: []string{"alarm"},
		Short:   "Show or change the adhan alarms",
		Long:    "Without a subcommand, show the alarms the daemon would register right now.",
		Args:    cobra.NoArgs,
		RunE:    runAlarmsPlan,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "plan",
		Short: "Show the alarms that would be registered now",
		Args:  cobra.NoArgs,
		RunE:  runAlarmsPlan,
	})

	for _, on := range []bool{true, false} {
		on := on
		verb := "enable"
		if !on {
			verb = "disable"
		}
		sub := &cobra.Command{
			Use:   verb + " <prayer|all>",
			Short: strings.ToUpper(verb[:1]) + verb[1:] + " the alarm of a prayer",
			Long:  "Names are accepted in English, French or Arabic. With --day the change applies to one weekday (weekly mode).",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAlarmToggle(cmd, args[0], on)
			},
		}
		sub.Flags().StringVar(&flagAlarmDay, "day", "", "Weekday, e.g. fri or friday")
		cmd.AddCommand(sub)
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "mode <daily|weekly>",
		Short:     "Register one alarm per prayer, or one per prayer and weekday",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"daily", "weekly"},
		RunE:      runAlarmMode,
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "adhan <on|off>",
		Short:     "Master switch for every alarm",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE:      runAdhanSwitch,
	})
	return cmd
}

func runAlarmsPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		eng, _, err := loadToday(ctx, a)
		if err != nil {
			return err
		}
		snap, err := eng.Snapshot()
		if err != nil {
			return err
		}

		weekly := a.settings.WeeklyAlarms(ctx)
		rec := alarm.NewRecorder()
		rep := alarm.NewScheduler(rec, a.settings).Register(ctx, snap.Times, eng.Now(), alarm.Options{
			City:   snap.City.Name,
			Weekly: weekly,
		})

		if FlagJSON {
			return writeJSON(cmd.OutOrStdout(), planJSON(rep))
		}

		lang := a.lang(ctx)
		mode := "daily"
		if weekly {
			mode = "weekly"
		}
		master := "on"
		if !a.settings.AdhanEnabled(ctx) {
			master = display.Red("off")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s  %s\n", display.Bold("Adhan alarms"), snap.City.Display(lang))
		fmt.Fprintf(w, "  mode: %s   adhan: %s\n\n", mode, master)

		tbl := display.NewTable([]string{"ID", "Prayer", "Day", "Next", "Status"})
		for _, r := range rep.Results {
			day := ""
			if r.Weekday != nil {
				day = r.Weekday.String()[:3]
			}
			next := ""
			if r.Status == alarm.StatusExact || r.Status == alarm.StatusInexact {
				next = r.At.Format("Mon 02 Jan " + a.layout())
			}
			status := r.Status.String()
			switch r.Status {
			case alarm.StatusDisabled:
				status = display.Gray(status)
			case alarm.StatusFailed:
				status = display.Red(status + ": " + errString(r.Err))
			}
			tbl.AddRow([]string{fmt.Sprint(int(r.ID)), r.Slot.Name(lang), day, next, status})
		}
		fmt.Fprint(w, tbl.Render())
		fmt.Fprintln(w)
		return nil
	})
}

type alarmJSON struct {
	ID      int    `json:"id"`
	Prayer  string `json:"prayer"`
	Weekday string `json:"weekday,omitempty"`
	At      string `json:"at,omitempty"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func planJSON(rep alarm.Report) []alarmJSON {
	out := make([]alarmJSON, 0, len(rep.Results))
	for _, r := range rep.Results {
		j := alarmJSON{ID: int(r.ID), Prayer: r.Slot.Key(), Status: r.Status.String(), Error: errString(r.Err)}
		if r.Weekday != nil {
			j.Weekday = strings.ToLower(r.Weekday.String())
		}
		if !r.At.IsZero() && r.Status != alarm.StatusDisabled {
			j.At = r.At.Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, j)
	}
	return out
}

// parseAlarmTarget resolves a prayer name, or "all" for the five prayers.
func parseAlarmTarget(name string) ([]prayer.Slot, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		return prayer.Prayers, nil
	}
	s, err := prayer.ParseSlot(name)
	if err != nil {
		return nil, err
	}
	if !s.IsPrayer() {
		return nil, fmt.Errorf("%s has no alarm", s)
	}
	return []prayer.Slot{s}, nil
}

func runAlarmToggle(cmd *cobra.Command, target string, on bool) error {
	slots, err := parseAlarmTarget(target)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		for _, s := range slots {
			if flagAlarmDay != "" {
				wd, err := settings.ParseWeekday(flagAlarmDay)
				if err != nil {
					return err
				}
				if err := a.settings.SetAlarmEnabledOn(ctx, s, wd, on); err != nil {
					return err
				}
				continue
			}
			if err := a.settings.SetAlarmEnabled(ctx, s, on); err != nil {
				return err
			}
		}
		if err := invalidateAlarms(ctx, a); err != nil {
			return err
		}

		state := "enabled"
		if !on {
			state = "disabled"
		}
		names := make([]string, len(slots))
		for i, s := range slots {
			names[i] = s.Name(a.lang(ctx))
		}
		suffix := ""
		if flagAlarmDay != "" {
			suffix = " on " + flagAlarmDay
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alarm %s for %s%s.\n", state, strings.Join(names, ", "), suffix)
		return nil
	})
}

func runAlarmMode(cmd *cobra.Command, args []string) error {
	var weekly bool
	switch args[0] {
	case "daily":
	case "weekly":
		weekly = true
	default:
		return fmt.Errorf("invalid mode %q: must be daily or weekly", args[0])
	}
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		if err := a.settings.SetWeeklyAlarms(ctx, weekly); err != nil {
			return err
		}
		if err := invalidateAlarms(ctx, a); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alarm mode set to %s.\n", args[0])
		return nil
	})
}

func runAdhanSwitch(cmd *cobra.Command, args []string) error {
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		if err := a.settings.SetAdhanEnabled(ctx, on); err != nil {
			return err
		}
		if err := invalidateAlarms(ctx, a); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Adhan %s.\n", args[0])
		return nil
	})
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q: must be on or off", s)
}

// invalidateAlarms forgets that today's alarms were registered so the
// daemon registers them again on its next pass.
func invalidateAlarms(ctx context.Context, a *app) error {
	return a.db.ClearAlarmsSet(ctx, nowFunc().In(a.zone).Format(prayer.DateLayout))
}
