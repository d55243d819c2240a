package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/engine"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer schedule (default command)",
		Long:  "Show today's prayer and iqama times with the current and next prayer.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		eng, out, err := loadToday(ctx, a)
		if err != nil {
			return err
		}
		snap, err := eng.Snapshot()
		if err != nil {
			return err
		}

		now := eng.Now()
		view := todayView{
			lang:    a.lang(ctx),
			layout:  a.layout(),
			now:     now,
			snap:    snap,
			state:   eng.Evaluate(now),
			iqama:   eng.IqamaConfig(),
			hijri:   a.hijri().For(ctx, now).Format(a.lang(ctx)),
			outcome: out,
		}

		w := cmd.OutOrStdout()
		if FlagJSON {
			return view.writeJSON(w)
		}
		view.writeRich(w)
		return nil
	})
}

// todayView is everything the today output needs, gathered once.
type todayView struct {
	lang    string
	layout  string
	now     time.Time
	snap    engine.Snapshot
	state   prayer.State
	iqama   prayer.IqamaConfig
	hijri   string
	outcome engine.Outcome
}

func (v todayView) writeRich(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", v.snap.City.Display(v.lang))
	fmt.Fprintf(w, "  %s\n", v.now.Format("Monday 02 January 2006"))
	fmt.Fprintf(w, "  %s\n", v.hijri)
	fmt.Fprintln(w)

	fmt.Fprint(w, display.ScheduleTable(v.snap.Times, v.state, display.ScheduleOptions{
		Lang:       v.lang,
		TimeLayout: v.layout,
		Iqama:      v.iqama,
	}))
	fmt.Fprintln(w)

	if iq, ok := v.state.IqamaCountdown(); ok {
		fmt.Fprintf(w, "  %s\n", display.Yellow(fmt.Sprintf("Iqama %s in %s", v.state.Iqama.Slot.Name(v.lang), iq)))
	}
	fmt.Fprintf(w, "  %s\n", display.Gray(sourceLine(v.snap, v.outcome)))
	fmt.Fprintln(w)
}

// sourceLine tells where the schedule came from, and why when it is a
// fallback.
func sourceLine(snap engine.Snapshot, out engine.Outcome) string {
	s := "source: " + snap.Source.String()
	if snap.Provider != "" {
		s += " (" + snap.Provider + ")"
	}
	if out.FetchErr != nil {
		s += "; fetch failed: " + out.FetchErr.Error()
	}
	return s
}

// todayJSON is the JSON output structure for the today command.
type todayJSON struct {
	City     string            `json:"city"`
	Date     string            `json:"date"`
	Hijri    string            `json:"hijri"`
	Timings  map[string]string `json:"timings"`
	Iqama    map[string]string `json:"iqama"`
	Current  string            `json:"current"`
	Next     *todayJSONNext    `json:"next"`
	Source   string            `json:"source"`
	Provider string            `json:"provider,omitempty"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Tomorrow  bool   `json:"tomorrow"`
	Iqama     string `json:"iqama_countdown,omitempty"`
}

func (v todayView) writeJSON(w io.Writer) error {
	out := todayJSON{
		City:     v.snap.City.Display(v.lang),
		Date:     v.snap.Times.Date,
		Hijri:    v.hijri,
		Timings:  map[string]string{},
		Iqama:    map[string]string{},
		Source:   v.snap.Source.String(),
		Provider: v.snap.Provider,
	}
	for _, s := range prayer.AllSlots {
		m := v.snap.Times.Minute(s)
		out.Timings[s.Key()] = prayer.FormatClock(m, v.layout)
		if s.IsPrayer() {
			out.Iqama[s.Key()] = prayer.FormatClock(m+v.iqama.Delay(s), v.layout)
		}
	}
	if v.state.Current != prayer.NoSlot {
		out.Current = v.state.Current.Key()
	}
	if v.state.HasData {
		out.Next = &todayJSONNext{
			Prayer:    v.state.Next.Key(),
			Time:      prayer.FormatClock(v.state.NextMinute, v.layout),
			Remaining: prayer.FormatRemaining(v.state.SecondsToNext),
			Tomorrow:  v.state.NextIsTomorrow,
		}
		if iq, ok := v.state.IqamaCountdown(); ok {
			out.Next.Iqama = iq
		}
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// loadToday brings the engine up to date and returns it.
func loadToday(ctx context.Context, a *app) (*engine.Engine, engine.Outcome, error) {
	eng := a.engine(nil)
	out, err := eng.Update(ctx, eng.Now())
	return eng, out, err
}
