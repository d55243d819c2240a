package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/config"
	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
	"github.com/smokyabdulrahman/salah-times/internal/tui"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live countdown to the next prayer and iqama",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(a *app) error {
				return tui.Run(ctx, a.engine(nil), tui.Options{
					Lang:       a.lang(ctx),
					TimeLayout: a.layout(),
					Hijri:      a.hijri(),
				})
			})
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch today's prayer times again, ignoring the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(a *app) error {
				eng := a.engine(nil)
				out, err := eng.Reload(ctx, eng.Now())
				if err != nil {
					return err
				}
				if FlagJSON {
					return writeJSON(cmd.OutOrStdout(), refreshJSON{
						City:     out.City,
						Date:     out.Date,
						Source:   out.Source.String(),
						Provider: out.Provider,
						Error:    errString(out.FetchErr),
					})
				}
				w := cmd.OutOrStdout()
				if out.FetchErr != nil {
					fmt.Fprintf(w, "%s %s\n", display.Red("fetch failed:"), out.FetchErr)
					fmt.Fprintf(w, "Using %s prayer times for %s (%s).\n", out.Source, out.City, out.Date)
					return nil
				}
				fmt.Fprintf(w, "Updated %s for %s from %s.\n", out.City, out.Date, out.Provider)
				return nil
			})
		},
	}
}

type refreshJSON struct {
	City     string `json:"city"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var flagHijriDate string

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri",
		Short: "Show the Hijri date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(a *app) error {
				day := nowFunc().In(a.zone)
				if flagHijriDate != "" {
					d, err := time.ParseInLocation(prayer.DateLayout, flagHijriDate, a.zone)
					if err != nil {
						return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagHijriDate)
					}
					day = d
				}
				h := a.hijri().For(ctx, day)
				lang := a.lang(ctx)
				if FlagJSON {
					return writeJSON(cmd.OutOrStdout(), hijriJSON{
						Day:         h.Day,
						Month:       h.Month,
						MonthName:   h.MonthName(lang),
						Year:        h.Year,
						Approximate: h.Approximate,
						Text:        h.Format(lang),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), h.Format(lang))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&flagHijriDate, "date", "", "Gregorian date YYYY-MM-DD (default: today)")
	return cmd
}

type hijriJSON struct {
	Day         int    `json:"day"`
	Month       int    `json:"month"`
	MonthName   string `json:"month_name"`
	Year        int    `json:"year"`
	Approximate bool   `json:"approximate"`
	Text        string `json:"text"`
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display the effective configuration, or use subcommands to modify the config file.\nEnvironment variables SALAH_<KEY> and a ./.env file override the file.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  salah-times config set city Rabat\n  salah-times config set language fr\n  salah-times config set providers aladhan,offline\n  salah-times config set time_format 12h\n  salah-times config set mqtt_broker tcp://localhost:1883",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		Args:  cobra.NoArgs,
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})

	return cmd
}

func configPath() (string, error) {
	if FlagConfig != "" {
		return FlagConfig, nil
	}
	return config.Path()
}

// runConfigShow displays the effective configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	cfg := loadedConfig
	w := cmd.OutOrStdout()
	if FlagJSON {
		out := map[string]string{}
		for _, key := range config.ValidKeys {
			out[key], _ = cfg.Get(key)
		}
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "  Configuration (%s)\n\n", path)
	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = "(not set)"
		}
		if key == "method" && val != "" {
			shown = formatMethodValue(val)
		}
		fmt.Fprintf(w, "  %-16s %s\n", key, shown)
	}

	return withApp(cmd.Context(), func(a *app) error {
		stored, err := a.db.AllSettings(cmd.Context())
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			return nil
		}
		keys := make([]string, 0, len(stored))
		for k := range stored {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "\n  Stored settings (%s)\n\n", a.db.Path())
		for _, k := range keys {
			fmt.Fprintf(w, "  %-24s %s\n", k, stored[k])
		}
		return nil
	})
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	shown, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, shown)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := config.ResetAt(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method name to the numeric value.
func formatMethodValue(val string) string {
	for _, m := range CalculationMethods {
		if fmt.Sprintf("%d", m.ID) == val {
			return fmt.Sprintf("%s (%s)", val, m.Name)
		}
	}
	return val
}

// CalculationMethods lists all supported Al Adhan API calculation methods.
var CalculationMethods = []struct {
	ID   int
	Name string
}{
	{0, "Shia Ithna-Ashari (Jafari)"},
	{1, "University of Islamic Sciences, Karachi"},
	{2, "Islamic Society of North America (ISNA)"},
	{3, "Muslim World League (MWL)"},
	{4, "Umm Al-Qura University, Makkah"},
	{5, "Egyptian General Authority of Survey"},
	{7, "Institute of Geophysics, University of Tehran"},
	{8, "Gulf Region"},
	{9, "Kuwait"},
	{10, "Qatar"},
	{11, "Majlis Ugama Islam Singapura (Singapore)"},
	{12, "Union Organization Islamic de France"},
	{13, "Diyanet Isleri Baskanligi, Turkey (experimental)"},
	{14, "Spiritual Administration of Muslims of Russia"},
	{15, "Moonsighting Committee Worldwide"},
	{16, "Dubai (experimental)"},
	{17, "JAKIM (Malaysia)"},
	{18, "Tunisia"},
	{19, "Algeria"},
	{20, "KEMENAG (Indonesia)"},
	{21, "Morocco"},
	{22, "Comunidade Islamica de Lisboa (Portugal)"},
	{23, "Ministry of Awqaf, Jordan"},
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of all Al Adhan API calculation methods. Only the aladhan provider uses it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Supported calculation methods:")
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %-4s %s\n", "ID", "Name")
			fmt.Fprintf(w, "  %-4s %s\n", "──", "────")
			for _, m := range CalculationMethods {
				fmt.Fprintf(w, "  %-4d %s\n", m.ID, m.Name)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Use `salah-times config set method <ID>` to select one (default: 21, Morocco).")
			return nil
		},
	}
}
