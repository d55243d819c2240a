package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/salah-times/internal/config"
	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/storage/sqlite"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagLang       string
	FlagJSON       bool
	FlagTimeFormat string
	FlagConfig     string
	FlagDB         string
	FlagStore      string
	FlagDebug      bool
	FlagOffline    bool
)

// loadedConfig holds the merged configuration (flags > env > file >
// defaults) built during PersistentPreRunE.
var loadedConfig config.Config

// NewRootCmd creates the root command for the salah-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "salah-times",
		Short:             "Moroccan prayer times, iqama countdowns and adhan alarms",
		Long:              "Prayer times for Moroccan cities from the Ministry schedule (via yabiladi),\nthe Al Adhan API or an offline calculation, with iqama countdowns and adhan alarms.",
		Version:           version,
		PersistentPreRunE: setup,
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "City name in English, French or Arabic (overrides config)")
	pf.StringVar(&FlagLang, "lang", "", "Language for prayer and city names: en, ar, fr")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagConfig, "config", "", "Config file (default: ~/.config/salah-times/config.json)")
	pf.StringVar(&FlagDB, "db", "", "SQLite database (default: ~/.local/share/salah-times/salah-times.db)")
	pf.StringVar(&FlagStore, "store", "", "Prayer times cache: sqlite, file or redis")
	pf.BoolVar(&FlagDebug, "debug", false, "Verbose logging to stderr")
	pf.BoolVar(&FlagOffline, "offline", false, "Never touch the network; calculate times locally")

	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newIqamaCmd())
	rootCmd.AddCommand(newAlarmsCmd())
	rootCmd.AddCommand(newDaemonCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newCitiesCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newAdhkarCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("salah-times %s\n", version)
}

// setup loads .env and the config layers, applies the command-line
// overrides and starts the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := FlagConfig
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Resolve(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	loadedConfig = cfg

	if FlagJSON {
		display.SetEnabled(false)
	}

	dir, err := logDir(cfg)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: dir}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("config resolved", "path", path, "city", cfg.City, "store", cfg.Store, "providers", cfg.Providers)
	return nil
}

// applyFlags copies every explicitly set flag into cfg, validated by
// config.Set like any other source.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	overrides := []struct {
		flag, key, value string
	}{
		{"city", "city", FlagCity},
		{"lang", "language", FlagLang},
		{"time-format", "time_format", FlagTimeFormat},
		{"db", "db_path", FlagDB},
		{"store", "store", FlagStore},
	}
	for _, o := range overrides {
		if !flagWasSet(flags, root, o.flag) {
			continue
		}
		if err := cfg.Set(o.key, o.value); err != nil {
			return fmt.Errorf("--%s: %w", o.flag, err)
		}
	}
	if flagWasSet(flags, root, "debug") {
		cfg.Debug = FlagDebug
	}
	if FlagOffline {
		cfg.Providers = "offline"
	}
	return nil
}

// logDir is the configured log directory or the directory of the database.
func logDir(cfg config.Config) (string, error) {
	if cfg.LogDir != "" {
		return cfg.LogDir, nil
	}
	if cfg.DBPath != "" {
		return filepath.Dir(cfg.DBPath), nil
	}
	p, err := sqlite.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
