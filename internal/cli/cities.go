package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/cache"
	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/geo"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
)

// newDetector is swapped in tests.
var newDetector = geo.NewDetector

var flagDetectSave bool

func newCitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the supported cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCities(cmd.OutOrStdout(), cities.All())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Find cities by part of their name in any language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found := cities.Search(args[0])
			if len(found) == 0 {
				return fmt.Errorf("no city matches %q", args[0])
			}
			return printCities(cmd.OutOrStdout(), found)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <city>",
		Short: "Make a city the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(a *app) error {
				if err := a.settings.SetDefaultCity(ctx, args[0]); err != nil {
					return err
				}
				c := cityFor(args[0])
				if err := invalidateAlarms(ctx, a); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Default city set to %s.\n", c.Display(a.lang(ctx)))
				if a.cfg.City != "" && a.cfg.City != c.Name {
					fmt.Fprintf(cmd.OutOrStdout(), "Note: config or --city still selects %s.\n", a.cfg.City)
				}
				return nil
			})
		},
	})

	detect := &cobra.Command{
		Use:   "detect",
		Short: "Guess the nearest supported city from your IP address",
		Args:  cobra.NoArgs,
		RunE:  runCitiesDetect,
	}
	detect.Flags().BoolVar(&flagDetectSave, "save", false, "Make the detected city the default")
	cmd.AddCommand(detect)

	return cmd
}

func cityFor(name string) cities.City {
	c, err := cities.Lookup(name)
	if err != nil {
		return cities.Default()
	}
	return c
}

type cityJSON struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	NameFR string  `json:"name_fr"`
	NameAR string  `json:"name_ar"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

func printCities(w io.Writer, list []cities.City) error {
	if FlagJSON {
		out := make([]cityJSON, len(list))
		for i, c := range list {
			out[i] = cityJSON{c.ID, c.Name, c.NameFR, c.NameAR, c.Lat, c.Lon}
		}
		return writeJSON(w, out)
	}

	tbl := display.NewTable([]string{"ID", "City", "Ville", "المدينة"})
	for _, c := range list {
		tbl.AddRow([]string{fmt.Sprint(c.ID), c.Name, c.NameFR, c.NameAR})
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

func runCitiesDetect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var fc *cache.FileStore
	if s, err := cache.NewFileStore(loadedConfig.CacheDir); err != nil {
		logger.Warn("geolocation cache disabled", "err", err)
	} else {
		fc = s
	}

	var loc *geo.Location
	if fc != nil {
		loc = fc.LoadGeo()
	}
	if loc == nil {
		detected, err := newDetector().Detect(ctx)
		if err != nil {
			return fmt.Errorf("location detection failed: %w", err)
		}
		loc = detected
		if fc != nil {
			if err := fc.SaveGeo(loc); err != nil {
				logger.Warn("caching geolocation failed", "err", err)
			}
		}
	}

	city, km := geo.NearestCity(loc)
	w := cmd.OutOrStdout()
	if FlagJSON {
		if err := writeJSON(w, struct {
			Detected   geo.Location `json:"detected"`
			City       string       `json:"city"`
			DistanceKm float64      `json:"distance_km"`
		}{*loc, city.Name, km}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Detected %s, %s (%.4f, %.4f)\n", loc.City, loc.Country, loc.Latitude, loc.Longitude)
		fmt.Fprintf(w, "Nearest supported city: %s (%.0f km)\n", city.Name, km)
	}

	if !flagDetectSave {
		return nil
	}
	return withApp(ctx, func(a *app) error {
		if err := a.settings.SetDefaultCity(ctx, city.Name); err != nil {
			return err
		}
		if !FlagJSON {
			fmt.Fprintf(w, "Default city set to %s.\n", city.Display(a.lang(ctx)))
		}
		return nil
	})
}

