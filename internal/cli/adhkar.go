package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/adhkar"
	"github.com/smokyabdulrahman/salah-times/internal/display"
)

func newAdhkarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "adhkar",
		Aliases: []string{"dhikr"},
		Short:   "Manage the morning and evening adhkar lists",
		Long:    "Without a subcommand, show both lists. Positions are shown and given starting at 1.",
		Args:    cobra.NoArgs,
		RunE:    runAdhkarList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "list [morning|evening]",
		Short:     "Show one or both lists",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"morning", "evening"},
		RunE:      runAdhkarList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <morning|evening> <text...>",
		Short: "Append an entry to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runAdhkarAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <morning|evening> <id>",
		Aliases: []string{"delete", "remove"},
		Short:   "Remove an entry by ID",
		Args:    cobra.ExactArgs(2),
		RunE:    runAdhkarRemove,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "move <morning|evening> <id> <position>",
		Short: "Move an entry to another position",
		Args:  cobra.ExactArgs(3),
		RunE:  runAdhkarMove,
	})
	return cmd
}

func runAdhkarList(cmd *cobra.Command, args []string) error {
	types := adhkar.Types
	if len(args) == 1 {
		t, err := adhkar.ParseType(args[0])
		if err != nil {
			return err
		}
		types = []adhkar.Type{t}
	}

	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		svc := adhkar.NewService(a.db)
		lists := make(map[adhkar.Type][]adhkar.Item, len(types))
		for _, t := range types {
			items, err := svc.List(ctx, t)
			if err != nil {
				return err
			}
			lists[t] = items
		}

		w := cmd.OutOrStdout()
		if FlagJSON {
			return writeJSON(w, lists)
		}
		lang := a.lang(ctx)
		for _, t := range types {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s\n\n", display.Bold(adhkarTitle(t, lang)))
			if len(lists[t]) == 0 {
				fmt.Fprintln(w, "  (empty)")
				continue
			}
			tbl := display.NewTable([]string{"#", "ID", "Text"})
			for _, it := range lists[t] {
				tbl.AddRow([]string{strconv.Itoa(it.Position + 1), strconv.FormatInt(it.ID, 10), it.Text})
			}
			fmt.Fprint(w, tbl.Render())
		}
		fmt.Fprintln(w)
		return nil
	})
}

func runAdhkarAdd(cmd *cobra.Command, args []string) error {
	t, err := adhkar.ParseType(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		it, err := adhkar.NewService(a.db).Add(ctx, t, text)
		if err != nil {
			return err
		}
		if FlagJSON {
			return writeJSON(cmd.OutOrStdout(), it)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added #%d to the %s list at position %d.\n", it.ID, t, it.Position+1)
		return nil
	})
}

func runAdhkarRemove(cmd *cobra.Command, args []string) error {
	t, id, err := parseAdhkarTarget(args[0], args[1])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		if err := adhkar.NewService(a.db).Delete(ctx, t, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d from the %s list.\n", id, t)
		return nil
	})
}

func runAdhkarMove(cmd *cobra.Command, args []string) error {
	t, id, err := parseAdhkarTarget(args[0], args[1])
	if err != nil {
		return err
	}
	pos, err := strconv.Atoi(args[2])
	if err != nil || pos < 1 {
		return fmt.Errorf("invalid position %q: must be 1 or more", args[2])
	}

	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		items, err := adhkar.NewService(a.db).Move(ctx, t, id, pos-1)
		if err != nil {
			return err
		}
		if FlagJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		for _, it := range items {
			if it.ID == id {
				fmt.Fprintf(cmd.OutOrStdout(), "Moved #%d to position %d of the %s list.\n", id, it.Position+1, t)
			}
		}
		return nil
	})
}

func parseAdhkarTarget(list, rawID string) (adhkar.Type, int64, error) {
	t, err := adhkar.ParseType(list)
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(rawID, "#"), 10, 64)
	if err != nil || id < 1 {
		return "", 0, fmt.Errorf("invalid adhkar id %q", rawID)
	}
	return t, id, nil
}

func adhkarTitle(t adhkar.Type, lang string) string {
	titles := map[string][2]string{
		"ar": {"أذكار الصباح", "أذكار المساء"},
		"fr": {"Adhkar du matin", "Adhkar du soir"},
		"en": {"Morning adhkar", "Evening adhkar"},
	}
	pair, ok := titles[lang]
	if !ok {
		pair = titles["en"]
	}
	if t == adhkar.Evening {
		return pair[1]
	}
	return pair[0]
}
