package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/srcom/speedrun"
)

var (
	ignoreSubcategories bool
	allCategories       bool
	recordsTop          int
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record <game> [category]",
	Short: "Show the world record of a game or category",
	Long: `Show the current best run. Subcategory variables are set to their
defaults unless --ignore-subcategories is given, so the result matches the
board the website shows first. With --all, the top runs of every board
are listed instead; level boards show as <category>/<level>.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().BoolVar(&ignoreSubcategories, "ignore-subcategories", false, "do not apply subcategory defaults")
	recordCmd.Flags().BoolVar(&allCategories, "all", false, "list the top runs of every category")
	recordCmd.Flags().IntVarP(&recordsTop, "top", "n", speedrun.DefaultRecordsTop, "runs per category with --all")
	recordCmd.Flags().StringArrayVar(&vars, "var", nil, "variable value as <variable>=<value> (repeatable)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := parseVars(vars)
	if err != nil {
		return err
	}

	game, err := findGame(ctx, args[0])
	if err != nil {
		return err
	}

	var owner speedrun.LeaderboardOwner = game
	if len(args) > 1 {
		category, err := findCategory(ctx, game, args[1])
		if err != nil {
			return err
		}
		owner = category
	}

	if allCategories {
		records, err := speedrun.Records(ctx, owner, recordsTop)
		if err != nil {
			return fmt.Errorf("failed to get records: %w", err)
		}
		views := make(map[string][]runView, len(records))
		for board, runs := range records {
			views[board] = newRunViews(runs)
		}
		return output(os.Stdout, views, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "BOARD\t#\tTIME\tRUN")
			for _, board := range slices.Sorted(maps.Keys(views)) {
				for i, r := range views[board] {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", board, i+1, r.Time, r.WebLink)
				}
			}
		})
	}

	run, err := speedrun.Record(ctx, owner, speedrun.RecordQuery{
		IgnoreSubcategories: ignoreSubcategories,
		Params:              params,
	})
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}
	if run == nil {
		fmt.Println("No runs on this leaderboard yet.")
		return nil
	}

	view := newRunView(run)
	return output(os.Stdout, view, runTable([]runView{view}))
}
