package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/srcom/speedrun"
)

var (
	top  int
	vars []string
)

// leaderboardCmd represents the leaderboard command
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <game> [category]",
	Short: "Show the leaderboard of a game or category",
	Long: `Show the ranked runs of a leaderboard. Without a category the game's
default category is used.

Examples:
  srcom leaderboard sms
  srcom leaderboard sms "Any%" --top 10
  srcom leaderboard sms "Any%" --var <variable>=<value>`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLeaderboard,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)

	leaderboardCmd.Flags().IntVarP(&top, "top", "n", 0, "only show the first N places")
	leaderboardCmd.Flags().StringArrayVar(&vars, "var", nil, "variable value as <variable>=<value> (repeatable)")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := parseVars(vars)
	if err != nil {
		return err
	}

	game, err := findGame(ctx, args[0])
	if err != nil {
		return err
	}

	q := speedrun.LeaderboardQuery{Top: top, Params: params}
	if len(args) > 1 {
		category, err := findCategory(ctx, game, args[1])
		if err != nil {
			return err
		}
		q.Category = category.ID()
	}

	runs, err := game.Leaderboard(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to get leaderboard: %w", err)
	}

	logger.Info().Str("game", game.Name).Int("runs", len(runs)).Msg("Fetched leaderboard")

	views := newRunViews(runs)
	return output(os.Stdout, views, runTable(views))
}
