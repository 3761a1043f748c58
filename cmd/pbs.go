package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/srcom/filter"
	"github.com/s0up4200/srcom/speedrun"
)

var (
	filterExpr string
	preset     string
	pbGame     string
)

// pbsCmd represents the pbs command
var pbsCmd = &cobra.Command{
	Use:   "pbs <user>",
	Short: "List a user's personal bests",
	Long: `List the personal bests of a user, optionally narrowed by a filter
expression or a preset from the config file.

Filter expressions see Place, Time (seconds), Date, Status, Verified, Game,
Category, Level, Comment, Videos, HasVideo, Players and Values, plus helpers
such as under(seconds), podium(), hasValue(variable, value), daysSince(date),
daysAgo(n), seconds("1h2m") and contains(text, substring).

Examples:
  srcom pbs alice --filter 'podium()'
  srcom pbs alice --filter 'under(seconds("30m")) and Date > daysAgo(365)'
  srcom pbs alice --preset recent`,
	Args: cobra.ExactArgs(1),
	RunE: runPBs,
}

func init() {
	rootCmd.AddCommand(pbsCmd)

	pbsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	pbsCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	pbsCmd.Flags().StringVarP(&pbGame, "game", "g", "", "only personal bests of this game id")
}

func runPBs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	selected, err := selectFilter()
	if err != nil {
		return err
	}

	user, err := findUser(ctx, args[0])
	if err != nil {
		return err
	}

	params := url.Values{}
	if pbGame != "" {
		params.Set("game", pbGame)
	}

	stream, err := user.PersonalBests(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to get personal bests: %w", err)
	}
	runs, err := stream.Collect()
	if err != nil {
		return fmt.Errorf("failed to get personal bests: %w", err)
	}

	if selected != nil {
		total := len(runs)
		if runs, err = filters.Apply(ctx, selected, runs); err != nil {
			return err
		}
		logger.Info().
			Str("filter", selected.Expression()).
			Int("matched", len(runs)).
			Int("total", total).
			Msg("Filtered personal bests")
	}

	views := newRunViews(runs)
	return output(os.Stdout, views, runTable(views))
}

// selectFilter determines the filter to use: command line filter, then
// preset, then none
func selectFilter() (filter.CompiledFilter, error) {
	if filterExpr != "" {
		f, err := filters.Compile(filterExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	}

	if preset != "" {
		f, ok := filters.GetFilter(preset)
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		return f, nil
	}

	return nil, nil
}

// findUser looks a user up by id, then by exact name
func findUser(ctx context.Context, query string) (*speedrun.User, error) {
	user, err := client.User(ctx, query)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, speedrun.ErrNotFound) {
		return nil, err
	}

	user, err = client.FirstUser(ctx, url.Values{"lookup": {query}})
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", query, err)
	}
	return user, nil
}
