package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/srcom/speedrun"
)

// gameCmd represents the game command
var gameCmd = &cobra.Command{
	Use:   "game <id|abbreviation|name>",
	Short: "Show a game and its categories",
	Args:  cobra.ExactArgs(1),
	RunE:  runGame,
}

func init() {
	rootCmd.AddCommand(gameCmd)
}

func runGame(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	game, err := findGame(ctx, args[0])
	if err != nil {
		return err
	}

	categories, err := game.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	all, err := categories.Collect()
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}

	view := newGameView(game)
	for _, c := range all {
		view.Categories = append(view.Categories, newCategoryView(c))
	}

	return output(os.Stdout, view, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "%s (%d)\t%s\n", view.Name, view.Released, view.WebLink)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ID\tCATEGORY\tTYPE\tPLAYERS")
		for _, c := range view.Categories {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Players)
		}
	})
}

// findGame looks a game up by id, then by exact abbreviation, then by
// fuzzy name
func findGame(ctx context.Context, query string) (*speedrun.Game, error) {
	game, err := client.Game(ctx, query)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, speedrun.ErrNotFound) {
		return nil, err
	}

	game, err = client.FirstGame(ctx, url.Values{"abbreviation": {query}})
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, speedrun.ErrNotFound) {
		return nil, err
	}

	game, err = client.FirstGame(ctx, url.Values{"name": {query}})
	if err != nil {
		return nil, fmt.Errorf("game %q: %w", query, err)
	}
	logger.Debug().Str("query", query).Str("game", game.Name).Msg("Matched game by name")
	return game, nil
}

// findCategory picks a category of game by id or case-insensitive name
func findCategory(ctx context.Context, game *speedrun.Game, query string) (*speedrun.Category, error) {
	categories, err := game.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	for c, err := range categories.All() {
		if err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}
		if c.ID() == query || strings.EqualFold(c.Name, query) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category %q of %s: %w", query, game.Name, speedrun.ErrNotFound)
}
