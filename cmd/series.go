package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type seriesView struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	WebLink    string     `json:"weblink" yaml:"weblink"`
	Games      []gameView `json:"games" yaml:"games"`
	Moderators []userView `json:"moderators" yaml:"moderators"`
}

// seriesCmd represents the series command
var seriesCmd = &cobra.Command{
	Use:   "series <id>",
	Short: "Show the games and moderators of a series",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
}

func runSeries(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	series, err := client.Series(ctx, args[0])
	if err != nil {
		return err
	}

	view := seriesView{ID: series.ID(), Name: series.Name, WebLink: series.WebLink()}

	games, err := series.Games(ctx)
	if err != nil {
		return fmt.Errorf("failed to get games: %w", err)
	}
	for g, err := range games.All() {
		if err != nil {
			return fmt.Errorf("failed to get games: %w", err)
		}
		view.Games = append(view.Games, newGameView(g))
	}

	for u, err := range series.Moderators(ctx).All() {
		if err != nil {
			return fmt.Errorf("failed to get moderators: %w", err)
		}
		view.Moderators = append(view.Moderators, newUserView(u))
	}

	return output(os.Stdout, view, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "%s\t%s\n", view.Name, view.WebLink)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "GAME\tRELEASED\tID")
		for _, g := range view.Games {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", g.Name, g.Released, g.ID)
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "MODERATOR\tID")
		for _, u := range view.Moderators {
			fmt.Fprintf(tw, "%s\t%s\n", u.Name, u.ID)
		}
	})
}
