package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/srcom/speedrun"
)

// playersCmd represents the players command
var playersCmd = &cobra.Command{
	Use:   "players <run-id>",
	Short: "Show the runners of a run",
	Long: `Resolve every runner of a run. Registered users are fetched in
parallel, bounded by api.concurrency; guests need no request.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayers,
}

func init() {
	rootCmd.AddCommand(playersCmd)
}

func runPlayers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	run, err := client.Run(ctx, args[0])
	if err != nil {
		return err
	}

	users, err := speedrun.ResolvePlayers(ctx, run, cfg.API.Concurrency)
	if err != nil {
		return fmt.Errorf("failed to resolve players: %w", err)
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}

	return output(os.Stdout, views, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "NAME\tCOUNTRY\tTWITCH\tPROFILE")
		for _, u := range views {
			name := u.Name
			if u.Guest {
				name += " (guest)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, dash(u.Country), dash(u.Twitch), dash(u.WebLink))
		}
	})
}
