package speedrun

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultPlayerConcurrency bounds ResolvePlayers when no limit is given
const DefaultPlayerConcurrency = 4

// ResolvePlayers fetches all runners of a run concurrently, at most limit
// requests at a time, and returns them in the order the run lists them.
// Run.Players stays sequential; this is the explicit fan-out for callers
// that want it. The first failure cancels the remaining requests.
func ResolvePlayers(ctx context.Context, run *Run, limit int) ([]*User, error) {
	if len(run.players) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultPlayerConcurrency
	}

	users := make([]*User, len(run.players))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, ref := range run.players {
		g.Go(func() error {
			u, err := run.resolvePlayer(ctx, ref)
			if err != nil {
				return err
			}
			// Each goroutine owns one slot
			users[i] = u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	loggerFor(run.t).Debug().
		Str("run", run.id).
		Int("players", len(users)).
		Msg("Resolved run players")

	return users, nil
}
