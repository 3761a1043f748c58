package speedrun

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// LeaderboardQuery selects which leaderboard to fetch
type LeaderboardQuery struct {
	// Top limits the board to the first N placements; 0 returns all
	Top int
	// Category overrides a game's default category. Ignored for a
	// Category owner.
	Category string
	// Params are extra query parameters, e.g. var-<id>=<value>. They are
	// copied, never modified.
	Params url.Values
}

// Leaderboard gets the verified personal bests of a leaderboard, in the
// order the server ranks them.
//
// A Category owner, or a Game owner without a Category override, follows
// the owner's "leaderboard" link. A Game owner with a Category override
// requests leaderboards/<game>/category/<category> directly, since a game's
// own link only ever points at its default category.
func Leaderboard(ctx context.Context, owner LeaderboardOwner, q LeaderboardQuery) ([]*Run, error) {
	params := cloneParams(q.Params)
	if q.Top > 0 {
		params.Set("top", strconv.Itoa(q.Top))
	}

	var (
		body map[string]any
		err  error
		t    Transport
	)
	switch o := owner.(type) {
	case *Game:
		t = o.t
		if q.Category != "" {
			path := fmt.Sprintf("leaderboards/%s/category/%s", url.PathEscape(o.id), url.PathEscape(q.Category))
			body, err = t.Get(ctx, path, params)
			if err != nil {
				err = fmt.Errorf("failed to get leaderboard of game %q category %q: %w", o.id, q.Category, err)
			}
		} else {
			body, err = fetchRelated(ctx, t, o, "leaderboard", params)
		}
	case *Category:
		t = o.t
		body, err = fetchRelated(ctx, t, o, "leaderboard", params)
	default:
		return nil, fmt.Errorf("%s has no leaderboard", owner.Kind())
	}
	if err != nil {
		return nil, err
	}

	runs, err := decodeLeaderboard(body, t)
	if err != nil {
		return nil, err
	}

	loggerFor(t).Debug().
		Str("owner", owner.Kind()).
		Str("id", owner.ID()).
		Str("category", q.Category).
		Str("params", params.Encode()).
		Int("runs", len(runs)).
		Msg("Resolved leaderboard")

	return runs, nil
}

// decodeLeaderboard reads data.runs[].run; leaderboard entries nest the run
// one level below its placement
func decodeLeaderboard(body map[string]any, t Transport) ([]*Run, error) {
	data, err := dataOf(body)
	if err != nil {
		return nil, err
	}
	board, err := newFields("leaderboard", data)
	if err != nil {
		return nil, err
	}
	return decodeRankedRuns(board, t)
}

func decodeRankedRuns(f fields, t Transport) ([]*Run, error) {
	entries, err := f.requireArray("runs")
	if err != nil {
		return nil, err
	}

	runs := make([]*Run, 0, len(entries))
	for i, entry := range entries {
		ef, err := newFields(f.kind, entry)
		if err != nil {
			return nil, f.fail(fmt.Sprintf("runs[%d]", i), "expected object")
		}
		ef.path = f.name(fmt.Sprintf("runs[%d]", i))
		raw, err := ef.value("run")
		if err != nil {
			return nil, err
		}
		run, err := NewRun(raw, t)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func cloneParams(params url.Values) url.Values {
	out := make(url.Values, len(params)+1)
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// loggerFor returns the transport's logger when it exposes one
func loggerFor(t Transport) *zerolog.Logger {
	if l, ok := t.(interface{ Logger() *zerolog.Logger }); ok {
		return l.Logger()
	}
	nop := zerolog.Nop()
	return &nop
}
