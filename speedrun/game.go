package speedrun

import (
	"context"
	"net/url"
	"time"
)

// Ruleset describes how runs of a game are timed and verified
type Ruleset struct {
	ShowMilliseconds    bool
	RequireVerification bool
	RequireVideo        bool
	RunTimes            []string
	DefaultTime         string
	EmulatorsAllowed    bool
}

// Game is a speedrun.com game
type Game struct {
	Resource

	Name         string
	JapaneseName string
	TwitchName   string
	Abbreviation string
	Released     int
	ReleaseDate  time.Time
	Ruleset      Ruleset
	Romhack      bool
	GameTypes    []string

	// DefaultCategoryID is the category the game's own leaderboard link
	// points at. It is empty when the game has no leaderboard link.
	DefaultCategoryID string
}

// NewGame decodes a game fragment
func NewGame(payload any, t Transport) (*Game, error) {
	f, err := newFields(KindGame, payload)
	if err != nil {
		return nil, err
	}
	res, err := decodeResource(f, t, false)
	if err != nil {
		return nil, err
	}

	g := &Game{Resource: res}

	names, err := f.requireObject("names")
	if err != nil {
		return nil, err
	}
	if g.Name, err = names.requireString("international"); err != nil {
		return nil, err
	}
	if g.JapaneseName, err = names.nullableString("japanese"); err != nil {
		return nil, err
	}
	if g.TwitchName, err = names.nullableString("twitch"); err != nil {
		return nil, err
	}
	if g.Abbreviation, err = f.requireString("abbreviation"); err != nil {
		return nil, err
	}

	released, err := f.nullableNumber("released")
	if err != nil {
		return nil, err
	}
	g.Released = int(released)

	releaseDate, err := f.nullableDate("release-date")
	if err != nil {
		return nil, err
	}
	if releaseDate != nil {
		g.ReleaseDate = *releaseDate
	}

	rules, err := f.requireObject("ruleset")
	if err != nil {
		return nil, err
	}
	g.Ruleset = Ruleset{
		ShowMilliseconds:    lookupBool(rules.m, "show-milliseconds"),
		RequireVerification: lookupBool(rules.m, "require-verification"),
		RequireVideo:        lookupBool(rules.m, "require-video"),
		DefaultTime:         lookupString(rules.m, "default-time"),
		EmulatorsAllowed:    lookupBool(rules.m, "emulators-allowed"),
	}
	for _, rt := range lookupArray(rules.m, "run-times") {
		if s, ok := rt.(string); ok {
			g.Ruleset.RunTimes = append(g.Ruleset.RunTimes, s)
		}
	}

	if g.Romhack, err = f.requireBool("romhack"); err != nil {
		return nil, err
	}
	if f.has("gametypes") {
		if g.GameTypes, err = f.requireStrings("gametypes"); err != nil {
			return nil, err
		}
	}

	if uri, ok := res.links.Resolve("leaderboard"); ok {
		g.DefaultCategoryID = lastSegment(uri)
	}

	return g, nil
}

func (g *Game) leaderboardOwner() {}

// Runs gets the runs submitted for the game
func (g *Game) Runs(ctx context.Context, params url.Values) (*Stream[*Run], error) {
	items, err := fetchRelatedList(ctx, g.t, g, "runs", params)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, g.t, NewRun), nil
}

// Categories gets the categories of the game
func (g *Game) Categories(ctx context.Context) (*Stream[*Category], error) {
	items, err := fetchRelatedList(ctx, g.t, g, "categories", nil)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, g.t, NewCategory), nil
}

// Variables gets every variable defined for the game, across categories
func (g *Game) Variables(ctx context.Context) (*Stream[*Variable], error) {
	items, err := fetchRelatedList(ctx, g.t, g, "variables", nil)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, g.t, NewVariable), nil
}

// Levels gets the raw level objects of the game
func (g *Game) Levels(ctx context.Context) ([]map[string]any, error) {
	items, err := fetchRelatedList(ctx, g.t, g, "levels", nil)
	if err != nil {
		return nil, err
	}
	levels := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			levels = append(levels, m)
		}
	}
	return levels, nil
}

// Series gets the series the game belongs to
func (g *Game) Series(ctx context.Context) (*Series, error) {
	data, err := fetchRelatedData(ctx, g.t, g, "series", nil)
	if err != nil {
		return nil, err
	}
	return NewSeries(data, g.t)
}

// DerivedGames gets games derived from this one
func (g *Game) DerivedGames(ctx context.Context) (*Stream[*Game], error) {
	items, err := fetchRelatedList(ctx, g.t, g, "derived-games", nil)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, g.t, NewGame), nil
}

// Romhacks gets romhack games based on this one
func (g *Game) Romhacks(ctx context.Context) (*Stream[*Game], error) {
	items, err := fetchRelatedList(ctx, g.t, g, "romhacks", nil)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, g.t, NewGame), nil
}

// Leaderboard gets the game's leaderboard; see the package-level Leaderboard
func (g *Game) Leaderboard(ctx context.Context, q LeaderboardQuery) ([]*Run, error) {
	return Leaderboard(ctx, g, q)
}

// Record gets the game's current best run, or nil if none exists
func (g *Game) Record(ctx context.Context, q RecordQuery) (*Run, error) {
	return Record(ctx, g, q)
}

// Records gets the top runs of every full-game category, keyed by
// category id
func (g *Game) Records(ctx context.Context, top int) (map[string][]*Run, error) {
	return Records(ctx, g, top)
}
