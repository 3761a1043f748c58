package speedrun

import (
	"context"
	"net/url"
)

// Category types
const (
	CategoryPerGame  = "per-game"
	CategoryPerLevel = "per-level"
)

// PlayerCount is the number of runners a category allows
type PlayerCount struct {
	// Type is "exactly" or "up-to"
	Type  string
	Value int
}

// Category is a leaderboard category of a game
type Category struct {
	Resource

	Name          string
	Type          string
	Rules         string
	Players       PlayerCount
	Miscellaneous bool
}

// NewCategory decodes a category fragment
func NewCategory(payload any, t Transport) (*Category, error) {
	f, err := newFields(KindCategory, payload)
	if err != nil {
		return nil, err
	}
	res, err := decodeResource(f, t, false)
	if err != nil {
		return nil, err
	}

	c := &Category{Resource: res}
	if c.Name, err = f.requireString("name"); err != nil {
		return nil, err
	}
	if c.Type, err = f.requireString("type"); err != nil {
		return nil, err
	}
	if c.Rules, err = f.nullableString("rules"); err != nil {
		return nil, err
	}

	players, err := f.requireObject("players")
	if err != nil {
		return nil, err
	}
	if c.Players.Type, err = players.requireString("type"); err != nil {
		return nil, err
	}
	value, err := players.requireNumber("value")
	if err != nil {
		return nil, err
	}
	c.Players.Value = int(value)

	if c.Miscellaneous, err = f.requireBool("miscellaneous"); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Category) leaderboardOwner() {}

// IsPerLevel reports whether the category is scoped to individual levels
func (c *Category) IsPerLevel() bool {
	return c.Type == CategoryPerLevel
}

// Game gets the game this category belongs to
func (c *Category) Game(ctx context.Context) (*Game, error) {
	data, err := fetchRelatedData(ctx, c.t, c, "game", nil)
	if err != nil {
		return nil, err
	}
	return NewGame(data, c.t)
}

// Variables gets the variables that apply to this category
func (c *Category) Variables(ctx context.Context) (*Stream[*Variable], error) {
	items, err := fetchRelatedList(ctx, c.t, c, "variables", nil)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, c.t, NewVariable), nil
}

// Runs gets runs in the category. params, such as max or status, are
// forwarded untouched.
func (c *Category) Runs(ctx context.Context, params url.Values) (*Stream[*Run], error) {
	items, err := fetchRelatedList(ctx, c.t, c, "runs", params)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, c.t, NewRun), nil
}

// Leaderboard gets the category's leaderboard. q.Category is ignored.
func (c *Category) Leaderboard(ctx context.Context, q LeaderboardQuery) ([]*Run, error) {
	return Leaderboard(ctx, c, q)
}

// Record gets the category's current best run, or nil if none exists
func (c *Category) Record(ctx context.Context, q RecordQuery) (*Run, error) {
	return Record(ctx, c, q)
}

// Records gets the top runs of the category. A per-level category has one
// board per level; see RecordsKey.
func (c *Category) Records(ctx context.Context, top int) (map[string][]*Run, error) {
	return Records(ctx, c, top)
}
