package speedrun

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultRecordsTop is the number of runs per category Records returns when
// top is not positive
const DefaultRecordsTop = 3

// RecordQuery selects which record to resolve
type RecordQuery struct {
	// Category overrides a game's default category. Ignored for a
	// Category owner.
	Category string
	// IgnoreSubcategories skips filling var-<id> parameters from the
	// defaults of subcategory variables
	IgnoreSubcategories bool
	// Params are explicit query parameters. They always win over derived
	// subcategory defaults.
	Params url.Values
}

// Record gets the current best run of a leaderboard, or nil when the board
// is empty. An empty board is not an error.
//
// The API's default board for a category does not pick subcategories, so
// unless q.IgnoreSubcategories is set every subcategory variable of the
// effective category contributes var-<id>=<default>, for keys the caller
// has not set.
func Record(ctx context.Context, owner LeaderboardOwner, q RecordQuery) (*Run, error) {
	params := cloneParams(q.Params)

	var category string
	switch o := owner.(type) {
	case *Category:
		category = o.id
	case *Game:
		category = q.Category
		if category == "" {
			category = o.DefaultCategoryID
		}
	default:
		return nil, fmt.Errorf("%s has no record", owner.Kind())
	}

	if !q.IgnoreSubcategories {
		if err := fillSubcategoryDefaults(ctx, owner, category, params); err != nil {
			return nil, err
		}
	}

	lq := LeaderboardQuery{Top: 1, Params: params}
	if _, ok := owner.(*Game); ok {
		lq.Category = category
	}

	runs, err := Leaderboard(ctx, owner, lq)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// fillSubcategoryDefaults adds var-<id>=<default> for each subcategory
// variable of category, leaving existing keys alone
func fillSubcategoryDefaults(ctx context.Context, owner LeaderboardOwner, category string, params url.Values) error {
	vars, err := owner.Variables(ctx)
	if err != nil {
		return fmt.Errorf("failed to get subcategory variables: %w", err)
	}

	_, isGame := owner.(*Game)
	for vars.Next() {
		v := vars.Value()
		if !v.IsSubcategory || v.Default == "" {
			continue
		}
		// A game lists the variables of all its categories
		if isGame && v.CategoryID != category {
			continue
		}
		key := v.ParamKey()
		if _, set := params[key]; set {
			continue
		}
		params.Set(key, v.Default)
	}
	return vars.Err()
}

// Records gets the top runs of each board reachable from owner. top
// defaults to DefaultRecordsTop.
//
// A Game owner only asks for full-game categories, keyed by category id. A
// per-level Category owner gets one board per level, keyed by RecordsKey.
func Records(ctx context.Context, owner LeaderboardOwner, top int) (map[string][]*Run, error) {
	if top <= 0 {
		top = DefaultRecordsTop
	}
	params := url.Values{"top": {strconv.Itoa(top)}}

	var t Transport
	switch o := owner.(type) {
	case *Game:
		t = o.t
		params.Set("scope", "full-game")
	case *Category:
		t = o.t
	default:
		return nil, fmt.Errorf("%s has no records", owner.Kind())
	}

	items, err := fetchRelatedList(ctx, t, owner, "records", params)
	if err != nil {
		return nil, err
	}

	records := make(map[string][]*Run, len(items))
	for _, item := range items {
		f, err := newFields("leaderboard", item)
		if err != nil {
			return nil, err
		}
		category, err := f.requireString("category")
		if err != nil {
			return nil, err
		}
		level, err := f.nullableString("level")
		if err != nil {
			return nil, err
		}
		runs, err := decodeRankedRuns(f, t)
		if err != nil {
			return nil, err
		}
		records[RecordsKey(category, level)] = runs
	}
	return records, nil
}

// RecordsKey is the Records map key of a board: the category id, followed
// by "/<level id>" for level boards
func RecordsKey(category, level string) string {
	if level == "" {
		return category
	}
	return category + "/" + level
}
